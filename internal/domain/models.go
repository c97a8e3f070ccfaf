package domain

import (
	"database/sql"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type ReportState string

const (
	StatePending  ReportState = "pending"
	StateApproved ReportState = "approved"
	StateRejected ReportState = "rejected"
	StateFound    ReportState = "found"
)

type User struct {
	ID         int
	Username   string
	PasswdHash string `db:"passwd_hash"`
	Role       Role
	CreatedAt  time.Time `db:"created_at"`
}

type Report struct {
	ID              int
	Name            string
	Description     string
	Location        string
	Contact         string
	Photo           sql.NullString
	State           ReportState
	RejectionReason sql.NullString `db:"rejection_reason"`
	OwnerID         int            `db:"owner_id"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// ReportView is a report as shown to moderators, with the owner's name.
type ReportView struct {
	Report
	OwnerName string `db:"owner_name"`
}

// ReportFields are the fields an owner can set on submit and edit.
type ReportFields struct {
	Name        string `schema:"nombre"`
	Description string `schema:"descripcion"`
	Location    string `schema:"ubicacion"`
	Contact     string `schema:"contacto"`
}

// Session is the identity attached to a request.
// UserID is nil for the administrator pseudo-account.
type Session struct {
	UserID   *int
	Username string
	Role     Role
	IsAdmin  bool
}

func (s *Session) IsOwner(r *Report) bool {
	return s != nil && s.UserID != nil && *s.UserID == r.OwnerID
}
