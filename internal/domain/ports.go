package domain

import (
	"context"
	"io"
)

type UserRepo interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	CreateUser(ctx context.Context, user *User) error
	FindUserByUsername(ctx context.Context, username string) (*User, error)
}

type ReportRepo interface {
	CreateReport(ctx context.Context, report *Report) error
	FindReport(ctx context.Context, id int) (*Report, error)
	ListReportsByState(ctx context.Context, state ReportState, newestFirst bool) ([]ReportView, error)
	ListReportsByOwner(ctx context.Context, ownerID int, exclude ...ReportState) ([]Report, error)
	// UpdateReport loads the report, applies mutate and writes it back
	// in a single transaction. If mutate fails nothing is written.
	UpdateReport(ctx context.Context, id int, mutate func(r *Report) error) (*Report, error)
}

// PhotoStore keeps uploaded pet photos.
type PhotoStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (key string, err error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Upload is an optional photo attached to a submit or an edit.
type Upload struct {
	Filename string
	Content  io.Reader
}
