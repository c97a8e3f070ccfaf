package domain

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Column limits of the reports table
const (
	maxNameLen    = 100
	maxContactLen = 100
)

type ReportService struct {
	repo   ReportRepo
	photos PhotoStore
	log    zerolog.Logger
}

func NewReportService(repo ReportRepo, photos PhotoStore, log zerolog.Logger) *ReportService {
	return &ReportService{
		repo:   repo,
		photos: photos,
		log:    log,
	}
}

func (s *ReportService) PhotoURL(key string) string {
	return s.photos.URL(key)
}

func validateFields(fields ReportFields) (ReportFields, error) {
	fields.Name = strings.TrimSpace(fields.Name)
	if fields.Name == "" {
		return fields, &ValidationError{Field: "nombre", Message: "El nombre del animal es obligatorio"}
	}
	if utf8.RuneCountInString(fields.Name) > maxNameLen {
		return fields, &ValidationError{
			Field:   "nombre",
			Message: fmt.Sprintf("El nombre del animal no puede superar los %d caracteres", maxNameLen),
		}
	}
	fields.Description = strings.TrimSpace(fields.Description)
	fields.Location = strings.TrimSpace(fields.Location)
	fields.Contact = strings.TrimSpace(fields.Contact)
	if utf8.RuneCountInString(fields.Contact) > maxContactLen {
		return fields, &ValidationError{
			Field:   "contacto",
			Message: fmt.Sprintf("El contacto no puede superar los %d caracteres", maxContactLen),
		}
	}
	return fields, nil
}

func (s *ReportService) storePhoto(ctx context.Context, photo *Upload) (sql.NullString, error) {
	if photo == nil || photo.Filename == "" {
		return sql.NullString{}, nil
	}
	key, err := s.photos.Save(ctx, photo.Filename, photo.Content)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("saving photo: %w", err)
	}
	return sql.NullString{String: key, Valid: true}, nil
}

func (s *ReportService) dropPhoto(ctx context.Context, key sql.NullString) {
	if !key.Valid {
		return
	}
	if err := s.photos.Delete(ctx, key.String); err != nil {
		s.log.Warn().Err(err).Str("photo", key.String).Msg("Error deleting photo")
	}
}

// Submit stores a new pending report owned by the session user.
func (s *ReportService) Submit(ctx context.Context, sess *Session, fields ReportFields, photo *Upload) (*Report, error) {
	if sess == nil || sess.UserID == nil {
		return nil, ErrForbidden
	}
	fields, err := validateFields(fields)
	if err != nil {
		return nil, err
	}
	key, err := s.storePhoto(ctx, photo)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Name:        fields.Name,
		Description: fields.Description,
		Location:    fields.Location,
		Contact:     fields.Contact,
		Photo:       key,
		State:       StatePending,
		OwnerID:     *sess.UserID,
	}
	if err := s.repo.CreateReport(ctx, report); err != nil {
		s.dropPhoto(ctx, key)
		return nil, err
	}
	return report, nil
}

func (s *ReportService) ListApproved(ctx context.Context) ([]ReportView, error) {
	return s.repo.ListReportsByState(ctx, StateApproved, true)
}

// ListOwn lists the reports of a user that weren't marked as found yet,
// newest first.
func (s *ReportService) ListOwn(ctx context.Context, ownerID int) ([]Report, error) {
	return s.repo.ListReportsByOwner(ctx, ownerID, StateFound)
}

func (s *ReportService) ListPending(ctx context.Context, sess *Session) ([]ReportView, error) {
	if sess == nil || !sess.IsAdmin {
		return nil, ErrForbidden
	}
	return s.repo.ListReportsByState(ctx, StatePending, false)
}

func (s *ReportService) Approve(ctx context.Context, sess *Session, id int) (*Report, error) {
	if sess == nil || !sess.IsAdmin {
		return nil, ErrForbidden
	}
	return s.repo.UpdateReport(ctx, id, func(r *Report) error {
		if r.State == StateFound {
			return ErrReportClosed
		}
		r.State = StateApproved
		r.RejectionReason = sql.NullString{}
		return nil
	})
}

func (s *ReportService) Reject(ctx context.Context, sess *Session, id int, reason string) (*Report, error) {
	if sess == nil || !sess.IsAdmin {
		return nil, ErrForbidden
	}
	reason = strings.TrimSpace(reason)
	return s.repo.UpdateReport(ctx, id, func(r *Report) error {
		if reason == "" {
			return &ValidationError{Field: "motivo_rechazo", Message: "El motivo de rechazo es obligatorio"}
		}
		if r.State == StateFound {
			return ErrReportClosed
		}
		r.State = StateRejected
		r.RejectionReason = sql.NullString{String: reason, Valid: true}
		return nil
	})
}

// MarkFound closes a report. Closing an already closed report is a no-op.
func (s *ReportService) MarkFound(ctx context.Context, sess *Session, id int) (*Report, error) {
	return s.repo.UpdateReport(ctx, id, func(r *Report) error {
		if !sess.IsOwner(r) {
			return ErrForbidden
		}
		r.State = StateFound
		return nil
	})
}

// GetOwned returns a report only if the session user owns it.
func (s *ReportService) GetOwned(ctx context.Context, sess *Session, id int) (*Report, error) {
	report, err := s.repo.FindReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.IsOwner(report) {
		return nil, ErrForbidden
	}
	return report, nil
}

// Edit overwrites the report fields and sends it back to moderation.
// The rejection reason is kept until the report gets approved.
func (s *ReportService) Edit(ctx context.Context, sess *Session, id int, fields ReportFields, photo *Upload) (*Report, error) {
	// Check ownership before looking at the input or touching the photo store
	if _, err := s.GetOwned(ctx, sess, id); err != nil {
		return nil, err
	}
	fields, err := validateFields(fields)
	if err != nil {
		return nil, err
	}
	newKey, err := s.storePhoto(ctx, photo)
	if err != nil {
		return nil, err
	}

	var oldKey sql.NullString
	report, err := s.repo.UpdateReport(ctx, id, func(r *Report) error {
		if !sess.IsOwner(r) {
			return ErrForbidden
		}
		if r.State == StateFound {
			return ErrReportClosed
		}
		r.Name = fields.Name
		r.Description = fields.Description
		r.Location = fields.Location
		r.Contact = fields.Contact
		if newKey.Valid {
			oldKey = r.Photo
			r.Photo = newKey
		}
		r.State = StatePending
		return nil
	})
	if err != nil {
		s.dropPhoto(ctx, newKey)
		return nil, err
	}
	s.dropPhoto(ctx, oldKey)
	return report, nil
}
