package adapters

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/sqlscan"
	"gitlab.com/ranfdev/mascotas/internal/db"
	"gitlab.com/ranfdev/mascotas/internal/domain"
)

var reportColumns = []string{
	"reports.id",
	"reports.name",
	"reports.description",
	"reports.location",
	"reports.contact",
	"reports.photo",
	"reports.state",
	"reports.rejection_reason",
	"reports.owner_id",
	"reports.created_at",
	"reports.updated_at",
}

type reportRepo struct {
	base
}

func NewReportRepo(sdb *db.SharedDB) domain.ReportRepo {
	return &reportRepo{newBase(sdb)}
}

func (r *reportRepo) CreateReport(ctx context.Context, report *domain.Report) error {
	if report.State == "" {
		report.State = domain.StatePending
	}
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now

	ins := r.stmt.
		Insert("reports").
		Columns(
			"name", "description", "location", "contact", "photo",
			"state", "rejection_reason", "owner_id", "created_at", "updated_at",
		).
		Values(
			report.Name, report.Description, report.Location, report.Contact, report.Photo,
			string(report.State), report.RejectionReason, report.OwnerID, report.CreatedAt, report.UpdatedAt,
		)

	return r.execTx(ctx, func(ctx context.Context, tx DBTX) error {
		id, err := r.insert(ctx, tx, ins)
		if isForeignKeyViolation(err) {
			// The session outlived its user
			return fmt.Errorf("%w: owner %d doesn't exist", domain.ErrForbidden, report.OwnerID)
		} else if err != nil {
			return err
		}
		report.ID = id
		return nil
	})
}

func (r *reportRepo) findReport(ctx context.Context, db DBTX, id int, lock bool) (*domain.Report, error) {
	query := r.stmt.
		Select(reportColumns...).
		From("reports").
		Where(sq.Eq{"reports.id": id})
	if lock && r.lockSuffix() != "" {
		query = query.Suffix(r.lockSuffix())
	}
	sql, args, _ := query.ToSql()

	report := &domain.Report{}
	err := sqlscan.Get(ctx, db, report, sql, args...)
	if sqlscan.NotFound(err) {
		return nil, domain.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return report, nil
}

func (r *reportRepo) FindReport(ctx context.Context, id int) (*domain.Report, error) {
	return r.findReport(ctx, r.sdb, id, false)
}

func (r *reportRepo) ListReportsByState(ctx context.Context, state domain.ReportState, newestFirst bool) ([]domain.ReportView, error) {
	order := "reports.id ASC"
	if newestFirst {
		order = "reports.id DESC"
	}
	sql, args, _ := r.stmt.
		Select(append(reportColumns, "users.username AS owner_name")...).
		From("reports").
		Join("users ON users.id = reports.owner_id").
		Where(sq.Eq{"reports.state": string(state)}).
		OrderBy(order).
		ToSql()

	reports := []domain.ReportView{}
	err := sqlscan.Select(ctx, r.sdb, &reports, sql, args...)
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepo) ListReportsByOwner(ctx context.Context, ownerID int, exclude ...domain.ReportState) ([]domain.Report, error) {
	query := r.stmt.
		Select(reportColumns...).
		From("reports").
		Where(sq.Eq{"reports.owner_id": ownerID}).
		OrderBy("reports.id DESC")
	if len(exclude) > 0 {
		states := make([]string, len(exclude))
		for i, s := range exclude {
			states[i] = string(s)
		}
		query = query.Where(sq.NotEq{"reports.state": states})
	}
	sql, args, _ := query.ToSql()

	reports := []domain.Report{}
	err := sqlscan.Select(ctx, r.sdb, &reports, sql, args...)
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepo) UpdateReport(ctx context.Context, id int, mutate func(*domain.Report) error) (*domain.Report, error) {
	var report *domain.Report
	err := r.execTx(ctx, func(ctx context.Context, tx DBTX) error {
		var err error
		report, err = r.findReport(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := mutate(report); err != nil {
			return err
		}
		report.UpdatedAt = time.Now().UTC()

		sql, args, _ := r.stmt.
			Update("reports").
			SetMap(map[string]interface{}{
				"name":             report.Name,
				"description":      report.Description,
				"location":         report.Location,
				"contact":          report.Contact,
				"photo":            report.Photo,
				"state":            string(report.State),
				"rejection_reason": report.RejectionReason,
				"updated_at":       report.UpdatedAt,
			}).
			Where(sq.Eq{"id": id}).
			ToSql()
		_, err = tx.ExecContext(ctx, sql, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
