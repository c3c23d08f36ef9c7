package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/turtacn/TimebarKeeper/internal/domain/notice"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/database/postgres"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TimebarKeeper/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// CaseRepo
// ─────────────────────────────────────────────────────────────────────────────

type postgresCaseRepo struct {
	baseRepo
}

// NewPostgresCaseRepo creates the case repository.
func NewPostgresCaseRepo(conn *postgres.Connection, log logging.Logger) notice.CaseRepository {
	return &postgresCaseRepo{baseRepo: baseRepo{conn: conn, log: log}}
}

func (r *postgresCaseRepo) GetByID(ctx context.Context, id int64) (*notice.Case, error) {
	query := `
		SELECT id, org_id, reference, voyage_end_date, created_at, updated_at
		FROM cases WHERE id = $1
	`
	var c notice.Case
	var voyageEnd sql.NullTime
	err := r.executor().QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.OrgID, &c.Reference, &voyageEnd, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.ErrCodeCaseNotFound, "case not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query case")
	}
	c.VoyageEndDate = nullTimePtr(voyageEnd)
	return &c, nil
}

func (r *postgresCaseRepo) SetVoyageEndDate(ctx context.Context, id int64, voyageEnd *time.Time) error {
	query := `UPDATE cases SET voyage_end_date = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.executor().ExecContext(ctx, query, id, voyageEnd)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to set voyage end date")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeCaseNotFound, "case not found")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// CaseNoticeRepo
// ─────────────────────────────────────────────────────────────────────────────

type postgresCaseNoticeRepo struct {
	baseRepo
}

// NewPostgresCaseNoticeRepo creates the case notice attachment repository.
func NewPostgresCaseNoticeRepo(conn *postgres.Connection, log logging.Logger) notice.CaseNoticeRepository {
	return &postgresCaseNoticeRepo{baseRepo: baseRepo{conn: conn, log: log}}
}

const caseNoticeColumns = `id, case_id, notice_type_id, timebar_days_snapshot, reminder_offsets_snapshot, enabled, expiry_date, created_at, updated_at`

func scanCaseNotice(s scanner) (*notice.CaseNotice, error) {
	var cn notice.CaseNotice
	var expiry sql.NullTime
	err := s.Scan(
		&cn.ID, &cn.CaseID, &cn.NoticeTypeID, &cn.TimebarDaysSnapshot,
		&cn.ReminderOffsetsSnapshot, &cn.Enabled, &expiry, &cn.CreatedAt, &cn.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.ErrCodeCaseNoticeNotFound, "case notice not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan case notice")
	}
	cn.ExpiryDate = nullTimePtr(expiry)
	return &cn, nil
}

func (r *postgresCaseNoticeRepo) Create(ctx context.Context, cn *notice.CaseNotice) error {
	query := `
		INSERT INTO case_notices (case_id, notice_type_id, timebar_days_snapshot, reminder_offsets_snapshot, enabled, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.executor().QueryRowContext(ctx, query,
		cn.CaseID, cn.NoticeTypeID, cn.TimebarDaysSnapshot, cn.ReminderOffsetsSnapshot, cn.Enabled, cn.ExpiryDate,
	).Scan(&cn.ID, &cn.CreatedAt, &cn.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrap(err, errors.ErrCodeConflict, "notice type already attached to this case")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create case notice")
	}
	return nil
}

func (r *postgresCaseNoticeRepo) GetByID(ctx context.Context, id int64) (*notice.CaseNotice, error) {
	query := `SELECT ` + caseNoticeColumns + ` FROM case_notices WHERE id = $1`
	return scanCaseNotice(r.executor().QueryRowContext(ctx, query, id))
}

func (r *postgresCaseNoticeRepo) GetByCaseAndType(ctx context.Context, caseID, noticeTypeID int64) (*notice.CaseNotice, error) {
	query := `SELECT ` + caseNoticeColumns + ` FROM case_notices WHERE case_id = $1 AND notice_type_id = $2`
	return scanCaseNotice(r.executor().QueryRowContext(ctx, query, caseID, noticeTypeID))
}

func (r *postgresCaseNoticeRepo) ListByCaseWithType(ctx context.Context, caseID int64) ([]*notice.CaseNoticeWithType, error) {
	query := `
		SELECT cn.id, cn.case_id, cn.notice_type_id, cn.timebar_days_snapshot,
		       cn.reminder_offsets_snapshot, cn.enabled, cn.expiry_date,
		       cn.created_at, cn.updated_at,
		       nt.name, nt.template_id
		FROM case_notices cn
		JOIN notice_types nt ON nt.id = cn.notice_type_id
		WHERE cn.case_id = $1
		ORDER BY nt.name ASC, cn.id ASC
	`
	rows, err := r.executor().QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query case notices")
	}
	defer rows.Close()

	notices := []*notice.CaseNoticeWithType{}
	for rows.Next() {
		var n notice.CaseNoticeWithType
		var expiry sql.NullTime
		var templateID sql.NullInt64
		err := rows.Scan(
			&n.ID, &n.CaseID, &n.NoticeTypeID, &n.TimebarDaysSnapshot,
			&n.ReminderOffsetsSnapshot, &n.Enabled, &expiry,
			&n.CreatedAt, &n.UpdatedAt,
			&n.NoticeTypeName, &templateID,
		)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan case notice")
		}
		n.ExpiryDate = nullTimePtr(expiry)
		n.TemplateID = nullInt64Ptr(templateID)
		notices = append(notices, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate case notices")
	}
	return notices, nil
}

func (r *postgresCaseNoticeRepo) UpdateSnapshot(ctx context.Context, id int64, timebarDays int, offsetsText string) error {
	query := `
		UPDATE case_notices
		SET timebar_days_snapshot = $2, reminder_offsets_snapshot = $3, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.executor().ExecContext(ctx, query, id, timebarDays, offsetsText)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update case notice snapshot")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeCaseNoticeNotFound, "case notice not found")
	}
	return nil
}

func (r *postgresCaseNoticeRepo) SetExpiry(ctx context.Context, id int64, expiry *time.Time) error {
	query := `UPDATE case_notices SET expiry_date = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.executor().ExecContext(ctx, query, id, expiry)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to set expiry date")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeCaseNoticeNotFound, "case notice not found")
	}
	return nil
}

func (r *postgresCaseNoticeRepo) ClearExpiryByCase(ctx context.Context, caseID int64) error {
	query := `UPDATE case_notices SET expiry_date = NULL, updated_at = NOW() WHERE case_id = $1 AND expiry_date IS NOT NULL`
	if _, err := r.executor().ExecContext(ctx, query, caseID); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to clear expiry dates")
	}
	return nil
}

func (r *postgresCaseNoticeRepo) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	query := `UPDATE case_notices SET enabled = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.executor().ExecContext(ctx, query, id, enabled)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to set enabled flag")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeCaseNoticeNotFound, "case notice not found")
	}
	return nil
}

// Delete removes the attachment. Deleting an id that is already gone is a
// no-op; idempotence is handled at the service layer.
func (r *postgresCaseNoticeRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM case_notices WHERE id = $1`
	if _, err := r.executor().ExecContext(ctx, query, id); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete case notice")
	}
	return nil
}

//Personal.AI order the ending
