package repositories

import (
	"context"
	"database/sql"

	"github.com/turtacn/TimebarKeeper/internal/domain/notice"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/database/postgres"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TimebarKeeper/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// NoticeTypeRepo
// ─────────────────────────────────────────────────────────────────────────────

type postgresNoticeTypeRepo struct {
	baseRepo
}

// NewPostgresNoticeTypeRepo creates the notice type catalog repository.
func NewPostgresNoticeTypeRepo(conn *postgres.Connection, log logging.Logger) notice.NoticeTypeRepository {
	return &postgresNoticeTypeRepo{baseRepo: baseRepo{conn: conn, log: log}}
}

const noticeTypeColumns = `id, org_id, name, timebar_days, reminder_offsets, template_id, active, created_at, updated_at`

func scanNoticeType(s scanner) (*notice.NoticeType, error) {
	var nt notice.NoticeType
	var templateID sql.NullInt64
	err := s.Scan(
		&nt.ID, &nt.OrgID, &nt.Name, &nt.TimebarDays, &nt.ReminderOffsets,
		&templateID, &nt.Active, &nt.CreatedAt, &nt.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.ErrCodeNoticeTypeNotFound, "notice type not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan notice type")
	}
	nt.TemplateID = nullInt64Ptr(templateID)
	return &nt, nil
}

func (r *postgresNoticeTypeRepo) Create(ctx context.Context, nt *notice.NoticeType) error {
	query := `
		INSERT INTO notice_types (org_id, name, timebar_days, reminder_offsets, template_id, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.executor().QueryRowContext(ctx, query,
		nt.OrgID, nt.Name, nt.TimebarDays, nt.ReminderOffsets, nt.TemplateID, nt.Active,
	).Scan(&nt.ID, &nt.CreatedAt, &nt.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrap(err, errors.ErrCodeConflict, "notice type name already exists for this organization")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create notice type")
	}
	return nil
}

func (r *postgresNoticeTypeRepo) GetByID(ctx context.Context, id int64) (*notice.NoticeType, error) {
	query := `SELECT ` + noticeTypeColumns + ` FROM notice_types WHERE id = $1`
	return scanNoticeType(r.executor().QueryRowContext(ctx, query, id))
}

func (r *postgresNoticeTypeRepo) ResolveActive(ctx context.Context, orgID, id int64) (*notice.NoticeType, error) {
	query := `SELECT ` + noticeTypeColumns + ` FROM notice_types WHERE id = $1 AND org_id = $2 AND active`
	return scanNoticeType(r.executor().QueryRowContext(ctx, query, id, orgID))
}

func (r *postgresNoticeTypeRepo) ListActiveByOrg(ctx context.Context, orgID int64) ([]*notice.NoticeType, error) {
	query := `SELECT ` + noticeTypeColumns + ` FROM notice_types WHERE org_id = $1 AND active ORDER BY name ASC`
	rows, err := r.executor().QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query notice types")
	}
	defer rows.Close()

	types := []*notice.NoticeType{}
	for rows.Next() {
		nt, err := scanNoticeType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, nt)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate notice types")
	}
	return types, nil
}

func (r *postgresNoticeTypeRepo) Update(ctx context.Context, nt *notice.NoticeType) error {
	query := `
		UPDATE notice_types
		SET name = $2, timebar_days = $3, reminder_offsets = $4, template_id = $5,
		    active = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.executor().QueryRowContext(ctx, query,
		nt.ID, nt.Name, nt.TimebarDays, nt.ReminderOffsets, nt.TemplateID, nt.Active,
	).Scan(&nt.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.New(errors.ErrCodeNoticeTypeNotFound, "notice type not found")
		}
		if isUniqueViolation(err) {
			return errors.Wrap(err, errors.ErrCodeConflict, "notice type name already exists for this organization")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update notice type")
	}
	return nil
}

func (r *postgresNoticeTypeRepo) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE notice_types SET active = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.executor().ExecContext(ctx, query, id, active)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to set notice type active flag")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeNoticeTypeNotFound, "notice type not found")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// OrgSettingsRepo
// ─────────────────────────────────────────────────────────────────────────────

type postgresOrgSettingsRepo struct {
	baseRepo
}

// NewPostgresOrgSettingsRepo creates the organization settings repository.
func NewPostgresOrgSettingsRepo(conn *postgres.Connection, log logging.Logger) notice.OrgSettingsRepository {
	return &postgresOrgSettingsRepo{baseRepo: baseRepo{conn: conn, log: log}}
}

func (r *postgresOrgSettingsRepo) GetByOrgID(ctx context.Context, orgID int64) (*notice.OrgSettings, error) {
	query := `
		SELECT org_id, default_reminder_offsets, created_at, updated_at
		FROM org_settings WHERE org_id = $1
	`
	var s notice.OrgSettings
	err := r.executor().QueryRowContext(ctx, query, orgID).Scan(
		&s.OrgID, &s.DefaultReminderOffsets, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.ErrCodeOrgSettingsNotFound, "organization settings not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query organization settings")
	}
	return &s, nil
}

func (r *postgresOrgSettingsRepo) Upsert(ctx context.Context, settings *notice.OrgSettings) error {
	query := `
		INSERT INTO org_settings (org_id, default_reminder_offsets)
		VALUES ($1, $2)
		ON CONFLICT (org_id) DO UPDATE SET
			default_reminder_offsets = EXCLUDED.default_reminder_offsets,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`
	err := r.executor().QueryRowContext(ctx, query,
		settings.OrgID, settings.DefaultReminderOffsets,
	).Scan(&settings.CreatedAt, &settings.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to upsert organization settings")
	}
	return nil
}

//Personal.AI order the ending
