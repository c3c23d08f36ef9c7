package repositories

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/lib/pq"
	"github.com/turtacn/TimebarKeeper/internal/domain/todo"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/database/postgres"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TimebarKeeper/pkg/errors"
)

type postgresTodoRepo struct {
	baseRepo
}

// NewPostgresTodoRepo creates the case todo repository.
func NewPostgresTodoRepo(conn *postgres.Connection, log logging.Logger) todo.Repository {
	return &postgresTodoRepo{baseRepo: baseRepo{conn: conn, log: log}}
}

const todoColumns = `id, case_id, type, status, title, due_date, related_entity_type, related_entity_id, template_id, meta_key, created_at, updated_at`

func scanTodo(s scanner) (*todo.Todo, error) {
	var t todo.Todo
	var due sql.NullTime
	var relatedType sql.NullString
	var relatedID, templateID sql.NullInt64
	err := s.Scan(
		&t.ID, &t.CaseID, &t.Type, &t.Status, &t.Title, &due,
		&relatedType, &relatedID, &templateID, &t.MetaKey,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.ErrCodeTodoNotFound, "todo not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan todo")
	}
	t.DueDate = nullTimePtr(due)
	t.RelatedEntityType = relatedType.String
	t.RelatedEntityID = nullInt64Ptr(relatedID)
	t.TemplateID = nullInt64Ptr(templateID)
	return &t, nil
}

func (r *postgresTodoRepo) Create(ctx context.Context, t *todo.Todo) error {
	query := `
		INSERT INTO case_todos (case_id, type, status, title, due_date, related_entity_type, related_entity_id, template_id, meta_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.executor().QueryRowContext(ctx, query,
		t.CaseID, t.Type, t.Status, t.Title, t.DueDate,
		t.RelatedEntityType, t.RelatedEntityID, t.TemplateID, t.MetaKey,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create todo")
	}
	return nil
}

func (r *postgresTodoRepo) GetByID(ctx context.Context, id int64) (*todo.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM case_todos WHERE id = $1`
	return scanTodo(r.executor().QueryRowContext(ctx, query, id))
}

// List returns todos matching the filter, soonest due first with undated
// todos last.
func (r *postgresTodoRepo) List(ctx context.Context, f todo.Filter) ([]*todo.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM case_todos WHERE 1=1`
	args := []interface{}{}

	if f.Status != "" {
		args = append(args, f.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		query += ` AND type = $` + strconv.Itoa(len(args))
	}
	if f.DueBefore != nil {
		args = append(args, *f.DueBefore)
		query += ` AND due_date <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY due_date ASC NULLS LAST, id ASC`

	return r.queryTodos(ctx, query, args...)
}

func (r *postgresTodoRepo) ListOpenByCase(ctx context.Context, caseID int64) ([]*todo.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM case_todos
		WHERE case_id = $1 AND status = $2
		ORDER BY due_date ASC NULLS LAST, id ASC`
	return r.queryTodos(ctx, query, caseID, todo.StatusOpen)
}

func (r *postgresTodoRepo) FindOpenByMetaKey(ctx context.Context, caseID int64, typ todo.Type, metaKey string) (*todo.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM case_todos
		WHERE case_id = $1 AND type = $2 AND meta_key = $3 AND status = $4
		LIMIT 1`
	return scanTodo(r.executor().QueryRowContext(ctx, query, caseID, typ, metaKey, todo.StatusOpen))
}

func (r *postgresTodoRepo) UpdateOpenByMetaKey(ctx context.Context, caseID int64, typ todo.Type, metaKey string, due *time.Time, title string, templateID *int64) (int64, error) {
	query := `
		UPDATE case_todos
		SET due_date = $5, title = $6, template_id = $7, updated_at = NOW()
		WHERE case_id = $1 AND type = $2 AND meta_key = $3 AND status = $4
	`
	res, err := r.executor().ExecContext(ctx, query, caseID, typ, metaKey, todo.StatusOpen, due, title, templateID)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update todo by meta key")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read affected rows")
	}
	return n, nil
}

func (r *postgresTodoRepo) DismissOpenByCaseAndType(ctx context.Context, caseID int64, typ todo.Type) (int64, error) {
	query := `
		UPDATE case_todos SET status = $3, updated_at = NOW()
		WHERE case_id = $1 AND type = $2 AND status = $4
	`
	res, err := r.executor().ExecContext(ctx, query, caseID, typ, todo.StatusDismissed, todo.StatusOpen)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to dismiss todos by type")
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *postgresTodoRepo) DismissOpenByRelatedEntity(ctx context.Context, entityType string, entityID int64) (int64, error) {
	query := `
		UPDATE case_todos SET status = $3, updated_at = NOW()
		WHERE related_entity_type = $1 AND related_entity_id = $2 AND status = $4
	`
	res, err := r.executor().ExecContext(ctx, query, entityType, entityID, todo.StatusDismissed, todo.StatusOpen)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to dismiss todos by related entity")
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// DismissOpenRemindersNotIn dismisses open reminders of the case notice whose
// dedup key fell out of the configured offset set. An empty keep list
// dismisses them all.
func (r *postgresTodoRepo) DismissOpenRemindersNotIn(ctx context.Context, caseNoticeID int64, keep []string) (int64, error) {
	query := `
		UPDATE case_todos SET status = $4, updated_at = NOW()
		WHERE related_entity_type = $1 AND related_entity_id = $2
		  AND type = $3 AND status = $5
		  AND NOT (meta_key = ANY($6))
	`
	res, err := r.executor().ExecContext(ctx, query,
		todo.RelatedEntityCaseNotice, caseNoticeID, todo.TypeTimebarReminder,
		todo.StatusDismissed, todo.StatusOpen, pq.Array(keep),
	)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to prune stale reminders")
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *postgresTodoRepo) queryTodos(ctx context.Context, query string, args ...interface{}) ([]*todo.Todo, error) {
	rows, err := r.executor().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query todos")
	}
	defer rows.Close()

	todos := []*todo.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate todos")
	}
	return todos, nil
}

//Personal.AI order the ending
