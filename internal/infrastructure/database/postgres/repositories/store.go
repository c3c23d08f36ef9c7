package repositories

import (
	"context"
	"database/sql"

	"github.com/turtacn/TimebarKeeper/internal/application/scheduling"
	"github.com/turtacn/TimebarKeeper/internal/domain/notice"
	"github.com/turtacn/TimebarKeeper/internal/domain/todo"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/database/postgres"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TimebarKeeper/pkg/errors"
)

// Store bundles the PostgreSQL repositories behind the scheduling engine's
// storage port. Outside a transaction every repository call runs against the
// pool; inside WithTx all repositories share one sql.Tx.
type Store struct {
	conn *postgres.Connection
	tx   *sql.Tx
	log  logging.Logger

	noticeTypes notice.NoticeTypeRepository
	orgSettings notice.OrgSettingsRepository
	cases       notice.CaseRepository
	caseNotices notice.CaseNoticeRepository
	todos       todo.Repository
}

var _ scheduling.Store = (*Store)(nil)

// NewStore creates the pool-backed store.
func NewStore(conn *postgres.Connection, log logging.Logger) *Store {
	return newStore(conn, nil, log)
}

func newStore(conn *postgres.Connection, tx *sql.Tx, log logging.Logger) *Store {
	base := baseRepo{conn: conn, tx: tx, log: log}
	return &Store{
		conn:        conn,
		tx:          tx,
		log:         log,
		noticeTypes: &postgresNoticeTypeRepo{baseRepo: base},
		orgSettings: &postgresOrgSettingsRepo{baseRepo: base},
		cases:       &postgresCaseRepo{baseRepo: base},
		caseNotices: &postgresCaseNoticeRepo{baseRepo: base},
		todos:       &postgresTodoRepo{baseRepo: base},
	}
}

func (s *Store) NoticeTypes() notice.NoticeTypeRepository  { return s.noticeTypes }
func (s *Store) OrgSettings() notice.OrgSettingsRepository { return s.orgSettings }
func (s *Store) Cases() notice.CaseRepository              { return s.cases }
func (s *Store) CaseNotices() notice.CaseNoticeRepository  { return s.caseNotices }
func (s *Store) Todos() todo.Repository                    { return s.todos }

// WithTx runs fn inside one database transaction, committing on nil and
// rolling back otherwise. Nested calls join the ambient transaction.
func (s *Store) WithTx(ctx context.Context, fn func(scheduling.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.conn.DB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin transaction")
	}

	txStore := newStore(s.conn, tx, s.log)
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			s.log.Error("transaction rollback failed", logging.Err(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit transaction")
	}
	return nil
}

//Personal.AI order the ending
