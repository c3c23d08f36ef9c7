// Package scheduling implements the timebar scheduling engine: attaching
// notice types to cases, reconciling reminder todos against voyage end dates,
// and serving the read queries the HTTP layer exposes.
package scheduling

import (
	"context"

	"github.com/turtacn/TimebarKeeper/internal/domain/notice"
	"github.com/turtacn/TimebarKeeper/internal/domain/todo"
)

// Store is the transactional persistence boundary of the scheduling engine.
// Implementations hand out repositories bound to the same underlying
// connection, and WithTx runs fn against repositories bound to one database
// transaction: every write inside fn commits or rolls back atomically.
type Store interface {
	NoticeTypes() notice.NoticeTypeRepository
	OrgSettings() notice.OrgSettingsRepository
	Cases() notice.CaseRepository
	CaseNotices() notice.CaseNoticeRepository
	Todos() todo.Repository

	// WithTx executes fn inside a single transaction.  The Store passed to
	// fn is transaction-bound; using the outer Store inside fn escapes the
	// transaction.
	WithTx(ctx context.Context, fn func(Store) error) error
}

//Personal.AI order the ending
