package scheduling

import (
	"context"

	"github.com/turtacn/TimebarKeeper/internal/domain/notice"
	"github.com/turtacn/TimebarKeeper/internal/domain/todo"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TimebarKeeper/pkg/errors"
)

// NoticeTypeCache caches per-organization active notice type listings.
// Implementations must degrade to calling load directly when the cache
// backend is unavailable; a cache outage must never fail a read.
type NoticeTypeCache interface {
	GetOrLoad(ctx context.Context, orgID int64, load func(context.Context) ([]*notice.NoticeType, error)) ([]*notice.NoticeType, error)
}

// CaseLocker serializes reconciliation per case across service instances.
// AcquireCase blocks until the lock is held and returns its release func.
type CaseLocker interface {
	AcquireCase(ctx context.Context, caseID int64) (func(), error)
}

// Service is the scheduling engine façade: the mutating operations triggered
// by case edits plus the read queries the HTTP layer serves.
type Service interface {
	// ListNoticeTypes returns the organization's active notice types,
	// ordered by name.
	ListNoticeTypes(ctx context.Context, orgID int64) ([]*notice.NoticeType, error)

	// AttachNoticeToCase resolves the notice type, inserts or updates the
	// case's attachment snapshot, and reconciles the case.  Fails with a
	// not-found error when the notice type does not resolve for the org.
	AttachNoticeToCase(ctx context.Context, caseID, orgID, noticeTypeID int64) (*ReconcileResult, error)

	// RecalculateCase re-reads the case and reconciles it.  Used after
	// external edits to the voyage end date or configuration.
	RecalculateCase(ctx context.Context, caseID, orgID int64) (*ReconcileResult, error)

	// SetNoticeEnabled flips the enabled flag and reconciles the owning
	// case.
	SetNoticeEnabled(ctx context.Context, caseNoticeID int64, enabled bool) (*ReconcileResult, error)

	// DeleteCaseNotice dismisses the attachment's open todos, deletes it,
	// and reconciles the case.  A missing id is a no-op success.
	DeleteCaseNotice(ctx context.Context, caseNoticeID int64) (*ReconcileResult, error)

	// ListCaseNotices returns the case's attachments joined with notice
	// type names.
	ListCaseNotices(ctx context.Context, caseID int64) ([]*notice.CaseNoticeWithType, error)

	// ListCaseTodos returns the case's open timebar-relevant todos,
	// nulls-last by due date.
	ListCaseTodos(ctx context.Context, caseID int64) ([]*todo.Todo, error)

	// ListTodos returns globally filtered todos, nulls-last by due date.
	ListTodos(ctx context.Context, f todo.Filter) ([]*todo.Todo, error)
}

// engine is the production Service implementation.
type engine struct {
	store          Store
	reconciler     *Reconciler
	cache          NoticeTypeCache // optional
	publisher      EventPublisher  // optional
	locks          CaseLocker      // optional
	defaultOffsets string
	log            logging.Logger
}

// ServiceOption tunes optional engine behaviour.
type ServiceOption func(*engine)

// WithDefaultReminderOffsets overrides the process-level offsets fallback
// applied when neither the notice type nor the organization settings carry
// an offsets string.
func WithDefaultReminderOffsets(offsets string) ServiceOption {
	return func(e *engine) {
		if offsets != "" {
			e.defaultOffsets = offsets
		}
	}
}

// NewService wires the scheduling engine.  cache, publisher and locks may be
// nil; the engine then reads the catalog directly, skips event publication,
// and relies on database transactions alone.
func NewService(store Store, reconciler *Reconciler, cache NoticeTypeCache, publisher EventPublisher, locks CaseLocker, log logging.Logger, opts ...ServiceOption) Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	e := &engine{
		store:          store,
		reconciler:     reconciler,
		cache:          cache,
		publisher:      publisher,
		locks:          locks,
		defaultOffsets: notice.DefaultReminderOffsets,
		log:            log.Named("scheduling"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// lockCase takes the cross-instance case lock when configured.
func (e *engine) lockCase(ctx context.Context, caseID int64) (func(), error) {
	if e.locks == nil {
		return func() {}, nil
	}
	return e.locks.AcquireCase(ctx, caseID)
}

func (e *engine) ListNoticeTypes(ctx context.Context, orgID int64) ([]*notice.NoticeType, error) {
	load := func(ctx context.Context) ([]*notice.NoticeType, error) {
		return e.store.NoticeTypes().ListActiveByOrg(ctx, orgID)
	}
	if e.cache == nil {
		return load(ctx)
	}
	return e.cache.GetOrLoad(ctx, orgID, load)
}

func (e *engine) AttachNoticeToCase(ctx context.Context, caseID, orgID, noticeTypeID int64) (*ReconcileResult, error) {
	release, err := e.lockCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	defer release()

	var result *ReconcileResult
	var caseNoticeID int64

	err = e.store.WithTx(ctx, func(tx Store) error {
		nt, err := tx.NoticeTypes().ResolveActive(ctx, orgID, noticeTypeID)
		if err != nil {
			if errors.IsNotFound(err) {
				return errors.New(errors.ErrCodeNoticeTypeNotFound, "notice type not found").WithCause(err)
			}
			return err
		}

		orgDefault := ""
		settings, err := tx.OrgSettings().GetByOrgID(ctx, orgID)
		if err != nil && !errors.IsNotFound(err) {
			return err
		}
		if settings != nil {
			orgDefault = settings.DefaultReminderOffsets
		}
		offsetsText := nt.ReminderOffsets
		if offsetsText == "" {
			offsetsText = orgDefault
		}
		if offsetsText == "" {
			offsetsText = e.defaultOffsets
		}

		existing, err := tx.CaseNotices().GetByCaseAndType(ctx, caseID, noticeTypeID)
		switch {
		case err == nil:
			if err := tx.CaseNotices().UpdateSnapshot(ctx, existing.ID, nt.TimebarDays, offsetsText); err != nil {
				return err
			}
			caseNoticeID = existing.ID
		case errors.IsNotFound(err):
			cn, err := notice.NewCaseNotice(caseID, nt, offsetsText)
			if err != nil {
				return err
			}
			if err := tx.CaseNotices().Create(ctx, cn); err != nil {
				return err
			}
			caseNoticeID = cn.ID
		default:
			return err
		}

		result, err = e.reconciler.Reconcile(ctx, tx, caseID)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.publish(ctx, func(p EventPublisher) error {
		return p.PublishNoticeAttached(ctx, NoticeAttachedEvent{
			CaseID: caseID, OrgID: orgID, NoticeTypeID: noticeTypeID, CaseNoticeID: caseNoticeID,
		})
	})
	e.publishReconciled(ctx, caseID, orgID, result)
	return result, nil
}

func (e *engine) RecalculateCase(ctx context.Context, caseID, orgID int64) (*ReconcileResult, error) {
	release, err := e.lockCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	defer release()

	var result *ReconcileResult
	err = e.store.WithTx(ctx, func(tx Store) error {
		var err error
		result, err = e.reconciler.Reconcile(ctx, tx, caseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.publishReconciled(ctx, caseID, orgID, result)
	return result, nil
}

func (e *engine) SetNoticeEnabled(ctx context.Context, caseNoticeID int64, enabled bool) (*ReconcileResult, error) {
	var result *ReconcileResult
	var caseID, orgID int64

	err := e.store.WithTx(ctx, func(tx Store) error {
		cn, err := tx.CaseNotices().GetByID(ctx, caseNoticeID)
		if err != nil {
			if errors.IsNotFound(err) {
				return errors.New(errors.ErrCodeCaseNoticeNotFound, "case notice not found").WithCause(err)
			}
			return err
		}
		caseID = cn.CaseID

		// The owning org comes off the notice type; the case notice row
		// itself does not carry it.
		if nt, err := tx.NoticeTypes().GetByID(ctx, cn.NoticeTypeID); err == nil {
			orgID = nt.OrgID
		} else if !errors.IsNotFound(err) {
			return err
		}

		if err := tx.CaseNotices().SetEnabled(ctx, caseNoticeID, enabled); err != nil {
			return err
		}

		result, err = e.reconciler.Reconcile(ctx, tx, caseID)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("case notice enabled flag changed",
		logging.Int64("case_notice_id", caseNoticeID),
		logging.Bool("enabled", enabled))
	e.publishReconciled(ctx, caseID, orgID, result)
	return result, nil
}

func (e *engine) DeleteCaseNotice(ctx context.Context, caseNoticeID int64) (*ReconcileResult, error) {
	result := &ReconcileResult{OK: true}
	var caseID int64
	deleted := false

	err := e.store.WithTx(ctx, func(tx Store) error {
		cn, err := tx.CaseNotices().GetByID(ctx, caseNoticeID)
		if err != nil {
			if errors.IsNotFound(err) {
				// Idempotent delete: already gone.
				return nil
			}
			return err
		}
		caseID = cn.CaseID

		if _, err := tx.Todos().DismissOpenByRelatedEntity(ctx, todo.RelatedEntityCaseNotice, caseNoticeID); err != nil {
			return err
		}
		if err := tx.CaseNotices().Delete(ctx, caseNoticeID); err != nil {
			return err
		}
		deleted = true

		result, err = e.reconciler.Reconcile(ctx, tx, caseID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if deleted {
		e.publish(ctx, func(p EventPublisher) error {
			return p.PublishNoticeRemoved(ctx, NoticeRemovedEvent{CaseID: caseID, CaseNoticeID: caseNoticeID})
		})
	}
	return result, nil
}

func (e *engine) ListCaseNotices(ctx context.Context, caseID int64) ([]*notice.CaseNoticeWithType, error) {
	return e.store.CaseNotices().ListByCaseWithType(ctx, caseID)
}

func (e *engine) ListCaseTodos(ctx context.Context, caseID int64) ([]*todo.Todo, error) {
	return e.store.Todos().ListOpenByCase(ctx, caseID)
}

func (e *engine) ListTodos(ctx context.Context, f todo.Filter) ([]*todo.Todo, error) {
	if f.Status == "" {
		f.Status = todo.StatusOpen
	}
	if !todo.ValidStatus(f.Status) {
		return nil, errors.New(errors.ErrCodeTodoFilterInvalid, "invalid status filter")
	}
	return e.store.Todos().List(ctx, f)
}

// publish runs one best-effort event publication; failures are logged and
// swallowed.
func (e *engine) publish(ctx context.Context, fn func(EventPublisher) error) {
	if e.publisher == nil {
		return
	}
	if err := fn(e.publisher); err != nil {
		e.log.Warn("event publication failed", logging.Err(err))
	}
}

func (e *engine) publishReconciled(ctx context.Context, caseID, orgID int64, result *ReconcileResult) {
	if result == nil {
		return
	}
	e.publish(ctx, func(p EventPublisher) error {
		return p.PublishCaseReconciled(ctx, CaseReconciledEvent{
			CaseID: caseID, OrgID: orgID, Scheduled: result.Scheduled, Reason: result.Reason,
		})
	})
	for _, rem := range result.NewReminders {
		rem.OrgID = orgID
		ev := rem
		e.publish(ctx, func(p EventPublisher) error {
			return p.PublishReminderScheduled(ctx, ev)
		})
	}
}

//Personal.AI order the ending
