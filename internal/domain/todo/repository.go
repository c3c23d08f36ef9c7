package todo

import (
	"context"
	"time"
)

// Filter narrows global todo listings.  Zero values mean "no constraint",
// except Status which defaults to OPEN at the query layer.  DueBefore is
// inclusive: a todo due exactly at the cutoff matches.
type Filter struct {
	Status    Status
	Type      Type
	DueBefore *time.Time
}

// Repository defines the persistence contract for case todos.
//
// Dismissal methods return the number of rows transitioned so the reconciler
// can log what it retired; they never hard-delete.
type Repository interface {
	Create(ctx context.Context, t *Todo) error
	GetByID(ctx context.Context, id int64) (*Todo, error)

	// List returns globally filtered todos, nulls-last by due date.
	List(ctx context.Context, f Filter) ([]*Todo, error)

	// ListOpenByCase returns the case's OPEN timebar-relevant todos
	// (reminders and the voyage-end gate), nulls-last by due date.
	ListOpenByCase(ctx context.Context, caseID int64) ([]*Todo, error)

	// FindOpenByMetaKey returns the case's OPEN todo with the given type and
	// dedup key, or a not-found error.
	FindOpenByMetaKey(ctx context.Context, caseID int64, typ Type, metaKey string) (*Todo, error)

	// UpdateOpenByMetaKey refreshes due date, title, and template reference
	// of the matching OPEN todo in place.  Returns the number of rows
	// touched (0 when no open todo carries the key).
	UpdateOpenByMetaKey(ctx context.Context, caseID int64, typ Type, metaKey string, due *time.Time, title string, templateID *int64) (int64, error)

	// DismissOpenByCaseAndType dismisses every OPEN todo of the given type
	// on the case.
	DismissOpenByCaseAndType(ctx context.Context, caseID int64, typ Type) (int64, error)

	// DismissOpenByRelatedEntity dismisses every OPEN todo back-referencing
	// the given entity (e.g. all reminders of one case notice).
	DismissOpenByRelatedEntity(ctx context.Context, entityType string, entityID int64) (int64, error)

	// DismissOpenRemindersNotIn dismisses the case notice's OPEN reminders
	// whose MetaKey is not in keep.  Used to prune reminders for offsets
	// removed from configuration.
	DismissOpenRemindersNotIn(ctx context.Context, caseNoticeID int64, keep []string) (int64, error)
}

//Personal.AI order the ending
