package notice

import (
	"context"
	"time"
)

// CaseNoticeWithType is a CaseNotice joined with the display fields of its
// notice type, for listings and reminder titles.
type CaseNoticeWithType struct {
	CaseNotice
	NoticeTypeName string `json:"notice_type_name"`
	TemplateID     *int64 `json:"template_id,omitempty"`
}

// NoticeTypeRepository defines the persistence contract for the notice type
// catalog.
type NoticeTypeRepository interface {
	Create(ctx context.Context, nt *NoticeType) error
	GetByID(ctx context.Context, id int64) (*NoticeType, error)

	// ResolveActive returns the notice type only if it is active and belongs
	// to the organization; otherwise a not-found error.
	ResolveActive(ctx context.Context, orgID, id int64) (*NoticeType, error)

	// ListActiveByOrg returns the organization's active notice types ordered
	// by name.
	ListActiveByOrg(ctx context.Context, orgID int64) ([]*NoticeType, error)

	Update(ctx context.Context, nt *NoticeType) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// OrgSettingsRepository defines the persistence contract for organization
// scheduling defaults.
type OrgSettingsRepository interface {
	GetByOrgID(ctx context.Context, orgID int64) (*OrgSettings, error)
	Upsert(ctx context.Context, settings *OrgSettings) error
}

// CaseRepository defines the contract for the case records the scheduler
// anchors timebars on.
type CaseRepository interface {
	GetByID(ctx context.Context, id int64) (*Case, error)
	SetVoyageEndDate(ctx context.Context, id int64, voyageEnd *time.Time) error
}

// CaseNoticeRepository defines the persistence contract for notice
// attachments.
type CaseNoticeRepository interface {
	Create(ctx context.Context, cn *CaseNotice) error
	GetByID(ctx context.Context, id int64) (*CaseNotice, error)

	// GetByCaseAndType returns the attachment for (caseID, noticeTypeID) or
	// a not-found error; the pair is unique.
	GetByCaseAndType(ctx context.Context, caseID, noticeTypeID int64) (*CaseNotice, error)

	// ListByCaseWithType returns the case's attachments joined with notice
	// type display fields, ordered by notice type name.
	ListByCaseWithType(ctx context.Context, caseID int64) ([]*CaseNoticeWithType, error)

	// UpdateSnapshot refreshes the rule snapshot fields and touches the
	// update timestamp.
	UpdateSnapshot(ctx context.Context, id int64, timebarDays int, offsetsText string) error

	// SetExpiry persists the computed expiry (nil clears it).
	SetExpiry(ctx context.Context, id int64, expiry *time.Time) error

	// ClearExpiryByCase nulls the expiry on every attachment of the case.
	ClearExpiryByCase(ctx context.Context, caseID int64) error

	SetEnabled(ctx context.Context, id int64, enabled bool) error
	Delete(ctx context.Context, id int64) error
}

//Personal.AI order the ending
