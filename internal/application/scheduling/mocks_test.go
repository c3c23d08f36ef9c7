package scheduling

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/TimebarKeeper/internal/domain/notice"
	"github.com/turtacn/TimebarKeeper/internal/domain/todo"
)

// ─────────────────────────────────────────────────────────────────────────────
// Repository mocks
// ─────────────────────────────────────────────────────────────────────────────

type mockNoticeTypeRepo struct{ mock.Mock }

func (m *mockNoticeTypeRepo) Create(ctx context.Context, nt *notice.NoticeType) error {
	return m.Called(ctx, nt).Error(0)
}

func (m *mockNoticeTypeRepo) GetByID(ctx context.Context, id int64) (*notice.NoticeType, error) {
	args := m.Called(ctx, id)
	if nt, ok := args.Get(0).(*notice.NoticeType); ok {
		return nt, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNoticeTypeRepo) ResolveActive(ctx context.Context, orgID, id int64) (*notice.NoticeType, error) {
	args := m.Called(ctx, orgID, id)
	if nt, ok := args.Get(0).(*notice.NoticeType); ok {
		return nt, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNoticeTypeRepo) ListActiveByOrg(ctx context.Context, orgID int64) ([]*notice.NoticeType, error) {
	args := m.Called(ctx, orgID)
	if nts, ok := args.Get(0).([]*notice.NoticeType); ok {
		return nts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNoticeTypeRepo) Update(ctx context.Context, nt *notice.NoticeType) error {
	return m.Called(ctx, nt).Error(0)
}

func (m *mockNoticeTypeRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

type mockOrgSettingsRepo struct{ mock.Mock }

func (m *mockOrgSettingsRepo) GetByOrgID(ctx context.Context, orgID int64) (*notice.OrgSettings, error) {
	args := m.Called(ctx, orgID)
	if s, ok := args.Get(0).(*notice.OrgSettings); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrgSettingsRepo) Upsert(ctx context.Context, settings *notice.OrgSettings) error {
	return m.Called(ctx, settings).Error(0)
}

type mockCaseRepo struct{ mock.Mock }

func (m *mockCaseRepo) GetByID(ctx context.Context, id int64) (*notice.Case, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*notice.Case); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCaseRepo) SetVoyageEndDate(ctx context.Context, id int64, voyageEnd *time.Time) error {
	return m.Called(ctx, id, voyageEnd).Error(0)
}

type mockCaseNoticeRepo struct{ mock.Mock }

func (m *mockCaseNoticeRepo) Create(ctx context.Context, cn *notice.CaseNotice) error {
	return m.Called(ctx, cn).Error(0)
}

func (m *mockCaseNoticeRepo) GetByID(ctx context.Context, id int64) (*notice.CaseNotice, error) {
	args := m.Called(ctx, id)
	if cn, ok := args.Get(0).(*notice.CaseNotice); ok {
		return cn, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCaseNoticeRepo) GetByCaseAndType(ctx context.Context, caseID, noticeTypeID int64) (*notice.CaseNotice, error) {
	args := m.Called(ctx, caseID, noticeTypeID)
	if cn, ok := args.Get(0).(*notice.CaseNotice); ok {
		return cn, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCaseNoticeRepo) ListByCaseWithType(ctx context.Context, caseID int64) ([]*notice.CaseNoticeWithType, error) {
	args := m.Called(ctx, caseID)
	if cns, ok := args.Get(0).([]*notice.CaseNoticeWithType); ok {
		return cns, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCaseNoticeRepo) UpdateSnapshot(ctx context.Context, id int64, timebarDays int, offsetsText string) error {
	return m.Called(ctx, id, timebarDays, offsetsText).Error(0)
}

func (m *mockCaseNoticeRepo) SetExpiry(ctx context.Context, id int64, expiry *time.Time) error {
	return m.Called(ctx, id, expiry).Error(0)
}

func (m *mockCaseNoticeRepo) ClearExpiryByCase(ctx context.Context, caseID int64) error {
	return m.Called(ctx, caseID).Error(0)
}

func (m *mockCaseNoticeRepo) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	return m.Called(ctx, id, enabled).Error(0)
}

func (m *mockCaseNoticeRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockTodoRepo struct{ mock.Mock }

func (m *mockTodoRepo) Create(ctx context.Context, t *todo.Todo) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTodoRepo) GetByID(ctx context.Context, id int64) (*todo.Todo, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*todo.Todo); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTodoRepo) List(ctx context.Context, f todo.Filter) ([]*todo.Todo, error) {
	args := m.Called(ctx, f)
	if ts, ok := args.Get(0).([]*todo.Todo); ok {
		return ts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTodoRepo) ListOpenByCase(ctx context.Context, caseID int64) ([]*todo.Todo, error) {
	args := m.Called(ctx, caseID)
	if ts, ok := args.Get(0).([]*todo.Todo); ok {
		return ts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTodoRepo) FindOpenByMetaKey(ctx context.Context, caseID int64, typ todo.Type, metaKey string) (*todo.Todo, error) {
	args := m.Called(ctx, caseID, typ, metaKey)
	if t, ok := args.Get(0).(*todo.Todo); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTodoRepo) UpdateOpenByMetaKey(ctx context.Context, caseID int64, typ todo.Type, metaKey string, due *time.Time, title string, templateID *int64) (int64, error) {
	args := m.Called(ctx, caseID, typ, metaKey, due, title, templateID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTodoRepo) DismissOpenByCaseAndType(ctx context.Context, caseID int64, typ todo.Type) (int64, error) {
	args := m.Called(ctx, caseID, typ)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTodoRepo) DismissOpenByRelatedEntity(ctx context.Context, entityType string, entityID int64) (int64, error) {
	args := m.Called(ctx, entityType, entityID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTodoRepo) DismissOpenRemindersNotIn(ctx context.Context, caseNoticeID int64, keep []string) (int64, error) {
	args := m.Called(ctx, caseNoticeID, keep)
	return args.Get(0).(int64), args.Error(1)
}

// ─────────────────────────────────────────────────────────────────────────────
// Store mock — WithTx runs fn against the same repositories, which is exactly
// the visibility a real transaction provides within one call.
// ─────────────────────────────────────────────────────────────────────────────

type mockStore struct {
	noticeTypes *mockNoticeTypeRepo
	orgSettings *mockOrgSettingsRepo
	cases       *mockCaseRepo
	caseNotices *mockCaseNoticeRepo
	todos       *mockTodoRepo
}

func newMockStore() *mockStore {
	return &mockStore{
		noticeTypes: &mockNoticeTypeRepo{},
		orgSettings: &mockOrgSettingsRepo{},
		cases:       &mockCaseRepo{},
		caseNotices: &mockCaseNoticeRepo{},
		todos:       &mockTodoRepo{},
	}
}

func (s *mockStore) NoticeTypes() notice.NoticeTypeRepository  { return s.noticeTypes }
func (s *mockStore) OrgSettings() notice.OrgSettingsRepository { return s.orgSettings }
func (s *mockStore) Cases() notice.CaseRepository              { return s.cases }
func (s *mockStore) CaseNotices() notice.CaseNoticeRepository  { return s.caseNotices }
func (s *mockStore) Todos() todo.Repository                    { return s.todos }

func (s *mockStore) WithTx(ctx context.Context, fn func(Store) error) error {
	return fn(s)
}

func (s *mockStore) assertExpectations(t mock.TestingT) {
	s.noticeTypes.AssertExpectations(t)
	s.orgSettings.AssertExpectations(t)
	s.cases.AssertExpectations(t)
	s.caseNotices.AssertExpectations(t)
	s.todos.AssertExpectations(t)
}

// ─────────────────────────────────────────────────────────────────────────────
// Event publisher mock
// ─────────────────────────────────────────────────────────────────────────────

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishCaseReconciled(ctx context.Context, ev CaseReconciledEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *mockPublisher) PublishNoticeAttached(ctx context.Context, ev NoticeAttachedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *mockPublisher) PublishNoticeRemoved(ctx context.Context, ev NoticeRemovedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *mockPublisher) PublishReminderScheduled(ctx context.Context, ev ReminderScheduledEvent) error {
	return m.Called(ctx, ev).Error(0)
}

//Personal.AI order the ending
