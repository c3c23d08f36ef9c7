package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/turtacn/TimebarKeeper/internal/domain/todo"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/database/postgres"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TimebarKeeper/pkg/errors"
)

type TodoRepoTestSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	db   *sql.DB
	repo todo.Repository
}

func (s *TodoRepoTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	s.NoError(err)

	log := logging.NewNopLogger()
	conn := postgres.NewConnectionWithDB(s.db, log)
	s.repo = NewPostgresTodoRepo(conn, log)
}

func (s *TodoRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

func todoRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "case_id", "type", "status", "title", "due_date",
		"related_entity_type", "related_entity_id", "template_id", "meta_key",
		"created_at", "updated_at",
	})
}

func (s *TodoRepoTestSuite) TestCreate_AssignsIDAndTimestamps() {
	now := time.Now()
	due := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)

	s.mock.ExpectQuery(`INSERT INTO case_todos`).
		WithArgs(int64(100), string(todo.TypeTimebarReminder), string(todo.StatusOpen),
			"Send NOR - 10 days before timebar (expires 2025-03-15)",
			due, todo.RelatedEntityCaseNotice, int64(42), nil,
			"TIMEBAR:42:OFFSET:10").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(7), now, now))

	expiry := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	t := todo.NewReminder(100, 42, "NOR", 10, expiry, nil)
	s.NoError(s.repo.Create(context.Background(), t))
	s.Equal(int64(7), t.ID)
	s.Equal(now, t.CreatedAt)
}

func (s *TodoRepoTestSuite) TestCreate_GateTodoKeepsEmptyRelatedType() {
	now := time.Now()

	// The voyage-end gate carries no related entity and no due date; the
	// insert must pass the empty string through so the NOT NULL column with
	// a '' default accepts it.
	s.mock.ExpectQuery(`INSERT INTO case_todos`).
		WithArgs(int64(100), string(todo.TypeMissingVoyageEndDate), string(todo.StatusOpen),
			todo.MissingVoyageEndTitle, nil, "", nil, nil,
			todo.MissingVoyageEndMetaKey).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(8), now, now))

	t := todo.NewMissingVoyageEndGate(100)
	s.NoError(s.repo.Create(context.Background(), t))
	s.Equal(int64(8), t.ID)
}

func (s *TodoRepoTestSuite) TestGetByID_NotFound() {
	s.mock.ExpectQuery(`SELECT .* FROM case_todos WHERE id = \$1`).
		WithArgs(int64(999)).
		WillReturnError(sql.ErrNoRows)

	_, err := s.repo.GetByID(context.Background(), 999)
	s.Error(err)
	s.True(errors.IsCode(err, errors.ErrCodeTodoNotFound))
}

func (s *TodoRepoTestSuite) TestList_FiltersAndOrdersNullsLast() {
	due := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	s.mock.ExpectQuery(`SELECT .* FROM case_todos WHERE 1=1 AND status = \$1 ORDER BY due_date ASC NULLS LAST, id ASC`).
		WithArgs(todo.StatusOpen).
		WillReturnRows(todoRows().
			AddRow(int64(1), int64(100), "TIMEBAR_REMINDER", "OPEN", "Send NOR - 10 days before timebar (expires 2025-03-15)",
				due, "CaseNotice", int64(42), nil, "TIMEBAR:42:OFFSET:10", now, now).
			AddRow(int64(2), int64(101), "MISSING_VOYAGE_END_DATE", "OPEN", todo.MissingVoyageEndTitle,
				nil, nil, nil, nil, todo.MissingVoyageEndMetaKey, now, now))

	todos, err := s.repo.List(context.Background(), todo.Filter{Status: todo.StatusOpen})
	s.NoError(err)
	s.Len(todos, 2)
	s.NotNil(todos[0].DueDate)
	s.Nil(todos[1].DueDate)
	s.Equal("", todos[1].RelatedEntityType)
	s.Nil(todos[1].RelatedEntityID)
}

func (s *TodoRepoTestSuite) TestList_DueBeforeIsInclusive() {
	cutoff := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

	// Todos due exactly on the cutoff date are included.
	s.mock.ExpectQuery(`AND status = \$1 AND type = \$2 AND due_date <= \$3`).
		WithArgs(todo.StatusOpen, todo.TypeTimebarReminder, cutoff).
		WillReturnRows(todoRows())

	todos, err := s.repo.List(context.Background(), todo.Filter{
		Status:    todo.StatusOpen,
		Type:      todo.TypeTimebarReminder,
		DueBefore: &cutoff,
	})
	s.NoError(err)
	s.Empty(todos)
}

func (s *TodoRepoTestSuite) TestUpdateOpenByMetaKey_ReportsTouchedRows() {
	due := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)

	s.mock.ExpectExec(`UPDATE case_todos`).
		WithArgs(int64(100), string(todo.TypeTimebarReminder), "TIMEBAR:42:OFFSET:10",
			string(todo.StatusOpen), due, "title", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := s.repo.UpdateOpenByMetaKey(context.Background(), 100, todo.TypeTimebarReminder,
		"TIMEBAR:42:OFFSET:10", &due, "title", nil)
	s.NoError(err)
	s.Equal(int64(1), n)
}

func (s *TodoRepoTestSuite) TestDismissOpenRemindersNotIn_UsesArrayParameter() {
	keep := []string{"TIMEBAR:42:OFFSET:10", "TIMEBAR:42:OFFSET:5"}

	s.mock.ExpectExec(`NOT \(meta_key = ANY\(\$6\)\)`).
		WithArgs(todo.RelatedEntityCaseNotice, int64(42), todo.TypeTimebarReminder,
			todo.StatusDismissed, todo.StatusOpen, pq.Array(keep)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := s.repo.DismissOpenRemindersNotIn(context.Background(), 42, keep)
	s.NoError(err)
	s.Equal(int64(2), n)
}

func (s *TodoRepoTestSuite) TestDismissOpenByCaseAndType() {
	s.mock.ExpectExec(`UPDATE case_todos SET status = \$3`).
		WithArgs(int64(100), todo.TypeTimebarReminder, todo.StatusDismissed, todo.StatusOpen).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := s.repo.DismissOpenByCaseAndType(context.Background(), 100, todo.TypeTimebarReminder)
	s.NoError(err)
	s.Equal(int64(3), n)
}

func TestTodoRepoTestSuite(t *testing.T) {
	suite.Run(t, new(TodoRepoTestSuite))
}

//Personal.AI order the ending
