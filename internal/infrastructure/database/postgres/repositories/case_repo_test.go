package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/turtacn/TimebarKeeper/internal/domain/notice"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/database/postgres"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TimebarKeeper/pkg/errors"
)

type CaseRepoTestSuite struct {
	suite.Suite
	mock        sqlmock.Sqlmock
	db          *sql.DB
	cases       notice.CaseRepository
	caseNotices notice.CaseNoticeRepository
}

func (s *CaseRepoTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	s.NoError(err)

	log := logging.NewNopLogger()
	conn := postgres.NewConnectionWithDB(s.db, log)
	s.cases = NewPostgresCaseRepo(conn, log)
	s.caseNotices = NewPostgresCaseNoticeRepo(conn, log)
}

func (s *CaseRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

func (s *CaseRepoTestSuite) TestGetByID_NullVoyageEndScansToNil() {
	now := time.Now()
	s.mock.ExpectQuery(`SELECT .* FROM cases WHERE id = \$1`).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "org_id", "reference", "voyage_end_date", "created_at", "updated_at",
		}).AddRow(int64(100), int64(1), "VOY-2025-17", nil, now, now))

	c, err := s.cases.GetByID(context.Background(), 100)
	s.NoError(err)
	s.Nil(c.VoyageEndDate)
	s.False(c.HasVoyageEndDate())
}

func (s *CaseRepoTestSuite) TestGetByID_NotFound() {
	s.mock.ExpectQuery(`SELECT .* FROM cases WHERE id = \$1`).
		WithArgs(int64(999)).
		WillReturnError(sql.ErrNoRows)

	_, err := s.cases.GetByID(context.Background(), 999)
	s.Error(err)
	s.True(errors.IsCode(err, errors.ErrCodeCaseNotFound))
}

func (s *CaseRepoTestSuite) TestSetVoyageEndDate_MissingCase() {
	end := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	s.mock.ExpectExec(`UPDATE cases SET voyage_end_date = \$2`).
		WithArgs(int64(999), end).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.cases.SetVoyageEndDate(context.Background(), 999, &end)
	s.Error(err)
	s.True(errors.IsCode(err, errors.ErrCodeCaseNotFound))
}

func (s *CaseRepoTestSuite) TestCreateCaseNotice_DuplicateAttachment() {
	s.mock.ExpectQuery(`INSERT INTO case_notices`).
		WillReturnError(&pq.Error{Code: "23505"})

	cn := &notice.CaseNotice{CaseID: 100, NoticeTypeID: 7, TimebarDaysSnapshot: 14, ReminderOffsetsSnapshot: "10,5,1", Enabled: true}
	err := s.caseNotices.Create(context.Background(), cn)
	s.Error(err)
	s.True(errors.IsCode(err, errors.ErrCodeConflict))
}

func (s *CaseRepoTestSuite) TestListByCaseWithType_JoinsCatalogName() {
	now := time.Now()
	expiry := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	s.mock.ExpectQuery(`(?s)FROM case_notices cn\s+JOIN notice_types nt.*ORDER BY nt\.name ASC`).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "case_id", "notice_type_id", "timebar_days_snapshot",
			"reminder_offsets_snapshot", "enabled", "expiry_date",
			"created_at", "updated_at", "name", "template_id",
		}).AddRow(int64(42), int64(100), int64(7), 14, "10,5,1", true, expiry, now, now, "NOR", int64(3)))

	notices, err := s.caseNotices.ListByCaseWithType(context.Background(), 100)
	s.NoError(err)
	s.Len(notices, 1)
	s.Equal("NOR", notices[0].NoticeTypeName)
	s.NotNil(notices[0].TemplateID)
	s.Equal(int64(3), *notices[0].TemplateID)
	s.True(notices[0].ExpiryDate.Equal(expiry))
}

func (s *CaseRepoTestSuite) TestClearExpiryByCase() {
	s.mock.ExpectExec(`SET expiry_date = NULL`).
		WithArgs(int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	s.NoError(s.caseNotices.ClearExpiryByCase(context.Background(), 100))
}

func (s *CaseRepoTestSuite) TestDelete_MissingRowIsNoError() {
	s.mock.ExpectExec(`DELETE FROM case_notices WHERE id = \$1`).
		WithArgs(int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s.NoError(s.caseNotices.Delete(context.Background(), 999))
}

func TestCaseRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CaseRepoTestSuite))
}

//Personal.AI order the ending
