//go:build integration

// Integration tests for the repository layer against a real PostgreSQL
// instance.  Tests require Docker and are gated behind the "integration"
// build tag.
package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/TimebarKeeper/internal/application/scheduling"
	"github.com/turtacn/TimebarKeeper/internal/domain/notice"
	"github.com/turtacn/TimebarKeeper/internal/domain/todo"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/database/postgres"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
)

// startPostgres launches a PostgreSQL 16 container, runs the real schema
// migrations, and returns a connected pool.
func startPostgres(t *testing.T) *postgres.Connection {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "timebar_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	conn, err := postgres.NewConnection(postgres.PostgresConfig{
		Host:     host,
		Port:     port.Int(),
		Database: "timebar_test",
		Username: "test",
		Password: "test",
		SSLMode:  "disable",
	}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.RunMigrations("../../../../../migrations"))
	return conn
}

func insertCase(t *testing.T, conn *postgres.Connection, orgID int64, voyageEnd *time.Time) int64 {
	t.Helper()
	var id int64
	err := conn.DB().QueryRow(
		`INSERT INTO cases (org_id, reference, voyage_end_date) VALUES ($1, $2, $3) RETURNING id`,
		orgID, "MV TEST / V.001", voyageEnd).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestStore_AttachAndReconcile_RoundTrip(t *testing.T) {
	conn := startPostgres(t)
	log := logging.NewNopLogger()
	store := repositories.NewStore(conn, log)
	svc := scheduling.NewService(store, scheduling.NewReconciler(log), nil, nil, nil, log)
	ctx := context.Background()

	nt := &notice.NoticeType{
		OrgID:           7,
		Name:            "Demurrage Claim",
		TimebarDays:     90,
		ReminderOffsets: "30,15,5",
		Active:          true,
	}
	require.NoError(t, store.NoticeTypes().Create(ctx, nt))

	voyageEnd := time.Now().UTC()
	caseID := insertCase(t, conn, 7, &voyageEnd)

	result, err := svc.AttachNoticeToCase(ctx, caseID, 7, nt.ID)
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, 3, result.Scheduled)

	todos, err := svc.ListCaseTodos(ctx, caseID)
	require.NoError(t, err)
	require.Len(t, todos, 3)
	for _, td := range todos {
		assert.Equal(t, todo.TypeTimebarReminder, td.Type)
		assert.Equal(t, todo.StatusOpen, td.Status)
		require.NotNil(t, td.DueDate)
	}

	// Re-running the reconciliation must not duplicate open reminders.
	result, err = svc.RecalculateCase(ctx, caseID, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Scheduled)

	todos, err = svc.ListCaseTodos(ctx, caseID)
	require.NoError(t, err)
	assert.Len(t, todos, 3)
}

func TestStore_GateTodoForMissingVoyageEnd(t *testing.T) {
	conn := startPostgres(t)
	log := logging.NewNopLogger()
	store := repositories.NewStore(conn, log)
	svc := scheduling.NewService(store, scheduling.NewReconciler(log), nil, nil, nil, log)
	ctx := context.Background()

	nt := &notice.NoticeType{OrgID: 7, Name: "Notice of Readiness", TimebarDays: 30, Active: true}
	require.NoError(t, store.NoticeTypes().Create(ctx, nt))

	caseID := insertCase(t, conn, 7, nil)

	result, err := svc.AttachNoticeToCase(ctx, caseID, 7, nt.ID)
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, 0, result.Scheduled)
	assert.NotEmpty(t, result.Reason)

	todos, err := svc.ListCaseTodos(ctx, caseID)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, todo.TypeMissingVoyageEndDate, todos[0].Type)
	assert.Nil(t, todos[0].DueDate)

	// Filling in the voyage end swaps the gate for real reminders.
	voyageEnd := time.Now().UTC()
	require.NoError(t, store.Cases().SetVoyageEndDate(ctx, caseID, &voyageEnd))

	result, err = svc.RecalculateCase(ctx, caseID, 7)
	require.NoError(t, err)
	assert.Greater(t, result.Scheduled, 0)

	todos, err = svc.ListCaseTodos(ctx, caseID)
	require.NoError(t, err)
	for _, td := range todos {
		assert.NotEqual(t, todo.TypeMissingVoyageEndDate, td.Type)
	}
}

func TestStore_DeleteCaseNoticeDismissesReminders(t *testing.T) {
	conn := startPostgres(t)
	log := logging.NewNopLogger()
	store := repositories.NewStore(conn, log)
	svc := scheduling.NewService(store, scheduling.NewReconciler(log), nil, nil, nil, log)
	ctx := context.Background()

	nt := &notice.NoticeType{OrgID: 7, Name: "Demurrage Claim", TimebarDays: 90, ReminderOffsets: "15,5", Active: true}
	require.NoError(t, store.NoticeTypes().Create(ctx, nt))

	voyageEnd := time.Now().UTC()
	caseID := insertCase(t, conn, 7, &voyageEnd)

	_, err := svc.AttachNoticeToCase(ctx, caseID, 7, nt.ID)
	require.NoError(t, err)

	notices, err := svc.ListCaseNotices(ctx, caseID)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, "Demurrage Claim", notices[0].NoticeTypeName)

	result, err := svc.DeleteCaseNotice(ctx, notices[0].ID)
	require.NoError(t, err)
	assert.True(t, result.OK)

	todos, err := svc.ListCaseTodos(ctx, caseID)
	require.NoError(t, err)
	assert.Empty(t, todos)

	// Deleting again is a no-op success.
	result, err = svc.DeleteCaseNotice(ctx, notices[0].ID)
	require.NoError(t, err)
	assert.True(t, result.OK)
}

//Personal.AI order the ending
