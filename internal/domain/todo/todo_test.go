package todo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/TimebarKeeper/pkg/errors"
)

func TestReminderMetaKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TIMEBAR:42:OFFSET:10", ReminderMetaKey(42, 10))
	assert.Equal(t, "TIMEBAR:1:OFFSET:0", ReminderMetaKey(1, 0))
}

func TestReminderTitle(t *testing.T) {
	t.Parallel()

	expiry := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	got := ReminderTitle("NOR", 10, expiry)
	assert.Equal(t, "Send NOR - 10 days before timebar (expires 2025-03-15)", got)
}

func TestNewReminder(t *testing.T) {
	t.Parallel()

	expiry := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	tmpl := int64(9)
	r := NewReminder(100, 42, "NOR", 10, expiry, &tmpl)

	assert.Equal(t, int64(100), r.CaseID)
	assert.Equal(t, TypeTimebarReminder, r.Type)
	assert.Equal(t, StatusOpen, r.Status)
	assert.Equal(t, "TIMEBAR:42:OFFSET:10", r.MetaKey)
	assert.Equal(t, RelatedEntityCaseNotice, r.RelatedEntityType)
	require.NotNil(t, r.RelatedEntityID)
	assert.Equal(t, int64(42), *r.RelatedEntityID)
	require.NotNil(t, r.DueDate)
	assert.Equal(t, time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC), *r.DueDate)
	require.NotNil(t, r.TemplateID)
	assert.Equal(t, int64(9), *r.TemplateID)
}

func TestNewMissingVoyageEndGate(t *testing.T) {
	t.Parallel()

	g := NewMissingVoyageEndGate(100)
	assert.Equal(t, TypeMissingVoyageEndDate, g.Type)
	assert.Equal(t, StatusOpen, g.Status)
	assert.Equal(t, MissingVoyageEndMetaKey, g.MetaKey)
	assert.Nil(t, g.DueDate, "gate todos carry no due date")
}

func TestTodo_DismissAndIsOpen(t *testing.T) {
	t.Parallel()

	g := NewMissingVoyageEndGate(100)
	assert.True(t, g.IsOpen())

	g.Dismiss()
	assert.False(t, g.IsOpen())
	assert.Equal(t, StatusDismissed, g.Status)
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	s, err := ParseStatus("OPEN")
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, s)

	s, err = ParseStatus("DISMISSED")
	require.NoError(t, err)
	assert.Equal(t, StatusDismissed, s)

	_, err = ParseStatus("open")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTodoStatusInvalid))

	_, err = ParseStatus("DONE")
	assert.Error(t, err)
}

//Personal.AI order the ending
