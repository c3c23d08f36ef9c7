package notice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOffsets(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		raw      string
		expected []int
	}{
		{"happy path", "10,5,1", []int{10, 5, 1}},
		{"unsorted input is sorted descending", "1,30,5", []int{30, 5, 1}},
		{"duplicates negatives and junk dropped", "5,1,5,-2,x,30", []int{30, 5, 1}},
		{"whitespace tolerated", " 15 , 10 ,  5 ", []int{15, 10, 5}},
		{"empty string", "", []int{}},
		{"only junk", "a,b,-1", []int{}},
		{"zero is a valid offset", "0,5", []int{5, 0}},
		{"trailing commas", "30,15,", []int{30, 15}},
		{"single value", "45", []int{45}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, ParseOffsets(tc.raw))
		})
	}
}

func TestResolveOffsetsText_FallbackChain(t *testing.T) {
	t.Parallel()

	// Notice type offsets win when present.
	assert.Equal(t, "10,5,1", ResolveOffsetsText("10,5,1", "30,15"))

	// Org default applies when the notice type has none.
	assert.Equal(t, "30,15", ResolveOffsetsText("", "30,15"))

	// Built-in default applies when both are empty.
	assert.Equal(t, DefaultReminderOffsets, ResolveOffsetsText("", ""))
}

func TestResolveOffsets_FallbackChain(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{10, 5, 1}, ResolveOffsets("10,5,1", "30,15"))
	assert.Equal(t, []int{30, 15}, ResolveOffsets("", "30,15"))
	assert.Equal(t, []int{45, 30, 15, 10, 5, 1}, ResolveOffsets("", ""))
}

func TestResolveOffsets_BadStringDoesNotFallThrough(t *testing.T) {
	t.Parallel()

	// A non-empty but unusable offsets string still wins the fallback; it
	// simply yields no reminders.
	assert.Empty(t, ResolveOffsets("x,y", "30,15"))
}

//Personal.AI order the ending
