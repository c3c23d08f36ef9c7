package notice

import (
	"sort"
	"strconv"
	"strings"
)

// DefaultReminderOffsets is the last-resort offsets string used when neither
// the notice type nor the organization settings define one.
const DefaultReminderOffsets = "45,30,15,10,5,1"

// ParseOffsets converts a comma-separated offsets string into a normalized
// slice of day offsets.
//
// Normalization rules:
//   - tokens are trimmed of surrounding whitespace
//   - non-numeric tokens are dropped silently
//   - negative offsets are dropped silently
//   - duplicates are collapsed
//   - the result is sorted in descending order
//
// "5,1,5,-2,x,30" therefore parses to [30, 5, 1].  An empty or entirely
// invalid input yields an empty slice, never an error: a bad offsets string
// must not block reconciliation.
func ParseOffsets(raw string) []int {
	offsets := make([]int, 0)
	seen := make(map[int]bool)

	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		n, err := strconv.Atoi(token)
		if err != nil || n < 0 {
			continue
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		offsets = append(offsets, n)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(offsets)))
	return offsets
}

// ResolveOffsetsText picks the effective offsets string for a case notice
// using the three-level fallback chain: the notice type's own offsets, then
// the organization default, then DefaultReminderOffsets.  The chosen string
// is what gets snapshotted onto the CaseNotice at attach time.
//
// A level is skipped only when its string is empty; a non-empty string that
// parses to zero usable offsets still wins the fallback (the author chose it,
// even if badly).
func ResolveOffsetsText(noticeTypeOffsets, orgDefaultOffsets string) string {
	if noticeTypeOffsets != "" {
		return noticeTypeOffsets
	}
	if orgDefaultOffsets != "" {
		return orgDefaultOffsets
	}
	return DefaultReminderOffsets
}

// ResolveOffsets is the parsed form of ResolveOffsetsText.
func ResolveOffsets(noticeTypeOffsets, orgDefaultOffsets string) []int {
	return ParseOffsets(ResolveOffsetsText(noticeTypeOffsets, orgDefaultOffsets))
}

//Personal.AI order the ending
