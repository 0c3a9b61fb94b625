// Package format renders domain values for display in the dashboard tables.
package format

import (
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/robby/ghtriage/internal/domain"
)

// DateLayout renders dates as MM/dd/yy.
const DateLayout = "01/02/06"

// ScoreBreakdown renders one "{value} - {factor}" line per factor, highest
// contribution first. Factors with equal values appear in reverse of their
// original order.
func ScoreBreakdown(b domain.ScoreBreakdown) string {
	sorted := make([]domain.Factor, len(b))
	copy(sorted, b)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value < sorted[j].Value
	})
	slices.Reverse(sorted)

	lines := make([]string, 0, len(sorted))
	for _, f := range sorted {
		lines = append(lines, Value(f.Value)+" - "+f.Name)
	}
	return strings.Join(lines, "\n")
}

// Value renders a number in its shortest decimal form, without rounding.
func Value(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Count renders an integer with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// Number rounds to an integer and renders it with thousands separators.
func Number(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

// Date renders a timestamp as MM/dd/yy, or an empty string when unset.
func Date(ts domain.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(DateLayout)
}

// Title prefixes pull request titles with "PR: ".
func Title(issue domain.Issue) string {
	if issue.PullRequest {
		return "PR: " + issue.Title
	}
	return issue.Title
}
