// Package queryproc derives the displayable slice of a query list from the
// full in-memory set plus the active search, filter, sort, and page state.
// Both the console pages and the CLI run fetched records through Process so
// the two frontends agree on what "the filtered list" means.
package queryproc

import (
	"sort"
	"strings"
	"time"

	"querypulse/internal/domain"
)

// StatusFilter narrows the list by query status.
type StatusFilter string

const (
	StatusAll    StatusFilter = "all"
	StatusSlow   StatusFilter = "slow"
	StatusNormal StatusFilter = "normal"
)

// TimeRange selects how far back records are kept.
type TimeRange string

const (
	RangeHour  TimeRange = "1h"
	Range6H    TimeRange = "6h"
	RangeDay   TimeRange = "24h"
	RangeWeek  TimeRange = "7d"
	RangeMonth TimeRange = "30d"
)

// rangeCutoffs is the fixed lookup table for time-range filtering. Unknown
// values fall back to the 24h cutoff rather than erroring.
var rangeCutoffs = map[TimeRange]time.Duration{
	RangeHour:  time.Hour,
	Range6H:    6 * time.Hour,
	RangeDay:   24 * time.Hour,
	RangeWeek:  7 * 24 * time.Hour,
	RangeMonth: 30 * 24 * time.Hour,
}

// Cutoff returns the inclusive lookback duration for the range.
func (r TimeRange) Cutoff() time.Duration {
	if d, ok := rangeCutoffs[r]; ok {
		return d
	}
	return rangeCutoffs[RangeDay]
}

// MaxExecutionTimeMS is the upper bound of the latency filter. The default
// filter keeps everything at or below it.
const MaxExecutionTimeMS = 10000

// FilterState is the multi-dimensional filter applied before sorting.
type FilterState struct {
	Status             StatusFilter
	TimeRange          TimeRange
	ExecutionTimeMaxMS int
}

// DefaultFilters returns {all, 24h, 10000}.
func DefaultFilters() FilterState {
	return FilterState{
		Status:             StatusAll,
		TimeRange:          RangeDay,
		ExecutionTimeMaxMS: MaxExecutionTimeMS,
	}
}

// SortField selects the comparison key.
type SortField string

const (
	SortExecutionTime SortField = "execution_time"
	SortTimestamp     SortField = "timestamp"
)

// SortDirection flips the comparator.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortState is the active ordering.
type SortState struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSort returns (execution_time, desc).
func DefaultSort() SortState {
	return SortState{Field: SortExecutionTime, Direction: SortDesc}
}

// PageSizes are the only page sizes the UI offers.
var PageSizes = []int{10, 25, 50, 100}

// PageState is the active pagination window.
type PageState struct {
	CurrentPage int
	PageSize    int
}

// DefaultPage returns (1, 25).
func DefaultPage() PageState {
	return PageState{CurrentPage: 1, PageSize: 25}
}

// WithPage moves to page n, flooring at 1. Clamping against the upper bound
// happens in Process, where the filtered count is known.
func (p PageState) WithPage(n int) PageState {
	if n < 1 {
		n = 1
	}
	p.CurrentPage = n
	return p
}

// WithPageSize changes the page size and resets to page 1. Sizes outside
// PageSizes keep the previous size.
func (p PageState) WithPageSize(size int) PageState {
	for _, allowed := range PageSizes {
		if size == allowed {
			p.PageSize = size
			p.CurrentPage = 1
			return p
		}
	}
	return p
}

// Result is the processed window plus the totals pagination controls need.
type Result struct {
	Items              []domain.QueryRecord
	TotalFilteredCount int
	TotalPages         int
	// Page is the effective page after clamping to [1, TotalPages].
	Page     int
	PageSize int
}

// Process applies search, filters, sort, and pagination in that order.
// It is pure: records are never mutated, now is an explicit input, and
// identical inputs yield identical output.
//
// Malformed records (zero timestamp, negative or NaN execution time) are
// excluded rather than surfaced; they indicate upstream ingestion trouble,
// not caller error.
func Process(records []domain.QueryRecord, searchText string, filters FilterState, sortState SortState, page PageState, now time.Time) Result {
	needle := strings.ToLower(searchText)
	cutoff := filters.TimeRange.Cutoff()

	filtered := make([]domain.QueryRecord, 0, len(records))
	for _, rec := range records {
		if !rec.Valid() {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(rec.SQLText), needle) {
			continue
		}
		if filters.Status != StatusAll && !strings.EqualFold(string(rec.Status), string(filters.Status)) {
			continue
		}
		if now.Sub(rec.Timestamp) > cutoff {
			continue
		}
		if rec.ExecutionTimeMS > float64(filters.ExecutionTimeMaxMS) {
			continue
		}
		filtered = append(filtered, rec)
	}

	sortRecords(filtered, sortState)

	size := page.PageSize
	if size <= 0 {
		size = DefaultPage().PageSize
	}
	totalPages := (len(filtered) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	current := page.CurrentPage
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	start := (current - 1) * size
	end := start + size
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return Result{
		Items:              filtered[start:end],
		TotalFilteredCount: len(filtered),
		TotalPages:         totalPages,
		Page:               current,
		PageSize:           size,
	}
}

// sortRecords orders in place. Stability is load-bearing: records with equal
// keys must keep their fetched order, so ties never reshuffle across renders.
func sortRecords(records []domain.QueryRecord, s SortState) {
	desc := s.Direction == SortDesc
	sort.SliceStable(records, func(i, j int) bool {
		var less bool
		switch s.Field {
		case SortTimestamp:
			if records[i].Timestamp.Equal(records[j].Timestamp) {
				return false
			}
			less = records[i].Timestamp.Before(records[j].Timestamp)
		default:
			if records[i].ExecutionTimeMS == records[j].ExecutionTimeMS {
				return false
			}
			less = records[i].ExecutionTimeMS < records[j].ExecutionTimeMS
		}
		if desc {
			return !less
		}
		return less
	})
}
