package queryproc

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"querypulse/internal/domain"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func rec(id, sql string, ms float64, status domain.QueryStatus, age time.Duration) domain.QueryRecord {
	return domain.QueryRecord{
		ID:              id,
		SQLText:         sql,
		ExecutionTimeMS: ms,
		Status:          status,
		Timestamp:       testNow.Add(-age),
	}
}

func TestProcessEmptyInput(t *testing.T) {
	res := Process(nil, "", DefaultFilters(), DefaultSort(), DefaultPage(), testNow)

	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.TotalFilteredCount)
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, 1, res.Page)
}

func TestProcessSearchIsCaseInsensitiveSubstring(t *testing.T) {
	records := []domain.QueryRecord{
		rec("a", "SELECT * FROM orders", 10, domain.QueryStatusNormal, time.Minute),
		rec("b", "select id from users", 20, domain.QueryStatusNormal, time.Minute),
		rec("c", "UPDATE inventory SET qty = 0", 30, domain.QueryStatusNormal, time.Minute),
	}

	res := Process(records, "FROM", DefaultFilters(), DefaultSort(), DefaultPage(), testNow)

	require.Len(t, res.Items, 2)
	for _, item := range res.Items {
		assert.Contains(t, []string{"a", "b"}, item.ID)
	}
}

func TestProcessSearchNotTrimmed(t *testing.T) {
	records := []domain.QueryRecord{
		rec("a", "SELECT * FROM orders", 10, domain.QueryStatusNormal, time.Minute),
	}

	// A whitespace-only search is matched literally against the text.
	res := Process(records, "   ", DefaultFilters(), DefaultSort(), DefaultPage(), testNow)
	assert.Empty(t, res.Items)

	res = Process(records, " FROM ", DefaultFilters(), DefaultSort(), DefaultPage(), testNow)
	assert.Len(t, res.Items, 1)
}

func TestProcessStatusFilter(t *testing.T) {
	records := []domain.QueryRecord{
		rec("slow1", "q1", 500, domain.QueryStatusSlow, time.Minute),
		rec("norm1", "q2", 5, domain.QueryStatusNormal, time.Minute),
		rec("slow2", "q3", 900, domain.QueryStatusSlow, time.Minute),
	}

	filters := DefaultFilters()
	filters.Status = StatusSlow
	res := Process(records, "", filters, DefaultSort(), DefaultPage(), testNow)
	require.Equal(t, 2, res.TotalFilteredCount)
	for _, item := range res.Items {
		assert.Equal(t, domain.QueryStatusSlow, item.Status)
	}

	filters.Status = StatusNormal
	res = Process(records, "", filters, DefaultSort(), DefaultPage(), testNow)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "norm1", res.Items[0].ID)
}

func TestProcessTimeRangeFilter(t *testing.T) {
	records := []domain.QueryRecord{
		rec("fresh", "q", 10, domain.QueryStatusNormal, 30*time.Minute),
		rec("old", "q", 10, domain.QueryStatusNormal, 2*time.Hour),
		rec("ancient", "q", 10, domain.QueryStatusNormal, 40*24*time.Hour),
	}

	filters := DefaultFilters()
	filters.TimeRange = RangeHour
	res := Process(records, "", filters, DefaultSort(), DefaultPage(), testNow)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "fresh", res.Items[0].ID)

	filters.TimeRange = RangeMonth
	res = Process(records, "", filters, DefaultSort(), DefaultPage(), testNow)
	assert.Equal(t, 2, res.TotalFilteredCount)
}

func TestProcessUnknownTimeRangeFallsBackTo24h(t *testing.T) {
	records := []domain.QueryRecord{
		rec("in24h", "q", 10, domain.QueryStatusNormal, 12*time.Hour),
		rec("beyond", "q", 10, domain.QueryStatusNormal, 48*time.Hour),
	}

	filters := DefaultFilters()
	filters.TimeRange = TimeRange("2w")
	res := Process(records, "", filters, DefaultSort(), DefaultPage(), testNow)

	require.Len(t, res.Items, 1)
	assert.Equal(t, "in24h", res.Items[0].ID)
}

func TestProcessExecutionTimeFilter(t *testing.T) {
	records := []domain.QueryRecord{
		rec("fast", "q", 120, domain.QueryStatusSlow, time.Minute),
		rec("slow", "q", 5000, domain.QueryStatusSlow, 2*time.Hour),
	}

	filters := DefaultFilters()
	filters.Status = StatusSlow
	res := Process(records, "", filters, DefaultSort(), DefaultPage(), testNow)
	require.Len(t, res.Items, 2)
	// Descending execution time puts the 5000ms record first.
	assert.Equal(t, "slow", res.Items[0].ID)
	assert.Equal(t, "fast", res.Items[1].ID)

	filters.ExecutionTimeMaxMS = 1000
	res = Process(records, "", filters, DefaultSort(), DefaultPage(), testNow)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "fast", res.Items[0].ID)
	assert.Equal(t, 1, res.TotalFilteredCount)
}

func TestProcessSortStability(t *testing.T) {
	// All records share one execution time; fetched order must survive both
	// directions.
	var records []domain.QueryRecord
	for i := 0; i < 8; i++ {
		records = append(records, rec(fmt.Sprintf("r%d", i), "q", 100, domain.QueryStatusNormal, time.Minute))
	}

	for _, dir := range []SortDirection{SortAsc, SortDesc} {
		res := Process(records, "", DefaultFilters(), SortState{Field: SortExecutionTime, Direction: dir}, DefaultPage(), testNow)
		require.Len(t, res.Items, 8)
		for i, item := range res.Items {
			assert.Equal(t, fmt.Sprintf("r%d", i), item.ID, "direction %s", dir)
		}
	}
}

func TestProcessSortByTimestamp(t *testing.T) {
	records := []domain.QueryRecord{
		rec("mid", "q", 10, domain.QueryStatusNormal, 2*time.Hour),
		rec("new", "q", 20, domain.QueryStatusNormal, time.Minute),
		rec("old", "q", 30, domain.QueryStatusNormal, 20*time.Hour),
	}

	res := Process(records, "", DefaultFilters(), SortState{Field: SortTimestamp, Direction: SortAsc}, DefaultPage(), testNow)
	require.Len(t, res.Items, 3)
	assert.Equal(t, []string{"old", "mid", "new"}, []string{res.Items[0].ID, res.Items[1].ID, res.Items[2].ID})

	res = Process(records, "", DefaultFilters(), SortState{Field: SortTimestamp, Direction: SortDesc}, DefaultPage(), testNow)
	assert.Equal(t, "new", res.Items[0].ID)
}

func TestProcessPaginationIsExhaustiveAndNonOverlapping(t *testing.T) {
	var records []domain.QueryRecord
	for i := 0; i < 57; i++ {
		records = append(records, rec(fmt.Sprintf("r%02d", i), "q", float64(i), domain.QueryStatusNormal, time.Minute))
	}

	page := DefaultPage().WithPageSize(10)
	first := Process(records, "", DefaultFilters(), SortState{Field: SortExecutionTime, Direction: SortAsc}, page, testNow)
	require.Equal(t, 57, first.TotalFilteredCount)
	require.Equal(t, 6, first.TotalPages)

	seen := map[string]bool{}
	for p := 1; p <= first.TotalPages; p++ {
		res := Process(records, "", DefaultFilters(), SortState{Field: SortExecutionTime, Direction: SortAsc}, page.WithPage(p), testNow)
		assert.LessOrEqual(t, len(res.Items), 10)
		for _, item := range res.Items {
			require.False(t, seen[item.ID], "duplicate %s on page %d", item.ID, p)
			seen[item.ID] = true
		}
	}
	assert.Len(t, seen, 57)
}

func TestProcessPageClampedToBounds(t *testing.T) {
	var records []domain.QueryRecord
	for i := 0; i < 30; i++ {
		records = append(records, rec(fmt.Sprintf("r%d", i), "q", float64(i), domain.QueryStatusNormal, time.Minute))
	}

	page := PageState{CurrentPage: 99, PageSize: 25}
	res := Process(records, "", DefaultFilters(), DefaultSort(), page, testNow)
	assert.Equal(t, 2, res.Page)
	assert.Len(t, res.Items, 5)

	page = PageState{CurrentPage: -3, PageSize: 25}
	res = Process(records, "", DefaultFilters(), DefaultSort(), page, testNow)
	assert.Equal(t, 1, res.Page)
	assert.Len(t, res.Items, 25)
}

func TestPageSizeChangeResetsCurrentPage(t *testing.T) {
	page := PageState{CurrentPage: 4, PageSize: 25}

	page = page.WithPageSize(50)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 50, page.PageSize)

	// Unsupported sizes leave the state alone.
	page = page.WithPage(3).WithPageSize(33)
	assert.Equal(t, 3, page.CurrentPage)
	assert.Equal(t, 50, page.PageSize)
}

func TestProcessExcludesMalformedRecords(t *testing.T) {
	records := []domain.QueryRecord{
		rec("ok", "q", 10, domain.QueryStatusNormal, time.Minute),
		{ID: "no-ts", SQLText: "q", ExecutionTimeMS: 10, Status: domain.QueryStatusNormal},
		rec("neg", "q", -5, domain.QueryStatusNormal, time.Minute),
		rec("nan", "q", math.NaN(), domain.QueryStatusNormal, time.Minute),
	}

	res := Process(records, "", DefaultFilters(), DefaultSort(), DefaultPage(), testNow)

	require.Len(t, res.Items, 1)
	assert.Equal(t, "ok", res.Items[0].ID)
}

func TestProcessIsPure(t *testing.T) {
	records := []domain.QueryRecord{
		rec("b", "q", 200, domain.QueryStatusSlow, time.Minute),
		rec("a", "q", 100, domain.QueryStatusNormal, time.Minute),
	}

	res1 := Process(records, "", DefaultFilters(), DefaultSort(), DefaultPage(), testNow)
	res2 := Process(records, "", DefaultFilters(), DefaultSort(), DefaultPage(), testNow)
	assert.Equal(t, res1, res2)

	// Input order is untouched.
	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, "a", records[1].ID)
}

func TestTimeRangeCutoffTable(t *testing.T) {
	cases := map[TimeRange]time.Duration{
		RangeHour:       time.Hour,
		Range6H:         6 * time.Hour,
		RangeDay:        24 * time.Hour,
		RangeWeek:       168 * time.Hour,
		RangeMonth:      720 * time.Hour,
		TimeRange("xx"): 24 * time.Hour,
	}
	for r, want := range cases {
		assert.Equal(t, want, r.Cutoff(), "range %s", r)
	}
}
