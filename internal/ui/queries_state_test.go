package ui

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"querypulse/internal/queryproc"
)

func stateFor(t *testing.T, target string) queryListState {
	t.Helper()
	return queryStateFromRequest(httptest.NewRequest("GET", target, nil))
}

func TestQueryStateDefaults(t *testing.T) {
	state := stateFor(t, "/queries")

	assert.Equal(t, "", state.Search)
	assert.Equal(t, queryproc.DefaultFilters(), state.Filters)
	assert.Equal(t, queryproc.DefaultSort(), state.Sort)
	assert.Equal(t, queryproc.DefaultPage(), state.Page)
}

func TestQueryStateParsesEverything(t *testing.T) {
	state := stateFor(t, "/queries?q=+users+&status=slow&range=7d&max_ms=500&sort=timestamp&dir=asc&page_size=50&page=3")

	assert.Equal(t, " users ", state.Search, "search text is not trimmed")
	assert.Equal(t, queryproc.StatusSlow, state.Filters.Status)
	assert.Equal(t, queryproc.RangeWeek, state.Filters.TimeRange)
	assert.Equal(t, 500, state.Filters.ExecutionTimeMaxMS)
	assert.Equal(t, queryproc.SortTimestamp, state.Sort.Field)
	assert.Equal(t, queryproc.SortAsc, state.Sort.Direction)
	assert.Equal(t, 50, state.Page.PageSize)
	assert.Equal(t, 3, state.Page.CurrentPage)
}

func TestQueryStateClampsMaxMS(t *testing.T) {
	assert.Equal(t, queryproc.MaxExecutionTimeMS, stateFor(t, "/queries?max_ms=99999").Filters.ExecutionTimeMaxMS)
	assert.Equal(t, 0, stateFor(t, "/queries?max_ms=-5").Filters.ExecutionTimeMaxMS)
	assert.Equal(t, queryproc.MaxExecutionTimeMS, stateFor(t, "/queries?max_ms=abc").Filters.ExecutionTimeMaxMS)
}

func TestQueryStateIgnoresBogusValues(t *testing.T) {
	state := stateFor(t, "/queries?status=weird&sort=name&dir=sideways&page_size=33&page=0")

	assert.Equal(t, queryproc.StatusAll, state.Filters.Status)
	assert.Equal(t, queryproc.SortExecutionTime, state.Sort.Field)
	assert.Equal(t, queryproc.SortDesc, state.Sort.Direction)
	assert.Equal(t, queryproc.DefaultPage().PageSize, state.Page.PageSize, "unknown page size keeps default")
	assert.Equal(t, 1, state.Page.CurrentPage)
}

func TestPageURLRoundTripsState(t *testing.T) {
	state := stateFor(t, "/queries?q=select&status=slow&page_size=10")

	url := state.pageURL(2)
	reparsed := stateFor(t, url)

	assert.Equal(t, state.Search, reparsed.Search)
	assert.Equal(t, state.Filters, reparsed.Filters)
	assert.Equal(t, state.Sort, reparsed.Sort)
	assert.Equal(t, 2, reparsed.Page.CurrentPage)
	assert.Equal(t, 10, reparsed.Page.PageSize)
}

func TestPageURLOmitsDefaults(t *testing.T) {
	assert.Equal(t, "/queries", stateFor(t, "/queries").pageURL(1))
}

func TestSortURLTogglesDirection(t *testing.T) {
	state := stateFor(t, "/queries")

	// Default is execution_time desc; same column flips to asc.
	flipped := stateFor(t, state.sortURL(queryproc.SortExecutionTime))
	assert.Equal(t, queryproc.SortExecutionTime, flipped.Sort.Field)
	assert.Equal(t, queryproc.SortAsc, flipped.Sort.Direction)

	// Switching column starts over at desc.
	switched := stateFor(t, state.sortURL(queryproc.SortTimestamp))
	assert.Equal(t, queryproc.SortTimestamp, switched.Sort.Field)
	assert.Equal(t, queryproc.SortDesc, switched.Sort.Direction)
}

func TestSortURLResetsPage(t *testing.T) {
	state := stateFor(t, "/queries?page=4&page_size=10")
	reparsed := stateFor(t, state.sortURL(queryproc.SortTimestamp))
	assert.Equal(t, 1, reparsed.Page.CurrentPage)
	assert.Equal(t, 10, reparsed.Page.PageSize, "page size survives a sort change")
}
