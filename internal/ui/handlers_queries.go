package ui

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"querypulse/internal/domain"
	"querypulse/internal/queryproc"
)

// queryListState is everything the queries page derives from the URL. The
// page is stateless: filters, sort, and pagination round-trip as query
// parameters, and the processing pipeline re-runs on each request.
type queryListState struct {
	Search  string
	Filters queryproc.FilterState
	Sort    queryproc.SortState
	Page    queryproc.PageState
}

func queryStateFromRequest(r *http.Request) queryListState {
	q := r.URL.Query()

	// The search text is matched literally, whitespace included.
	state := queryListState{
		Search:  q.Get("q"),
		Filters: queryproc.DefaultFilters(),
		Sort:    queryproc.DefaultSort(),
		Page:    queryproc.DefaultPage(),
	}

	switch queryproc.StatusFilter(q.Get("status")) {
	case queryproc.StatusSlow:
		state.Filters.Status = queryproc.StatusSlow
	case queryproc.StatusNormal:
		state.Filters.Status = queryproc.StatusNormal
	}
	if v := q.Get("range"); v != "" {
		state.Filters.TimeRange = queryproc.TimeRange(v)
	}
	if v := q.Get("max_ms"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			if n < 0 {
				n = 0
			}
			if n > queryproc.MaxExecutionTimeMS {
				n = queryproc.MaxExecutionTimeMS
			}
			state.Filters.ExecutionTimeMaxMS = n
		}
	}

	if q.Get("sort") == string(queryproc.SortTimestamp) {
		state.Sort.Field = queryproc.SortTimestamp
	}
	if q.Get("dir") == string(queryproc.SortAsc) {
		state.Sort.Direction = queryproc.SortAsc
	}

	// Page size first: picking a new size resets to page 1, and an explicit
	// page parameter only applies on top of an unchanged size. The filter
	// form omits the page field, so any filter change lands on page 1 too.
	state.Page = state.Page.WithPageSize(formInt(q, "page_size", state.Page.PageSize))
	state.Page = state.Page.WithPage(formInt(q, "page", 1))

	return state
}

// queryValues serializes the state back to URL parameters, for pagination
// and sort links that preserve the rest of the state.
func (s queryListState) queryValues() url.Values {
	v := url.Values{}
	if s.Search != "" {
		v.Set("q", s.Search)
	}
	if s.Filters.Status != queryproc.StatusAll {
		v.Set("status", string(s.Filters.Status))
	}
	if s.Filters.TimeRange != queryproc.RangeDay {
		v.Set("range", string(s.Filters.TimeRange))
	}
	if s.Filters.ExecutionTimeMaxMS != queryproc.MaxExecutionTimeMS {
		v.Set("max_ms", strconv.Itoa(s.Filters.ExecutionTimeMaxMS))
	}
	if s.Sort.Field != queryproc.SortExecutionTime {
		v.Set("sort", string(s.Sort.Field))
	}
	if s.Sort.Direction != queryproc.SortDesc {
		v.Set("dir", string(s.Sort.Direction))
	}
	if s.Page.PageSize != queryproc.DefaultPage().PageSize {
		v.Set("page_size", strconv.Itoa(s.Page.PageSize))
	}
	return v
}

func (s queryListState) pageURL(page int) string {
	v := s.queryValues()
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if enc := v.Encode(); enc != "" {
		return "/queries?" + enc
	}
	return "/queries"
}

// sortURL flips the direction when the column is already active, otherwise
// switches to the column with its natural default direction.
func (s queryListState) sortURL(field queryproc.SortField) string {
	next := s
	next.Page = next.Page.WithPage(1)
	if s.Sort.Field == field {
		if s.Sort.Direction == queryproc.SortDesc {
			next.Sort.Direction = queryproc.SortAsc
		} else {
			next.Sort.Direction = queryproc.SortDesc
		}
	} else {
		next.Sort = queryproc.SortState{Field: field, Direction: queryproc.SortDesc}
	}
	return next.pageURL(1)
}

func (h *Handler) QueriesList(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	state := queryStateFromRequest(r)

	if len(h.Registry.Connections()) == 0 {
		if err := h.Registry.Fetch(r.Context()); err != nil {
			h.renderAPIError(w, r, err)
			return
		}
	}
	db, ok := h.Registry.Selected()
	if !ok {
		renderHTML(w, http.StatusOK, queriesEmptyPage(user))
		return
	}

	records, err := h.API.SlowQueries(r.Context(), db.ID, h.SlowQueryLimit)
	if err != nil {
		h.renderAPIError(w, r, err)
		return
	}

	result := queryproc.Process(records, state.Search, state.Filters, state.Sort, state.Page, time.Now())

	rows := make([]queryRowData, 0, len(result.Items))
	for _, rec := range result.Items {
		rows = append(rows, queryRowData{
			URL:      "/queries/" + url.PathEscape(rec.ID),
			SQL:      truncateSQL(rec.SQLText, 90),
			Duration: formatMS(rec.ExecutionTimeMS),
			Status:   string(rec.Status),
			Tone:     queryStatusTone(rec.Status),
			Seen:     formatTime(rec.Timestamp),
		})
	}

	renderHTML(w, http.StatusOK, queriesListPage(queriesListPageData{
		User:     user,
		Database: db,
		State:    state,
		Result:   result,
		Rows:     rows,
	}))
}

func (h *Handler) QueryDetail(w http.ResponseWriter, r *http.Request) {
	queryID := chi.URLParam(r, "queryID")
	detail, err := h.Recs.Load(r.Context(), queryID)
	if err != nil {
		h.renderAPIError(w, r, err)
		return
	}
	notice := r.URL.Query().Get("notice")
	renderHTML(w, http.StatusOK, queryDetailPage(userFromContext(r), detail, notice, csrfFieldProvider(r)))
}

func (h *Handler) RecommendationApply(w http.ResponseWriter, r *http.Request) {
	h.recommendationAction(w, r, h.Recs.Apply)
}

func (h *Handler) RecommendationDismiss(w http.ResponseWriter, r *http.Request) {
	h.recommendationAction(w, r, h.Recs.Dismiss)
}

// recommendationAction runs an optimistic apply/dismiss. On failure the
// container already rolled the status back; the redirect carries a notice so
// the restored state renders with an explanation.
func (h *Handler) recommendationAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, queryID, recID string) error) {
	queryID := chi.URLParam(r, "queryID")
	recID := chi.URLParam(r, "recID")

	if _, ok := h.Recs.Detail(queryID); !ok {
		if _, err := h.Recs.Load(r.Context(), queryID); err != nil {
			h.renderAPIError(w, r, err)
			return
		}
	}

	target := "/queries/" + url.PathEscape(queryID)
	if err := action(r.Context(), queryID, recID); err != nil {
		target += "?notice=" + url.QueryEscape(errorMessage(err))
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func queryStatusTone(status domain.QueryStatus) string {
	if status == domain.QueryStatusSlow {
		return "danger"
	}
	return "success"
}
