package ui

import (
	"fmt"
	"strconv"
	"strings"

	"querypulse/internal/domain"
	"querypulse/internal/queryproc"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type queryRowData struct {
	URL      string
	SQL      string
	Duration string
	Status   string
	Tone     string
	Seen     string
}

type queriesListPageData struct {
	User     domain.User
	Database domain.Connection
	State    queryListState
	Result   queryproc.Result
	Rows     []queryRowData
}

func queriesEmptyPage(user domain.User) Node {
	return appPage("Queries", "queries", user,
		emptyStateCard("Connect a database to start capturing query activity.", "Add a database", "/databases/new"),
	)
}

func queriesListPage(d queriesListPageData) Node {
	return appPage("Queries", "queries", d.User,
		P(Class(mutedClass()), Text("Monitoring "+d.Database.Name)),
		queryFilterForm(d.State),
		queriesTableCard(d),
		paginationBar(d.State, d.Result),
	)
}

// queryFilterForm submits via GET so the filter state lives in the URL. The
// form deliberately has no page field: changing any filter or the page size
// lands back on page 1.
func queryFilterForm(s queryListState) Node {
	return Form(
		Method("get"),
		Action("/queries"),
		Class(cardClass("toolbar")),
		Div(
			Class("toolbar-row"),
			Label(Class("sr-only"), Text("Search queries")),
			Input(
				Type("search"),
				Name("q"),
				Class("form-control"),
				Placeholder("Search SQL text"),
				Value(s.Search),
				AutoComplete("off"),
			),
			Select(
				Name("status"),
				Class("form-control"),
				optionSelected(string(queryproc.StatusAll), "All statuses", string(s.Filters.Status)),
				optionSelected(string(queryproc.StatusSlow), "Slow only", string(s.Filters.Status)),
				optionSelected(string(queryproc.StatusNormal), "Normal only", string(s.Filters.Status)),
			),
			Select(
				Name("range"),
				Class("form-control"),
				optionSelected(string(queryproc.RangeHour), "Last hour", string(s.Filters.TimeRange)),
				optionSelected(string(queryproc.Range6H), "Last 6 hours", string(s.Filters.TimeRange)),
				optionSelected(string(queryproc.RangeDay), "Last 24 hours", string(s.Filters.TimeRange)),
				optionSelected(string(queryproc.RangeWeek), "Last 7 days", string(s.Filters.TimeRange)),
				optionSelected(string(queryproc.RangeMonth), "Last 30 days", string(s.Filters.TimeRange)),
			),
			Label(Class(mutedClass()), Text("Max ms")),
			Input(
				Type("number"),
				Name("max_ms"),
				Class("form-control form-control-narrow"),
				Min("0"),
				Max(strconv.Itoa(queryproc.MaxExecutionTimeMS)),
				Value(strconv.Itoa(s.Filters.ExecutionTimeMaxMS)),
			),
			pageSizeSelect(s.Page.PageSize),
			sortCarryFields(s),
			Button(Type("submit"), Class(primaryButtonClass()), Text("Apply")),
		),
	)
}

func pageSizeSelect(current int) Node {
	options := make([]Node, 0, len(queryproc.PageSizes))
	for _, size := range queryproc.PageSizes {
		options = append(options, optionSelected(strconv.Itoa(size), fmt.Sprintf("%d per page", size), strconv.Itoa(current)))
	}
	return Select(Name("page_size"), Class("form-control"), Group(options))
}

// sortCarryFields keeps the active sort across filter submissions.
func sortCarryFields(s queryListState) Node {
	return Group([]Node{
		Input(Type("hidden"), Name("sort"), Value(string(s.Sort.Field))),
		Input(Type("hidden"), Name("dir"), Value(string(s.Sort.Direction))),
	})
}

func queriesTableCard(d queriesListPageData) Node {
	if len(d.Rows) == 0 {
		return emptyStateCard("No queries match the current filters.", "", "")
	}

	rows := make([]Node, 0, len(d.Rows))
	for _, row := range d.Rows {
		rows = append(rows, Tr(
			Td(A(Href(row.URL), Code(Text(row.SQL)))),
			Td(Text(row.Duration)),
			Td(statusLabel(row.Status, row.Tone)),
			Td(Class("muted"), Text(row.Seen)),
		))
	}

	return Div(
		Class(cardClass()),
		P(Class(mutedClass()), Text(fmt.Sprintf("%d queries match", d.Result.TotalFilteredCount))),
		Table(
			THead(Tr(
				Th(Text("Query")),
				Th(sortHeader(d.State, queryproc.SortExecutionTime, "Duration")),
				Th(Text("Status")),
				Th(sortHeader(d.State, queryproc.SortTimestamp, "Captured")),
			)),
			TBody(Group(rows)),
		),
	)
}

func sortHeader(s queryListState, field queryproc.SortField, label string) Node {
	if s.Sort.Field == field {
		marker := " ↓"
		if s.Sort.Direction == queryproc.SortAsc {
			marker = " ↑"
		}
		return A(Href(s.sortURL(field)), Class("sort-link active"), Text(label+marker))
	}
	return A(Href(s.sortURL(field)), Class("sort-link"), Text(label))
}

func paginationBar(s queryListState, result queryproc.Result) Node {
	if result.TotalPages <= 1 {
		return nil
	}

	prev := Node(Span(Class("muted"), Text("Previous")))
	if result.Page > 1 {
		prev = A(Href(s.pageURL(result.Page-1)), Class(secondaryButtonClass()), Text("Previous"))
	}
	next := Node(Span(Class("muted"), Text("Next")))
	if result.Page < result.TotalPages {
		next = A(Href(s.pageURL(result.Page+1)), Class(secondaryButtonClass()), Text("Next"))
	}

	return Div(
		Class(cardClass("toolbar")),
		Div(
			Class("toolbar-row"),
			prev,
			Span(Class(mutedClass()), Text(fmt.Sprintf("Page %d of %d", result.Page, result.TotalPages))),
			next,
		),
	)
}

func queryDetailPage(user domain.User, detail domain.QueryDetail, notice string, csrfFieldFunc func() Node) Node {
	body := []Node{
		noticeCard(notice),
		P(A(Href("/queries"), Text("← Back to queries"))),
		Div(
			Class(cardClass()),
			H2(Text("SQL")),
			Pre(Code(Text(detail.SQLText))),
			Div(
				Class("stat-row"),
				statCell("Status", string(detail.Status)),
				statCell("Last execution", formatMS(detail.ExecutionTimeMS)),
				statCell("Executions", strconv.Itoa(detail.ExecutionCount)),
				statCell("Average", formatMS(detail.AvgTimeMS)),
				statCell("p95", formatMS(detail.P95TimeMS)),
				statCell("Captured", formatTime(detail.Timestamp)),
			),
		),
		recommendationsCard(detail, csrfFieldFunc),
	}
	return appPage("Query Detail", "queries", user, body...)
}

func statCell(label, value string) Node {
	return Div(
		Class("stat"),
		P(Class(mutedClass()), Text(label)),
		Strong(Text(value)),
	)
}

func recommendationsCard(detail domain.QueryDetail, csrfFieldFunc func() Node) Node {
	if len(detail.Recommendations) == 0 {
		return emptyStateCard("No recommendations for this query yet.", "", "")
	}

	cards := make([]Node, 0, len(detail.Recommendations))
	for _, rec := range detail.Recommendations {
		cards = append(cards, recommendationCard(detail.ID, rec, csrfFieldFunc))
	}
	return Div(
		H2(Text("Recommendations")),
		Group(cards),
	)
}

func recommendationCard(queryID string, rec domain.Recommendation, csrfFieldFunc func() Node) Node {
	actions := Node(nil)
	if rec.Status == domain.RecommendationPending {
		base := "/queries/" + queryID + "/recommendations/" + rec.ID
		actions = Div(
			Class("toolbar-row"),
			Form(
				Method("post"),
				Action(base+"/apply"),
				csrfFieldFunc(),
				Button(Type("submit"), Class(primaryButtonClass()), Text("Apply")),
			),
			Form(
				Method("post"),
				Action(base+"/dismiss"),
				csrfFieldFunc(),
				Button(Type("submit"), Class(secondaryButtonClass()), Text("Dismiss")),
			),
		)
	}

	meta := rec.EstimatedImpact
	if rec.Confidence > 0 {
		if meta != "" {
			meta += " · "
		}
		meta += fmt.Sprintf("%.0f%% confidence", rec.Confidence*100)
	}

	return Div(
		Class(cardClass()),
		Div(
			Class("toolbar-row"),
			Strong(Text(recommendationTitle(rec.Type))),
			statusLabel(string(rec.Status), recommendationTone(rec.Status)),
		),
		P(Text(rec.Description)),
		If(meta != "", P(Class(mutedClass()), Text(meta))),
		actions,
	)
}

// recommendationTitle turns the backend's snake_case recommendation type
// into a heading, e.g. "add_index" -> "Add index".
func recommendationTitle(recType string) string {
	if recType == "" {
		return "Recommendation"
	}
	title := strings.ReplaceAll(recType, "_", " ")
	return strings.ToUpper(title[:1]) + title[1:]
}

func recommendationTone(status domain.RecommendationStatus) string {
	switch status {
	case domain.RecommendationApplied:
		return "success"
	case domain.RecommendationDismissed:
		return "muted"
	default:
		return "warning"
	}
}
