package ui

import (
	"fmt"
	"strconv"

	"querypulse/internal/domain"
	"querypulse/internal/poller"
	"querypulse/internal/queryproc"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func dashboardEmptyPage(user domain.User) Node {
	return appPage("Dashboard", "dashboard", user,
		emptyStateCard("Connect a database to see performance metrics.", "Add a database", "/databases/new"),
	)
}

func dashboardPage(user domain.User, db domain.Connection, snap poller.Snapshot, csrfFieldFunc func() Node) Node {
	return appPage("Dashboard", "dashboard", user,
		dashboardToolbar(db, snap, csrfFieldFunc),
		dashboardStats(snap.Metrics),
		dashboardActivityCard(snap.Metrics),
		Div(
			Class("card-grid"),
			dashboardPatternsCard(snap.Patterns),
			dashboardTrendsCard(snap.Trends),
		),
	)
}

func dashboardToolbar(db domain.Connection, snap poller.Snapshot, csrfFieldFunc func() Node) Node {
	return Div(
		Class(cardClass("toolbar")),
		Div(
			Class("toolbar-row"),
			Div(
				Strong(Text(db.Name)),
				P(Class(mutedClass()), Text("Updated "+formatTime(snap.FetchedAt))),
			),
			Form(
				Method("post"),
				Action("/dashboard/refresh"),
				Class("toolbar-row"),
				csrfFieldFunc(),
				Select(
					Name("range"),
					Class("form-control"),
					optionSelected(string(queryproc.RangeHour), "Last hour", snap.TimeRange),
					optionSelected(string(queryproc.Range6H), "Last 6 hours", snap.TimeRange),
					optionSelected(string(queryproc.RangeDay), "Last 24 hours", snap.TimeRange),
					optionSelected(string(queryproc.RangeWeek), "Last 7 days", snap.TimeRange),
					optionSelected(string(queryproc.RangeMonth), "Last 30 days", snap.TimeRange),
				),
				Button(Type("submit"), Class(primaryButtonClass()), Text("Refresh")),
			),
		),
	)
}

func dashboardStats(m domain.MetricsSeries) Node {
	slowShare := "0%"
	if m.TotalQueries > 0 {
		slowShare = fmt.Sprintf("%.1f%%", float64(m.SlowQueries)/float64(m.TotalQueries)*100)
	}
	return Div(
		Class("stat-row"),
		statCell("Total queries", strconv.Itoa(m.TotalQueries)),
		statCell("Slow queries", strconv.Itoa(m.SlowQueries)),
		statCell("Slow share", slowShare),
		statCell("Avg execution", formatMS(m.AvgExecutionTimeMS)),
	)
}

// dashboardActivityCard renders the time series as a table. No charting
// library; the console stays dependency-light on the browser side.
func dashboardActivityCard(m domain.MetricsSeries) Node {
	if len(m.Points) == 0 {
		return emptyStateCard("No query activity captured in this window.", "", "")
	}
	rows := make([]Node, 0, len(m.Points))
	for _, pt := range m.Points {
		rows = append(rows, Tr(
			Td(Class("muted"), Text(formatTime(pt.Timestamp))),
			Td(Text(strconv.Itoa(pt.QueryCount))),
			Td(Text(strconv.Itoa(pt.SlowQueryCount))),
			Td(Text(formatMS(pt.AvgExecutionTimeMS))),
		))
	}
	return Div(
		Class(cardClass()),
		H2(Text("Activity")),
		Table(
			THead(Tr(
				Th(Text("Bucket")),
				Th(Text("Queries")),
				Th(Text("Slow")),
				Th(Text("Avg time")),
			)),
			TBody(Group(rows)),
		),
	)
}

func dashboardPatternsCard(patterns []domain.QueryPattern) Node {
	if len(patterns) == 0 {
		return Div(
			Class(cardClass()),
			H2(Text("Top Patterns")),
			P(Class(mutedClass()), Text("No recurring query patterns detected yet.")),
		)
	}
	rows := make([]Node, 0, len(patterns))
	for _, p := range patterns {
		rows = append(rows, Tr(
			Td(Code(Text(truncateSQL(p.Pattern, 60)))),
			Td(Text(strconv.Itoa(p.Count))),
			Td(Text(formatMS(p.AvgTimeMS))),
		))
	}
	return Div(
		Class(cardClass()),
		H2(Text("Top Patterns")),
		Table(
			THead(Tr(Th(Text("Pattern")), Th(Text("Count")), Th(Text("Avg time")))),
			TBody(Group(rows)),
		),
	)
}

func dashboardTrendsCard(trends []domain.PerformanceTrend) Node {
	if len(trends) == 0 {
		return Div(
			Class(cardClass()),
			H2(Text("Trends")),
			P(Class(mutedClass()), Text("No latency shifts between analysis windows.")),
		)
	}
	rows := make([]Node, 0, len(trends))
	for _, t := range trends {
		tone := "success"
		if t.Direction == "degrading" {
			tone = "danger"
		}
		rows = append(rows, Tr(
			Td(Code(Text(truncateSQL(t.QueryText, 60)))),
			Td(statusLabel(t.Direction, tone)),
			Td(Text(fmt.Sprintf("%+.1f%%", t.ChangePercent))),
			Td(Class("muted"), Text(formatMS(t.PreviousAvgMS)+" → "+formatMS(t.CurrentAvgMS))),
		))
	}
	return Div(
		Class(cardClass()),
		H2(Text("Trends")),
		Table(
			THead(Tr(Th(Text("Query")), Th(Text("Direction")), Th(Text("Change")), Th(Text("Latency")))),
			TBody(Group(rows)),
		),
	)
}
