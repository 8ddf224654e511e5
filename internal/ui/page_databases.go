package ui

import (
	"strconv"

	"querypulse/internal/domain"

	. "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	. "maragu.dev/gomponents/html"
)

type databaseRowData struct {
	ID       string
	Name     string
	Type     string
	Target   string
	Status   string
	Tone     string
	Selected bool
}

func databasesListPage(user domain.User, rows []databaseRowData, csrfFieldFunc func() Node) Node {
	if len(rows) == 0 {
		return appPage("Databases", "databases", user,
			emptyStateCard("No databases registered yet.", "Add a database", "/databases/new"),
		)
	}

	trs := make([]Node, 0, len(rows))
	for _, row := range rows {
		selectCell := Node(statusLabel("monitoring", "success"))
		if !row.Selected {
			selectCell = Form(
				Method("post"),
				Action("/databases/"+row.ID+"/select"),
				csrfFieldFunc(),
				Button(Type("submit"), Class(secondaryButtonClass()), Text("Monitor")),
			)
		}
		trs = append(trs, Tr(
			data.Show(containsExpr(row.Name+" "+row.Target)),
			Td(Strong(Text(row.Name))),
			Td(Text(row.Type)),
			Td(Code(Text(row.Target))),
			Td(statusLabel(row.Status, row.Tone)),
			Td(selectCell),
			Td(
				Form(
					Method("post"),
					Action("/databases/"+row.ID+"/delete"),
					csrfFieldFunc(),
					Button(Type("submit"), Class("btn btn-danger"), Text("Remove")),
				),
			),
		))
	}

	return appPage("Databases", "databases", user,
		Div(
			Class(cardClass("toolbar")),
			data.Signals(map[string]any{"q": ""}),
			Div(
				Class("toolbar-row"),
				Label(Class("sr-only"), Text("Quick filter")),
				Input(Type("search"), Class("form-control"), Placeholder("Filter databases"), data.Bind("q"), AutoComplete("off")),
				A(Href("/databases/new"), Class(primaryButtonClass()), Text("Add database")),
			),
			Table(
				THead(Tr(
					Th(Text("Name")),
					Th(Text("Type")),
					Th(Text("Target")),
					Th(Text("Status")),
					Th(Text("Monitoring")),
					Th(Text("")),
				)),
				TBody(Group(trs)),
			),
		),
	)
}

type databaseFormData struct {
	Name         string
	Type         string
	Host         string
	Port         int
	DatabaseName string
	Username     string
}

func databaseFormPage(user domain.User, form databaseFormData, errMsg, notice string, csrfFieldFunc func() Node) Node {
	body := []Node{
		P(A(Href("/databases"), Text("← Back to databases"))),
		noticeCard(notice),
	}
	if errMsg != "" {
		body = append(body, Div(Class(cardClass("notice")), P(Class("error"), Text(errMsg))))
	}
	body = append(body, Form(
		Method("post"),
		Action("/databases"),
		Class(cardClass("form-card")),
		csrfFieldFunc(),
		Label(Text("Name")),
		Input(Type("text"), Name("name"), Class("form-control"), Value(form.Name), Required()),
		Label(Text("Type")),
		Select(
			Name("db_type"),
			Class("form-control"),
			optionSelected(string(domain.ConnectionPostgres), "PostgreSQL", form.Type),
			optionSelected(string(domain.ConnectionMySQL), "MySQL", form.Type),
			optionSelected(string(domain.ConnectionMongoDB), "MongoDB", form.Type),
		),
		Label(Text("Host")),
		Input(Type("text"), Name("host"), Class("form-control"), Value(form.Host), Required()),
		Label(Text("Port")),
		Input(Type("number"), Name("port"), Class("form-control"), Min("1"), Max("65535"), Value(strconv.Itoa(form.Port)), Required()),
		Label(Text("Database name")),
		Input(Type("text"), Name("database_name"), Class("form-control"), Value(form.DatabaseName), Required()),
		Label(Text("Username")),
		Input(Type("text"), Name("username"), Class("form-control"), Value(form.Username), AutoComplete("off")),
		Label(Text("Password")),
		Input(Type("password"), Name("password"), Class("form-control"), AutoComplete("off")),
		Div(
			Class("toolbar-row"),
			Button(Type("submit"), Class(primaryButtonClass()), Text("Save")),
			Button(Type("submit"), FormAction("/databases/test"), Class(secondaryButtonClass()), Text("Test connection")),
		),
	))
	return appPage("Add Database", "databases", user, body...)
}
