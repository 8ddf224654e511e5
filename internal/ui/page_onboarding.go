package ui

import (
	"strconv"

	"querypulse/internal/domain"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func onboardingPage(user domain.User, conns []domain.Connection, form databaseFormData, errMsg string, csrfFieldFunc func() Node) Node {
	body := []Node{
		Div(
			Class(cardClass()),
			H2(Text("Welcome to QueryPulse")),
			P(Text("Connect your first database and we'll start watching its query performance.")),
		),
	}

	if len(conns) > 0 {
		items := make([]Node, 0, len(conns))
		for _, conn := range conns {
			items = append(items, Li(Strong(Text(conn.Name)), Span(Class(mutedClass()), Text(" ("+string(conn.Type)+")"))))
		}
		body = append(body,
			Div(
				Class(cardClass()),
				H2(Text("Connected")),
				Ul(Group(items)),
				Form(
					Method("post"),
					Action("/onboarding/complete"),
					csrfFieldFunc(),
					Button(Type("submit"), Class(primaryButtonClass()), Text("Finish setup")),
				),
			),
		)
	}

	if errMsg != "" {
		body = append(body, Div(Class(cardClass("notice")), P(Class("error"), Text(errMsg))))
	}

	body = append(body, Form(
		Method("post"),
		Action("/onboarding/databases"),
		Class(cardClass("form-card")),
		csrfFieldFunc(),
		H2(Text("Add a database")),
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
		Button(Type("submit"), Class(primaryButtonClass()), Text("Connect")),
	))

	return appPage("Get Started", "dashboard", user, body...)
}
