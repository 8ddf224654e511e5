package ui

import (
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func loginPage(email, errMsg string, csrfFieldFunc func() Node) Node {
	content := []Node{
		H1(Text("QueryPulse")),
		P(Text("Sign in to your monitoring console.")),
		Form(
			Method("post"),
			Action("/login"),
			Class("login-form"),
			csrfFieldFunc(),
			Label(Text("Email")),
			Input(Type("email"), Name("email"), Value(email), Required(), AutoComplete("email")),
			Label(Text("Password")),
			Input(Type("password"), Name("password"), Required(), AutoComplete("current-password")),
			Button(Type("submit"), Class(primaryButtonClass()), Text("Sign In")),
		),
		P(Class(mutedClass()), Text("No account yet? "), A(Href("/register"), Text("Create one"))),
	}
	if errMsg != "" {
		content = append([]Node{P(Class("error"), Text(errMsg))}, content...)
	}
	return authPage("Sign in", content...)
}

type registerFormData struct {
	Email    string
	FullName string
}

func registerPage(form registerFormData, errMsg string, csrfFieldFunc func() Node) Node {
	content := []Node{
		H1(Text("QueryPulse")),
		P(Text("Create an account to start monitoring your databases.")),
		Form(
			Method("post"),
			Action("/register"),
			Class("login-form"),
			csrfFieldFunc(),
			Label(Text("Full name")),
			Input(Type("text"), Name("full_name"), Value(form.FullName), AutoComplete("name")),
			Label(Text("Email")),
			Input(Type("email"), Name("email"), Value(form.Email), Required(), AutoComplete("email")),
			Label(Text("Password")),
			Input(Type("password"), Name("password"), Required(), AutoComplete("new-password")),
			Button(Type("submit"), Class(primaryButtonClass()), Text("Create Account")),
		),
		P(Class(mutedClass()), Text("Already registered? "), A(Href("/login"), Text("Sign in"))),
	}
	if errMsg != "" {
		content = append([]Node{P(Class("error"), Text(errMsg))}, content...)
	}
	return authPage("Create account", content...)
}
