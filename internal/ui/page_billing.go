package ui

import (
	"querypulse/internal/domain"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type planData struct {
	Key      string
	Name     string
	Price    string
	Features []string
}

var plans = []planData{
	{Key: "free", Name: "Free", Price: "$0/mo", Features: []string{
		"1 monitored database",
		"24 hour query history",
		"Basic recommendations",
	}},
	{Key: "pro", Name: "Pro", Price: "$29/mo", Features: []string{
		"10 monitored databases",
		"30 day query history",
		"Pattern and trend analysis",
	}},
	{Key: "enterprise", Name: "Enterprise", Price: "$99/mo", Features: []string{
		"Unlimited databases",
		"90 day query history",
		"Priority support",
	}},
}

func pricingPage(user domain.User, csrfFieldFunc func() Node) Node {
	cards := make([]Node, 0, len(plans))
	for _, plan := range plans {
		cards = append(cards, planCard(plan, user.PlanTier, csrfFieldFunc))
	}

	body := []Node{
		Div(Class("card-grid"), Group(cards)),
	}
	if user.PlanTier != "" && user.PlanTier != "free" {
		body = append(body,
			Form(
				Method("post"),
				Action("/billing/portal"),
				csrfFieldFunc(),
				Button(Type("submit"), Class(secondaryButtonClass()), Text("Manage subscription")),
			),
		)
	}
	return appPage("Pricing", "pricing", user, body...)
}

func planCard(plan planData, currentTier string, csrfFieldFunc func() Node) Node {
	features := make([]Node, 0, len(plan.Features))
	for _, f := range plan.Features {
		features = append(features, Li(Text(f)))
	}

	action := Node(nil)
	switch {
	case plan.Key == currentTier || (currentTier == "" && plan.Key == "free"):
		action = statusLabel("current plan", "success")
	case plan.Key != "free":
		action = Form(
			Method("post"),
			Action("/billing/checkout"),
			csrfFieldFunc(),
			Input(Type("hidden"), Name("plan"), Value(plan.Key)),
			Button(Type("submit"), Class(primaryButtonClass()), Text("Upgrade")),
		)
	}

	return Div(
		Class(cardClass("plan-card")),
		H2(Text(plan.Name)),
		P(Class("plan-price"), Strong(Text(plan.Price))),
		Ul(Group(features)),
		action,
	)
}
