package main

// RouteDecision is the outcome of a route guard.
type RouteDecision int

const (
	RouteAllow RouteDecision = iota
	RouteWait
	RouteToLogin
	RouteToCatalog
)

const (
	LoginPath   = "/login"
	CatalogPath = "/books"
)

func (d RouteDecision) String() string {
	switch d {
	case RouteAllow:
		return "allow"
	case RouteWait:
		return "wait"
	case RouteToLogin:
		return "redirect:" + LoginPath
	case RouteToCatalog:
		return "redirect:" + CatalogPath
	}
	return "unknown"
}

// Path returns the redirect target or an empty string.
func (d RouteDecision) Path() string {
	switch d {
	case RouteToLogin:
		return LoginPath
	case RouteToCatalog:
		return CatalogPath
	}
	return ""
}

// Err maps a redirect to the error reported by the command line.
func (d RouteDecision) Err() error {
	switch d {
	case RouteToLogin:
		return ErrLoginRequired
	case RouteToCatalog:
		return ErrAdminRequired
	}
	return nil
}

// RequireAuth lets authenticated visitors through.
func RequireAuth(view SessionView) RouteDecision {
	if view.Loading() {
		return RouteWait
	}
	if !view.IsAuthenticated() {
		return RouteToLogin
	}
	return RouteAllow
}

// RequireAdmin lets administrators through and sends other
// authenticated visitors back to the catalog.
func RequireAdmin(view SessionView) RouteDecision {
	if view.Loading() {
		return RouteWait
	}
	user := view.User()
	if user == nil {
		return RouteToLogin
	}
	if !user.IsAdmin() {
		return RouteToCatalog
	}
	return RouteAllow
}
