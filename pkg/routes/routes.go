// Package routes declares HTTP routes as nested groups and registers them on a ServeMux.
package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group organizes routes and child groups under a common prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux using
// Go 1.22 "METHOD /path" patterns.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		register(mux, "", group)
	}
}

// Patterns returns the registration patterns of every route in the groups, in order.
func Patterns(groups ...Group) []string {
	var out []string
	var walk func(prefix string, g Group)
	walk = func(prefix string, g Group) {
		full := prefix + g.Prefix
		for _, r := range g.Routes {
			out = append(out, r.Method+" "+full+r.Pattern)
		}
		for _, c := range g.Children {
			walk(full, c)
		}
	}
	for _, g := range groups {
		walk("", g)
	}
	return out
}

func register(mux *http.ServeMux, parent string, group Group) {
	full := parent + group.Prefix
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+full+route.Pattern, route.Handler)
	}
	for _, child := range group.Children {
		register(mux, full, child)
	}
}

// With returns a copy of g whose route handlers, including those of child
// groups, are wrapped by mw.
func (g Group) With(mw func(http.HandlerFunc) http.HandlerFunc) Group {
	out := Group{
		Prefix:   g.Prefix,
		Routes:   make([]Route, len(g.Routes)),
		Children: make([]Group, len(g.Children)),
	}
	for i, r := range g.Routes {
		r.Handler = mw(r.Handler)
		out.Routes[i] = r
	}
	for i, c := range g.Children {
		out.Children[i] = c.With(mw)
	}
	return out
}
