// Package routes declares handler tables as nested groups and registers them
// on an http.ServeMux using method-qualified patterns.
package routes

import "net/http"

// Route binds an HTTP method and a pattern, relative to its group, to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group registers Routes under Prefix. Children nest beneath it.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Patterns lists every mux pattern the group registers, children last.
func (g Group) Patterns() []string {
	var out []string
	g.walk("", func(pattern string, _ func(http.ResponseWriter, *http.Request)) {
		out = append(out, pattern)
	})
	return out
}

func (g Group) walk(parent string, visit func(string, func(http.ResponseWriter, *http.Request))) {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		visit(r.Method+" "+prefix+r.Pattern, r.Handler)
	}
	for _, c := range g.Children {
		c.walk(prefix, visit)
	}
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		g.walk("", mux.HandleFunc)
	}
}
