// Package shell is the page around the falling-snippets background: a top
// navigation bar, a path router and the routed view, drawn as screen-space
// overlays above the sprites.
package shell

import (
	"errors"
	"slices"
	"strings"

	"github.com/samber/lo"
)

var ErrNotFound = errors.New("shell: no route for path")

// View is routed page content.
type View interface {
	Name() string
	Lines() []string
}

// TextView is a view made of a title and a few lines of body text.
type TextView struct {
	Title string
	Body  []string
}

func (v TextView) Name() string { return v.Title }

func (v TextView) Lines() []string {
	return append([]string{v.Title, ""}, v.Body...)
}

// Home is the view served at "/".
func Home() View {
	return TextView{
		Title: "falling snippets",
		Body: []string{
			"click a snippet to hold it for 3s",
			"R reshuffles, Esc quits",
		},
	}
}

// About describes the program.
func About() View {
	return TextView{
		Title: "about",
		Body: []string{
			"Go snippets drift through a 3D",
			"scene and recycle at the bottom.",
		},
	}
}

// Router maps paths to views and tracks the current one.
type Router struct {
	routes  map[string]View
	current string
}

func NewRouter() *Router {
	return &Router{routes: make(map[string]View)}
}

// DefaultRouter serves Home at "/" and About at "/about", starting at "/".
func DefaultRouter() *Router {
	r := NewRouter()
	r.Handle("/", Home())
	r.Handle("/about", About())
	r.current = "/"
	return r
}

func (r *Router) Handle(path string, v View) {
	r.routes[cleanPath(path)] = v
}

// Navigate switches to the view at path. An unknown path returns ErrNotFound
// and leaves the current view in place.
func (r *Router) Navigate(path string) error {
	p := cleanPath(path)
	if _, ok := r.routes[p]; !ok {
		return ErrNotFound
	}
	r.current = p
	return nil
}

// Current returns the current path and its view, or a nil view before the
// first successful Navigate.
func (r *Router) Current() (string, View) {
	return r.current, r.routes[r.current]
}

// Paths lists the routed paths in order.
func (r *Router) Paths() []string {
	paths := lo.Keys(r.routes)
	slices.Sort(paths)
	return paths
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
