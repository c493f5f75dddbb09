package main

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page templates. Each one is rendered inside the shared layout.
const (
	ViewList        = "list.html"
	ViewCards       = "cards.html"
	ViewForm        = "form.html"
	ViewLoading     = "loading.html"
	ViewConfirm     = "confirm.html"
	ViewNotFound    = "notfound.html"
	ViewError       = "error.html"
	ViewMaintenance = "maintenance.html"
)

// PageData is given to the layout. Content is given to the page template.
type PageData struct {
	Title     string
	RequestID string
	Notices   []string
	Content   interface{}
}

type ListView struct {
	Rows   []BookRow
	Loaded bool
}

type FormView struct {
	Heading string
	Action  string
	Form    *BookForm
}

type LoadingView struct {
	Heading string
}

type ConfirmView struct {
	Prompt string
	Action string
	ID     BookID
}

type NotFoundView struct {
	Path string
}

type ErrorView struct {
	Message string
}

type MaintenanceView struct {
	Message string
	Since   string
}

// Views holds the parsed page templates.
type Views struct {
	pages map[string]*template.Template
}

// NewViews parses every page template along with the layout.
func NewViews() (*Views, error) {
	v := &Views{pages: make(map[string]*template.Template)}
	for _, name := range []string{
		ViewList, ViewCards, ViewForm, ViewLoading, ViewConfirm,
		ViewNotFound, ViewError, ViewMaintenance,
	} {
		t, err := template.New(name).ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("views: failed to parse %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// Render executes the named page into a buffer so that a failing
// template never produces a partial response.
func (v *Views) Render(name string, data *PageData) (*bytes.Buffer, error) {
	t, ok := v.pages[name]
	if !ok {
		return nil, fmt.Errorf("views: unknown page %q", name)
	}
	buf := new(bytes.Buffer)
	if err := t.ExecuteTemplate(buf, "layout", data); err != nil {
		return nil, fmt.Errorf("views: failed to render %s: %w", name, err)
	}
	return buf, nil
}
