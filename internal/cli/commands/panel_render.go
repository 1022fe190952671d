package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/octofit/octofit/internal/cli/output"
	"github.com/octofit/octofit/internal/listview"
	"github.com/octofit/octofit/internal/resource"
)

// PanelError reports a panel that could not be loaded.
type PanelError struct {
	Kind    string
	Message string
	Err     error
}

func (e *PanelError) Error() string {
	if listview.KindOf(e.Err) == listview.ErrorKindFetch {
		return fmt.Sprintf("%s (%v)", e.Message, e.Err)
	}
	return e.Message
}

func (e *PanelError) Unwrap() error {
	return e.Err
}

// renderPanel writes the current view of p. A failed panel is returned as a
// *PanelError and nothing is written.
func renderPanel(r *output.Renderer, p *resource.Panel) error {
	state := p.State()
	if state.Phase == listview.PhaseFailed {
		return &PanelError{Kind: p.Kind.Name, Message: p.ErrorMessage(), Err: state.Err}
	}

	items := p.View()
	if items == nil {
		items = []resource.Entity{}
	}
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(items)
	case output.ModeYAML:
		return renderYAMLValue(r, items)
	case output.ModeCSV:
		newPanelTable(r.Writer(), p.Kind, items).RenderCSV()
		return nil
	case output.ModeMarkdown:
		return renderPanelMarkdown(r, p, items)
	default:
		return renderPanelText(r, p, items)
	}
}

func newPanelTable(w io.Writer, kind resource.Kind, items []resource.Entity) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headers := kind.Headers()
	headerRow := make(table.Row, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, cells := range kind.Rows(items) {
		row := make(table.Row, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		t.AppendRow(row)
	}
	return t
}

func renderPanelText(r *output.Renderer, p *resource.Panel, items []resource.Entity) error {
	styles := r.Styles()
	r.Println(styles.Header1.Render(p.Kind.Title) + "  " + styles.Muted.Render(p.Kind.Subtitle))
	if q := p.Filter(); q != "" {
		r.Println(styles.Muted.Render("Filter: " + q))
	}

	if len(items) == 0 {
		r.Println(p.Kind.EmptyMessage)
		return nil
	}

	newPanelTable(r.Writer(), p.Kind, items).Render()
	r.Printf("(%d rows)\n", len(items))
	return nil
}

func renderPanelMarkdown(r *output.Renderer, p *resource.Panel, items []resource.Entity) error {
	r.Println(output.FormatHeader(2, p.Kind.Title))
	r.Println("")
	r.Println("_" + p.Kind.Subtitle + "_")
	r.Println("")
	if q := p.Filter(); q != "" {
		r.Println(output.FormatKeyValue("Filter", q))
		r.Println("")
	}

	if len(items) == 0 {
		r.Println(p.Kind.EmptyMessage)
		return nil
	}

	newPanelTable(r.Writer(), p.Kind, items).RenderMarkdown()
	return nil
}

func renderYAMLValue(r *output.Renderer, v any) error {
	enc := yaml.NewEncoder(r.Writer())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
