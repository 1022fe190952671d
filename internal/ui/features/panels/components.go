package panels

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/octofit/octofit/internal/ui/resources"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// Page renders the full HTML document for a panel.
func Page(view PanelView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		name := view.Kind.Name

		signals, err := templ.JSONString(FilterSignals{Filter: view.Filter})
		if err != nil {
			return err
		}

		b.WriteString("<!doctype html>\n<html lang=\"en\">\n<head>\n")
		b.WriteString("<meta charset=\"utf-8\">\n")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
		fmt.Fprintf(&b, "<title>%s - OctoFit</title>\n", esc(view.Kind.Title))
		fmt.Fprintf(&b, "<link rel=\"stylesheet\" href=\"%s\">\n", resources.StaticPath("octofit.css"))
		fmt.Fprintf(&b, "<script type=\"module\" src=\"%s\"></script>\n", datastarScript)
		b.WriteString("</head>\n<body>\n")

		writeNav(&b, view)

		fmt.Fprintf(&b, "<main id=\"panel\" class=\"panel\" data-signals=\"%s\" data-init=\"@get('/%s/updates')\">\n",
			esc(signals), name)
		fmt.Fprintf(&b, "<header class=\"panel-header\"><h1>%s</h1><p class=\"muted\">%s</p></header>\n",
			esc(view.Kind.Title), esc(view.Kind.Subtitle))
		fmt.Fprintf(&b, "<input id=\"filter\" type=\"search\" class=\"filter\" placeholder=\"%s\" aria-label=\"%s\" data-bind:filter data-on:input__debounce.200ms=\"@post('/%s/filter')\">\n",
			esc(view.Kind.Placeholder), esc(view.Kind.Placeholder), name)
		writeBody(&b, view)
		b.WriteString("</main>\n</body>\n</html>\n")

		_, err = io.WriteString(w, b.String())
		return err
	})
}

// Body renders the patchable part of a panel: toolbar, status and table.
func Body(view PanelView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		writeBody(&b, view)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Toolbar renders the refresh button and phase only. With resync set, the
// toolbar asks for a freshly filtered body once it is patched in, so rows
// are only ever rendered for the filter the browser holds now.
func Toolbar(view PanelView, resync bool) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		writeToolbar(&b, view, resync)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeNav(b *strings.Builder, view PanelView) {
	b.WriteString("<nav class=\"tabs\"><span class=\"brand\">OctoFit</span>")
	for _, k := range view.Kinds {
		class := "tab"
		if k.Name == view.Kind.Name {
			class = "tab active"
		}
		fmt.Fprintf(b, "<a class=\"%s\" href=\"/%s\">%s</a>", class, k.Name, esc(k.Title))
	}
	b.WriteString("</nav>\n")
}

func writeBody(b *strings.Builder, view PanelView) {
	b.WriteString("<section id=\"panel-body\">\n")
	writeToolbar(b, view, false)

	b.WriteString("<div id=\"panel-content\">\n")
	switch {
	case view.Failed():
		fmt.Fprintf(b, "<div class=\"alert\" role=\"alert\">%s</div>\n", esc(view.Message))
	case view.Message != "":
		fmt.Fprintf(b, "<p class=\"status muted\">%s</p>\n", esc(view.Message))
	default:
		writeTable(b, view)
	}
	b.WriteString("</div>\n</section>\n")
}

func writeToolbar(b *strings.Builder, view PanelView, resync bool) {
	name := view.Kind.Name
	b.WriteString("<div id=\"panel-toolbar\" class=\"toolbar\"")
	if resync {
		fmt.Fprintf(b, " data-init=\"@post('/%s/filter')\"", name)
	}
	b.WriteString(">")
	fmt.Fprintf(b, "<button type=\"button\" data-on:click=\"@post('/%s/refresh')\"", name)
	if view.Loading() {
		b.WriteString(" disabled")
	}
	b.WriteString(">Refresh</button>")
	fmt.Fprintf(b, "<span class=\"phase phase-%s\">%s</span>", view.Phase, view.Phase)
	if view.Endpoint != "" {
		fmt.Fprintf(b, "<code class=\"endpoint\">%s</code>", esc(view.Endpoint))
	}
	b.WriteString("</div>\n")
}

func writeTable(b *strings.Builder, view PanelView) {
	b.WriteString("<table class=\"list\">\n<thead><tr>")
	for _, h := range view.Headers {
		fmt.Fprintf(b, "<th>%s</th>", esc(h))
	}
	b.WriteString("</tr></thead>\n<tbody>\n")
	for _, row := range view.Rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(b, "<td>%s</td>", esc(cell))
		}
		b.WriteString("</tr>\n")
	}
	fmt.Fprintf(b, "</tbody>\n</table>\n<p class=\"muted count\">%d rows</p>\n", len(view.Rows))
}

func esc(s string) string {
	return templ.EscapeString(s)
}
