package panels

import (
	"github.com/octofit/octofit/internal/listview"
	"github.com/octofit/octofit/internal/resource"
)

// PanelView holds everything a panel page renders.
type PanelView struct {
	Kind     resource.Kind
	Kinds    []resource.Kind
	Phase    listview.Phase
	Filter   string
	Headers  []string
	Rows     [][]string
	Message  string
	Endpoint string
}

// Failed reports whether the message is an error.
func (v PanelView) Failed() bool {
	return v.Phase == listview.PhaseFailed
}

// Loading reports whether a fetch is in flight.
func (v PanelView) Loading() bool {
	return v.Phase == listview.PhaseLoading
}

// FilterSignals are the datastar signals sent by the panel page.
type FilterSignals struct {
	Filter string `json:"filter"`
}
