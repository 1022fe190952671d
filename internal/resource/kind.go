package resource

import (
	"fmt"
	"strings"
)

// Column is one table column of a kind. Value receives the row's position in
// the filtered view.
type Column struct {
	Title string
	Value func(index int, e Entity) string
}

// Kind describes one list resource: where it lives, how it is filtered and
// how it is rendered.
type Kind struct {
	Name           string
	Path           string
	Title          string
	Subtitle       string
	Placeholder    string
	LoadingMessage string
	EmptyMessage   string
	FailureMessage string
	Columns        []Column
	FilterKey      func(Entity) string
}

// Headers returns the column titles.
func (k Kind) Headers() []string {
	headers := make([]string, len(k.Columns))
	for i, c := range k.Columns {
		headers[i] = c.Title
	}
	return headers
}

// Row renders the cells of e at position index.
func (k Kind) Row(index int, e Entity) []string {
	row := make([]string, len(k.Columns))
	for i, c := range k.Columns {
		row[i] = c.Value(index, e)
	}
	return row
}

// Rows renders a list of entities.
func (k Kind) Rows(items []Entity) [][]string {
	rows := make([][]string, len(items))
	for i, e := range items {
		rows[i] = k.Row(i, e)
	}
	return rows
}

// Leaderboard ranks participants by score.
var Leaderboard = Kind{
	Name:           "leaderboard",
	Path:           "leaderboard",
	Title:          "Leaderboard",
	Subtitle:       "Top performers across the platform",
	Placeholder:    "Search participants",
	LoadingMessage: "Loading leaderboard…",
	EmptyMessage:   "No leaderboard entries.",
	FailureMessage: "Failed to load leaderboard.",
	Columns: []Column{
		{Title: "Rank", Value: func(i int, _ Entity) string { return fmt.Sprintf("#%d", i+1) }},
		{Title: "Participant", Value: func(_ int, e Entity) string { return e.TextOr("Participant", "user", "name") }},
		{Title: "Score", Value: func(_ int, e Entity) string { return e.TextOr("—", "score", "points") }},
	},
	FilterKey: func(e Entity) string { return e.Text("user", "name") },
}

// Teams lists teams with their size and focus.
var Teams = Kind{
	Name:           "teams",
	Path:           "teams",
	Title:          "Teams",
	Subtitle:       "Collaborate and compete together",
	Placeholder:    "Search teams",
	LoadingMessage: "Loading teams…",
	EmptyMessage:   "No teams found.",
	FailureMessage: "Failed to load teams.",
	Columns: []Column{
		{Title: "Team", Value: func(_ int, e Entity) string { return e.TextOr("Team", "name") }},
		{Title: "Members", Value: func(_ int, e Entity) string { return memberLabel(e) }},
		{Title: "Focus", Value: func(_ int, e Entity) string { return e.TextOr("Balanced", "focus", "goal") }},
	},
	FilterKey: func(e Entity) string { return e.Text("name") },
}

// Workouts lists suggested workouts.
var Workouts = Kind{
	Name:           "workouts",
	Path:           "workouts",
	Title:          "Workouts",
	Subtitle:       "Planned sessions and drills",
	Placeholder:    "Search workouts",
	LoadingMessage: "Loading workouts…",
	EmptyMessage:   "No workouts found.",
	FailureMessage: "Failed to load workouts.",
	Columns: []Column{
		{Title: "Workout", Value: func(_ int, e Entity) string { return e.TextOr("Workout", "name", "title") }},
		{Title: "Intensity", Value: func(_ int, e Entity) string { return intensityLabel(e) }},
		{Title: "Target", Value: func(_ int, e Entity) string { return e.TextOr("Full-body", "focus", "type") }},
	},
	FilterKey: func(e Entity) string { return e.Text("name", "title") },
}

// memberLabel prefers an explicit count and falls back to the members list.
func memberLabel(e Entity) string {
	count, ok := e.Lookup("members_count", "member_count")
	if !ok {
		if members, isList := e["members"].([]any); isList {
			count, ok = float64(len(members)), true
		}
	}
	if !ok || !truthy(count) {
		return "—"
	}
	return FormatValue(count) + " members"
}

// intensityLabel shows the first non-null of intensity and difficulty once
// either is truthy, so an empty intensity hides a set difficulty.
func intensityLabel(e Entity) string {
	if !truthy(e["intensity"]) && !truthy(e["difficulty"]) {
		return "—"
	}
	v, _ := e.Lookup("intensity", "difficulty")
	return FormatValue(v)
}

// Kinds returns the resource kinds in display order.
func Kinds() []Kind {
	return []Kind{Leaderboard, Teams, Workouts}
}

// Names returns the kind names in display order.
func Names() []string {
	kinds := Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.Name
	}
	return names
}

// LookupKind finds a kind by name. Singular forms are accepted.
func LookupKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range Kinds() {
		if name == k.Name || name+"s" == k.Name {
			return k, true
		}
	}
	return Kind{}, false
}
