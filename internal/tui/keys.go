package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the dashboard key bindings.
type KeyMap struct {
	NextTab     key.Binding
	PrevTab     key.Binding
	Leaderboard key.Binding
	Teams       key.Binding
	Workouts    key.Binding
	Filter      key.Binding
	ClearFilter key.Binding
	Apply       key.Binding
	Refresh     key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab:     newBinding([]string{"tab", "right", "l"}, "next list", "tab"),
		PrevTab:     newBinding([]string{"shift+tab", "left", "h"}, "prev list", "shift+tab"),
		Leaderboard: newBinding([]string{"1"}, "leaderboard", "1"),
		Teams:       newBinding([]string{"2"}, "teams", "2"),
		Workouts:    newBinding([]string{"3"}, "workouts", "3"),
		Filter:      newBinding([]string{"/"}, "filter", "/"),
		ClearFilter: newBinding([]string{"esc"}, "clear filter", "esc"),
		Apply:       newBinding([]string{"enter"}, "keep filter", "enter"),
		Refresh:     newBinding([]string{"r"}, "refresh", "r"),
		Quit:        newBinding([]string{"q", "ctrl+c"}, "quit", "q"),
	}
}

func newBinding(keys []string, help, display string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(display, help),
	)
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Filter, k.ClearFilter, k.Refresh, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Leaderboard, k.Teams, k.Workouts},
		{k.Filter, k.ClearFilter, k.Apply, k.Refresh, k.Quit},
	}
}
