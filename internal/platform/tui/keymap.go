package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-heli/internal/core"
)

// GameKeyMap defines the key bindings used while flying.
type GameKeyMap struct {
	Thrust     key.Binding
	Confirm    key.Binding
	Revive     key.Binding
	Restart    key.Binding
	Pause      key.Binding
	Back       key.Binding
	Quit       key.Binding
	Screenshot key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Thrust, k.Pause, k.Restart, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Thrust, k.Pause, k.Revive, k.Confirm},
		{k.Restart, k.Back, k.Screenshot, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Thrust: key.NewBinding(
			key.WithKeys(" ", "up", "w", "k"),
			key.WithHelp("space", "thrust"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "next level"),
		),
		Revive: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "revive"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b/esc", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	Game GameKeyMap
	Menu MenuKeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{
		Game: DefaultGameKeyMap(),
		Menu: DefaultMenuKeyMap(),
	}
}

// MapKey translates a key message to a game action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	k := km.Game
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit, true
	case key.Matches(msg, k.Thrust):
		return core.ActionThrust, false
	case key.Matches(msg, k.Confirm):
		return core.ActionConfirm, false
	case key.Matches(msg, k.Revive):
		return core.ActionRevive, false
	case key.Matches(msg, k.Restart):
		return core.ActionRestart, false
	case key.Matches(msg, k.Pause):
		return core.ActionPause, false
	case key.Matches(msg, k.Back):
		return core.ActionBack, false
	}
	return core.ActionNone, false
}

// MenuKeyMap defines the key bindings of the level select menu.
type MenuKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PrevChapter key.Binding
	NextChapter key.Binding
	Select      key.Binding
	Scores      key.Binding
	Reset       key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextChapter, k.Select, k.Scores, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevChapter, k.NextChapter},
		{k.Select, k.Scores, k.Reset, k.Quit},
	}
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("up/k", "prev level"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("down/j", "next level"),
		),
		PrevChapter: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev chapter"),
		),
		NextChapter: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next chapter"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "fly"),
		),
		Scores: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "scores"),
		),
		Reset: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "reset chapter"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionScoreboard
	MenuActionReset
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	k := km.Menu
	switch {
	case key.Matches(msg, k.Quit):
		return MenuActionQuit
	case key.Matches(msg, k.Up):
		return MenuActionUp
	case key.Matches(msg, k.Down):
		return MenuActionDown
	case key.Matches(msg, k.PrevChapter):
		return MenuActionLeft
	case key.Matches(msg, k.NextChapter):
		return MenuActionRight
	case key.Matches(msg, k.Select):
		return MenuActionSelect
	case key.Matches(msg, k.Scores):
		return MenuActionScoreboard
	case key.Matches(msg, k.Reset):
		return MenuActionReset
	}
	return MenuActionNone
}
