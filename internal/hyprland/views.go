package hyprland

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// WorkspaceSummary is one workspace in a Snapshot.
type WorkspaceSummary struct {
	ID      int `json:"id"`
	Windows int `json:"windows"`
}

// Snapshot is the full workspace state, rebuilt on every workspace event.
type Snapshot struct {
	Workspaces      []WorkspaceSummary `json:"workspaces"`
	ActiveWorkspace int                `json:"active_workspace"`
}

// NewSnapshot builds a snapshot with workspaces ordered by id.
func NewSnapshot(workspaces []Workspace, active int) Snapshot {
	s := Snapshot{
		Workspaces:      make([]WorkspaceSummary, 0, len(workspaces)),
		ActiveWorkspace: active,
	}
	for _, w := range workspaces {
		s.Workspaces = append(s.Workspaces, WorkspaceSummary{ID: w.ID, Windows: w.Windows})
	}
	slices.SortFunc(s.Workspaces, func(a, b WorkspaceSummary) int { return cmp.Compare(a.ID, b.ID) })
	return s
}

func (s Snapshot) Text() string {
	var b strings.Builder
	for i, w := range s.Workspaces {
		if i > 0 {
			b.WriteByte(' ')
		}
		if w.ID == s.ActiveWorkspace {
			fmt.Fprintf(&b, "[%d]", w.ID)
		} else {
			b.WriteString(strconv.Itoa(w.ID))
		}
	}
	return b.String()
}

// Snapshot queries the compositor for the current workspace state.
func (c *Client) Snapshot(ctx context.Context) (Snapshot, error) {
	ws, err := c.Workspaces(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	active, err := c.ActiveWorkspace(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(ws, active.ID), nil
}

// ActiveWindow is the focused window as printed by the active-window listener.
type ActiveWindow struct {
	Class string `json:"class"`
	Title string `json:"title"`
}

func (w ActiveWindow) Text() string { return w.Title }

// ParseActiveWindow decodes activewindow event data ("class,title").
// The class never contains a comma; the title may.
func ParseActiveWindow(data string) ActiveWindow {
	class, title, _ := strings.Cut(data, ",")
	return ActiveWindow{Class: class, Title: title}
}

// ErrNoKeyboard is returned when the compositor reports no keyboards.
var ErrNoKeyboard = errors.New("no keyboard found")

// KeyboardLayout is the output of the keyboard-language listener.
type KeyboardLayout struct {
	Keyboard string `json:"keyboard"`
	Layout   string `json:"layout"`
}

func (k KeyboardLayout) Text() string { return k.Layout }

// SelectKeyboard picks the keyboard to follow: the one flagged main, else
// the one whose name sorts first.
func SelectKeyboard(keyboards []Keyboard) (Keyboard, error) {
	if len(keyboards) == 0 {
		return Keyboard{}, ErrNoKeyboard
	}
	for _, kb := range keyboards {
		if kb.Main {
			return kb, nil
		}
	}
	return slices.MinFunc(keyboards, func(a, b Keyboard) int { return cmp.Compare(a.Name, b.Name) }), nil
}

// ParseActiveLayout decodes activelayout event data ("keyboard,layout").
func ParseActiveLayout(data string) (KeyboardLayout, bool) {
	kb, layout, ok := strings.Cut(data, ",")
	if !ok {
		return KeyboardLayout{}, false
	}
	return KeyboardLayout{Keyboard: kb, Layout: layout}, true
}
