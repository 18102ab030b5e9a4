package browsetui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// item is a generic list entry — a database, a table, or a row — shared
// across all three browsing levels (spec §4.4's catalog/table/tuple
// hierarchy has no natural per-level item type of its own).
type item struct {
	title string
	desc  string
}

func (i item) FilterValue() string { return i.title }
func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }

// itemDelegate renders an item the way the teacher's MigrationItemDelegate
// renders a MigrationItem: two lines, a "▸ " marker on the selected row.
type itemDelegate struct{}

func (d itemDelegate) Height() int                              { return 2 }
func (d itemDelegate) Spacing() int                             { return 1 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd  { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, it list.Item) {
	i, ok := it.(item)
	if !ok {
		return
	}
	var s string
	if index == m.Index() {
		s = selectedItemStyle.Render("▸ " + i.Title() + "\n  " + i.Description())
	} else {
		s = unselectedItemStyle.Render("  " + i.Title() + "\n  " + i.Description())
	}
	_, _ = fmt.Fprint(w, s)
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, itemDelegate{}, 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	return l
}
