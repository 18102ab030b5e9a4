// Package browsetui is a read-only Bubbletea viewer over an already
// loaded catalog.Catalog — drill down from databases to tables to rows,
// in each table's canonical order (spec §4.1/§4.2). It never mutates the
// catalog: the one way to change state remains the executor's command
// language. Adapted from the teacher's cmd/pebble/tui list-wizard
// (tui.MigrateModel), generalized from a single migrations list to a
// three-level drill-down and stripped of every mutating action.
package browsetui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marshallshelly/miniql/pkg/catalog"
	"github.com/marshallshelly/miniql/pkg/table"
)

type mode int

const (
	modeDatabases mode = iota
	modeTables
	modeRows
)

// Model is the Bubbletea model driving the three-level browser.
type Model struct {
	cat *catalog.Catalog

	mode    mode
	dbList  list.Model
	tblList list.Model
	rowList list.Model

	currentDB    string
	currentTable string

	width, height int
}

// New builds a browser over cat, seeded with its current set of
// databases (sorted by name for determinism, spec §8's ordering rule).
func New(cat *catalog.Catalog) Model {
	names := make([]string, 0, len(cat.Databases))
	for n := range cat.Databases {
		names = append(names, n)
	}
	sort.Strings(names)

	items := make([]list.Item, len(names))
	for i, n := range names {
		items[i] = item{title: n, desc: fmt.Sprintf("%d table(s)", len(cat.Databases[n].Tables))}
	}

	return Model{
		cat:    cat,
		mode:   modeDatabases,
		dbList: newList("Databases", items),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

func (m *Model) enterTables(dbName string) {
	db := m.cat.Databases[dbName]
	names := make([]string, 0, len(db.Tables))
	for n := range db.Tables {
		names = append(names, n)
	}
	sort.Strings(names)

	items := make([]list.Item, len(names))
	for i, n := range names {
		items[i] = item{title: n, desc: fmt.Sprintf("%d row(s)", len(db.Tables[n].Rows))}
	}

	m.currentDB = dbName
	m.tblList = newList(dbName+" — Tables", items)
	m.tblList.SetSize(m.width-4, m.height-8)
	m.mode = modeTables
}

func (m *Model) enterRows(tableName string) {
	tbl := m.cat.Databases[m.currentDB].Tables[tableName]
	refs := tbl.Select(nil, io.Discard)

	items := make([]list.Item, len(refs))
	for i, r := range refs {
		items[i] = rowItem(tbl, *r, i+1)
	}

	m.currentTable = tableName
	m.rowList = newList(m.currentDB+"."+tableName, items)
	m.rowList.SetSize(m.width-4, m.height-8)
	m.mode = modeRows
}

func rowItem(tbl *table.Table, tup table.Tuple, n int) item {
	cells := make([]string, len(tbl.Schema))
	for i, a := range tbl.Schema {
		cells[i] = a.Name + "=" + tup[i].String()
	}
	return item{
		title: fmt.Sprintf("%d.", n),
		desc:  strings.Join(cells, "  "),
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.dbList.SetSize(msg.Width-4, msg.Height-8)
		m.tblList.SetSize(msg.Width-4, msg.Height-8)
		m.rowList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			switch m.mode {
			case modeDatabases:
				return m, tea.Quit
			case modeTables:
				m.mode = modeDatabases
				return m, nil
			case modeRows:
				m.mode = modeTables
				return m, nil
			}
		case "enter":
			switch m.mode {
			case modeDatabases:
				if it, ok := m.dbList.SelectedItem().(item); ok {
					m.enterTables(it.title)
				}
				return m, nil
			case modeTables:
				if it, ok := m.tblList.SelectedItem().(item); ok {
					m.enterRows(it.title)
				}
				return m, nil
			}
		case "esc", "backspace":
			switch m.mode {
			case modeTables:
				m.mode = modeDatabases
				return m, nil
			case modeRows:
				m.mode = modeTables
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeDatabases:
		m.dbList, cmd = m.dbList.Update(msg)
	case modeTables:
		m.tblList, cmd = m.tblList.Update(msg)
	case modeRows:
		m.rowList, cmd = m.rowList.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	var help string
	var body string
	switch m.mode {
	case modeDatabases:
		body = m.dbList.View()
		help = formatKey("↑/↓", "navigate") + " • " + formatKey("enter", "open") + " • " + formatKey("q", "quit")
	case modeTables:
		body = m.tblList.View()
		help = formatKey("↑/↓", "navigate") + " • " + formatKey("enter", "open") + " • " + formatKey("esc/q", "back")
	case modeRows:
		body = m.rowList.View()
		help = formatKey("↑/↓", "navigate") + " • " + formatKey("esc/q", "back")
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxStyle.Render(body), helpStyle.Render(help))
}

// Run starts the browser as a full-screen program.
func Run(cat *catalog.Catalog) error {
	_, err := tea.NewProgram(New(cat)).Run()
	return err
}
