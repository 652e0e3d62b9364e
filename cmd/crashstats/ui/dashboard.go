package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nao1215/crashstats"
	"go.uber.org/zap"
)

// Layout constants
const (
	defaultViewportWidth  = 100
	defaultViewportHeight = 20
	// chromeHeight is the number of lines used by the header, selectors and footer.
	chromeHeight = 6
)

// viewKeys maps the trigger keys to the views they reveal.
var viewKeys = map[string]crashstats.ViewKind{
	"d": crashstats.ViewYear,
	"t": crashstats.ViewAccidentType,
	"h": crashstats.ViewHourly,
	"a": crashstats.ViewAlcohol,
	"s": crashstats.ViewSpeedZones,
}

// viewLabels are the trigger captions in the selector bar.
var viewLabels = map[crashstats.ViewKind]string{
	crashstats.ViewYear:         "[d] Show Data",
	crashstats.ViewAccidentType: "[t] Accident Type",
	crashstats.ViewHourly:       "[h] Accidents per Hour",
	crashstats.ViewAlcohol:      "[a] Alcohol Impacts",
	crashstats.ViewSpeedZones:   "[s] Speed Zones",
}

// DashboardModel is the interactive dashboard: a year selector, a category
// selector and one revealed view at a time.
type DashboardModel struct {
	explorer   *crashstats.Explorer
	years      []int
	categories []string
	yearIdx    int
	catIdx     int

	// kind is meaningful only when shown is true
	kind  crashstats.ViewKind
	shown bool

	viewport viewport.Model
	width    int
	styles   Styles
	logger   *zap.Logger
}

// DashboardOption configures a DashboardModel.
type DashboardOption func(*DashboardModel)

// WithStyles overrides the default styles.
func WithStyles(styles Styles) DashboardOption {
	return func(m *DashboardModel) {
		m.styles = styles
	}
}

// WithLogger sets the logger for view changes.
func WithLogger(logger *zap.Logger) DashboardOption {
	return func(m *DashboardModel) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewDashboardModel creates a dashboard over table. years and categories are
// the selector choices and must not be empty; the first of each is selected.
func NewDashboardModel(table *crashstats.Table, years []int, categories []string, opts ...DashboardOption) DashboardModel {
	vp := viewport.New(defaultViewportWidth, defaultViewportHeight)
	m := DashboardModel{
		explorer:   crashstats.NewExplorer(table),
		years:      years,
		categories: categories,
		viewport:   vp,
		width:      defaultViewportWidth,
		styles:     DefaultStyles(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

// Init initializes the model.
func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// Selection returns the current selector values.
func (m DashboardModel) Selection() crashstats.Selection {
	return crashstats.Selection{
		Year:     m.years[m.yearIdx],
		Category: m.categories[m.catIdx],
	}
}

// Shown returns the revealed view, if any.
func (m DashboardModel) Shown() (crashstats.ViewKind, bool) {
	return m.kind, m.shown
}

// Update handles key presses and window resizes. Every change of selector or
// view recomputes the content.
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left":
			m.yearIdx = (m.yearIdx + len(m.years) - 1) % len(m.years)
			m.refresh()
			return m, nil
		case "right":
			m.yearIdx = (m.yearIdx + 1) % len(m.years)
			m.refresh()
			return m, nil
		case "up":
			m.catIdx = (m.catIdx + len(m.categories) - 1) % len(m.categories)
			m.refresh()
			return m, nil
		case "down", "tab":
			m.catIdx = (m.catIdx + 1) % len(m.categories)
			m.refresh()
			return m, nil
		}
		if kind, ok := viewKeys[key]; ok {
			if m.shown && m.kind == kind {
				m.shown = false
			} else {
				m.kind, m.shown = kind, true
			}
			m.refresh()
			m.viewport.GotoTop()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// refresh recomputes the revealed view for the current selection.
func (m *DashboardModel) refresh() {
	if !m.shown {
		m.viewport.SetContent(m.styles.Muted.Render("Press a view key to reveal a table or chart."))
		return
	}

	sel := m.Selection()
	view, chart, err := m.explorer.Render(m.kind, sel)
	if err != nil {
		m.viewport.SetContent(m.styles.Error.Render(err.Error()))
		return
	}
	m.logger.Debug("view rendered",
		zap.Stringer("view", m.kind),
		zap.Int("year", sel.Year),
		zap.String("category", sel.Category),
		zap.Int("rows", view.Len()),
	)
	m.viewport.SetContent(RenderView(view, chart, m.width, m.styles))
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	sel := m.Selection()

	header := m.styles.Header.Render("Crash Statistics Victoria")
	selectors := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Bold.Render("Year: "),
		m.styles.Selected.Render(fmt.Sprintf("%d", sel.Year)),
		"   ",
		m.styles.Bold.Render("Accident type: "),
		m.styles.Selected.Render(sel.Category),
	)

	triggers := make([]string, 0, len(viewLabels))
	for _, kind := range crashstats.ViewKinds() {
		label := viewLabels[kind]
		if m.shown && m.kind == kind {
			triggers = append(triggers, m.styles.Selected.Render(label))
		} else {
			triggers = append(triggers, m.styles.Muted.Render(label))
		}
	}

	footer := m.styles.Footer.Render("←/→ year • ↑/↓ tab category • j/k pgup/pgdn scroll • q quit")

	return strings.Join([]string{
		header,
		selectors,
		strings.Join(triggers, " "),
		m.viewport.View(),
		footer,
	}, "\n")
}

// RenderView draws a view and its optional chart, chart first.
func RenderView(view *crashstats.View, chart *crashstats.Chart, width int, styles Styles) string {
	var sb strings.Builder
	if chart != nil {
		sb.WriteString(RenderChart(chart, width, styles))
		sb.WriteString("\n")
	}
	sb.WriteString(NewSimpleTable(view).View(styles))
	return sb.String()
}
