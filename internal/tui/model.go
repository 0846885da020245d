package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/neighborly/internal/core/catalog"
	"github.com/hay-kot/neighborly/internal/core/recommend"
	"github.com/hay-kot/neighborly/internal/core/validate"
	"github.com/hay-kot/neighborly/internal/storefront"
	"github.com/hay-kot/neighborly/internal/styles"
)

// focus is the pane receiving key presses.
type focus int

const (
	focusSearch focus = iota
	focusProducts
)

// Options configures the TUI.
type Options struct {
	Strategy recommend.Strategy // initial recommendation strategy
	Limit    int                // recommendations shown
}

// Model is the Bubble Tea model for the storefront.
type Model struct {
	svc  *storefront.Service
	ctx  context.Context
	keys keyMap
	help help.Model

	input  textinput.Model
	focus  focus
	filter string // text the product list is currently filtered by
	seq    int    // debounce sequence, bumped on every edit

	products []catalog.Product // full catalog
	results  []catalog.Product // products matching filter
	cursor   int
	viewed   *catalog.Product

	strategy recommend.Strategy
	limit    int
	recs     []catalog.Product

	loading  bool
	status   string
	err      error
	width    int
	height   int
	quitting bool
}

// New creates the storefront model.
func New(ctx context.Context, svc *storefront.Service, opts Options) Model {
	input := textinput.New()
	input.Placeholder = "Search sustainable goods..."
	input.Prompt = "› "
	input.CharLimit = validate.MaxQueryLength
	input.Focus()

	strategy := opts.Strategy
	if strategy == "" {
		strategy = recommend.ForYou
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = recommend.DefaultLimit
	}

	return Model{
		svc:      svc,
		ctx:      contextOrBackground(ctx),
		keys:     defaultKeyMap(),
		help:     help.New(),
		input:    input,
		focus:    focusSearch,
		strategy: strategy,
		limit:    limit,
		loading:  true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCatalog())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case catalogLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.products = msg.products
		m.applyFilter(m.filter)
		return m, m.loadRecommendations()

	case recommendationsMsg:
		// a late response for a strategy we have since moved past
		if msg.strategy != m.strategy {
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.recs = msg.products
		return m, nil

	case debounceMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.applyFilter(m.input.Value())
		return m, nil

	case searchDoneMsg:
		if msg.err != nil {
			m.status = ""
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.filter = strings.TrimSpace(msg.query)
		m.results = msg.products
		m.cursor = 0
		m.status = fmt.Sprintf("%d result(s) for %q", len(msg.products), m.filter)
		return m, m.loadRecommendations()

	case viewedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		p := msg.product
		m.viewed = &p
		m.status = "Viewed " + p.DisplayName()
		return m, m.loadRecommendations()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusSearch {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Strategy):
		m.strategy = m.strategy.Next()
		m.recs = nil
		return m, m.loadRecommendations()
	}

	if m.focus == focusSearch {
		return m.handleSearchKey(msg)
	}
	return m.handleProductsKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Open):
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			m.applyFilter("")
			return m.focusProducts(), nil
		}
		m.status = "Searching..."
		return m.focusProducts(), m.submitSearch(query)

	case key.Matches(msg, m.keys.Back):
		if m.input.Value() == "" {
			m.quitting = true
			return m, tea.Quit
		}
		m.input.SetValue("")
		m.seq++
		m.applyFilter("")
		return m, nil

	case msg.Type == tea.KeyDown:
		return m.focusProducts(), nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	m.seq++
	return m, tea.Batch(cmd, scheduleDebounce(m.seq))
}

func (m Model) handleProductsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.results)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if p, ok := m.selected(); ok {
			return m, m.recordView(p.ID)
		}
	case key.Matches(msg, m.keys.Search), key.Matches(msg, m.keys.Back):
		return m.focusSearch(), textinput.Blink
	case msg.String() == "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) focusProducts() Model {
	m.focus = focusProducts
	m.input.Blur()
	return m
}

func (m Model) focusSearch() Model {
	m.focus = focusSearch
	m.input.Focus()
	return m
}

// applyFilter narrows the product list to text without recording a search.
func (m *Model) applyFilter(text string) {
	m.filter = strings.TrimSpace(text)
	m.results = catalog.Filter(m.products, catalog.Query{Text: m.filter})
	m.cursor = min(m.cursor, max(len(m.results)-1, 0))
}

func (m Model) selected() (catalog.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return catalog.Product{}, false
	}
	return m.results[m.cursor], true
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width == 0 {
		width = 100
	}
	height := m.height
	if height == 0 {
		height = 30
	}

	searchStyle := panelStyle
	if m.focus == focusSearch {
		searchStyle = focusedPanelStyle
	}
	search := searchStyle.Width(width - 4).Render(m.input.View())

	// banner (3) + search (3) + status (1) + help (1) + panel borders (2)
	bodyHeight := max(height-10, 5)
	listWidth := max(width*3/5-4, 20)
	recsWidth := max(width-listWidth-8, 20)

	productStyle := panelStyle
	if m.focus == focusProducts {
		productStyle = focusedPanelStyle
	}
	products := productStyle.Width(listWidth).Height(bodyHeight).Render(m.renderProducts(listWidth, bodyHeight))
	recs := panelStyle.Width(recsWidth).Height(bodyHeight).Render(m.renderRecommendations(recsWidth, bodyHeight))

	return lipgloss.JoinVertical(lipgloss.Left,
		bannerStyle.Render(styles.Banner),
		search,
		lipgloss.JoinHorizontal(lipgloss.Top, products, recs),
		m.renderStatus(),
		m.help.View(m.keys),
	)
}

func (m Model) renderProducts(width, height int) string {
	title := titleStyle.Render("Products")
	if m.filter != "" {
		title += mutedStyle.Render(fmt.Sprintf("  matching %q", m.filter))
	}

	switch {
	case m.loading:
		return title + "\n\n" + mutedStyle.Render("Loading catalog...")
	case len(m.results) == 0:
		return title + "\n\n" + mutedStyle.Render("No products found")
	}

	rows := max(height-2, 1)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(m.results))

	lines := []string{title, ""}
	for i := start; i < end; i++ {
		lines = append(lines, m.renderProduct(m.results[i], i == m.cursor && m.focus == focusProducts, width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderProduct(p catalog.Product, selected bool, width int) string {
	price := m.svc.Price(p, "")
	name := truncate(p.DisplayName(), max(width-lipgloss.Width(price)-12, 10))

	cursor := "  "
	style := normalStyle
	if selected {
		cursor = selectedStyle.Render(iconCursor) + " "
		style = selectedStyle
	}

	line := cursor + style.Render(name) + " " + priceStyle.Render(price)
	if p.Rating != nil {
		line += " " + ratingStyle.Render(fmt.Sprintf("%s %.1f", iconStar, *p.Rating))
	}
	return line
}

func (m Model) renderRecommendations(width, height int) string {
	lines := []string{
		titleStyle.Render(m.strategy.Label()),
		mutedStyle.Render(strings.Join(strategyTabs(m.strategy), " ")),
		"",
	}

	if len(m.recs) == 0 {
		lines = append(lines, mutedStyle.Render("Nothing to recommend yet"))
	}
	for _, p := range m.recs {
		if len(lines) >= height {
			break
		}
		lines = append(lines, iconDot+" "+truncate(p.DisplayName(), width-2))
		lines = append(lines, "  "+priceStyle.Render(m.svc.Price(p, "")))
	}

	if m.viewed != nil {
		lines = append(lines, "", mutedStyle.Render("Last viewed: ")+truncate(m.viewed.DisplayName(), width-13))
	}
	return strings.Join(lines, "\n")
}

func strategyTabs(current recommend.Strategy) []string {
	tabs := make([]string, len(recommend.Strategies))
	for i, s := range recommend.Strategies {
		if s == current {
			tabs[i] = selectedStyle.Render(string(s))
		} else {
			tabs[i] = string(s)
		}
	}
	return tabs
}

func (m Model) renderStatus() string {
	if m.err != nil {
		return errorStyle.Render(" " + m.err.Error())
	}
	return mutedStyle.Render(" " + m.status)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
