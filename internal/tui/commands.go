package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/neighborly/internal/core/catalog"
	"github.com/hay-kot/neighborly/internal/core/recommend"
)

// debounceInterval delays live filtering until typing pauses.
const debounceInterval = 300 * time.Millisecond

// catalogLoadedMsg is sent when the catalog fetch finishes.
type catalogLoadedMsg struct {
	products []catalog.Product
	err      error
}

// recommendationsMsg carries recommendations for a strategy.
type recommendationsMsg struct {
	strategy recommend.Strategy
	products []catalog.Product
	err      error
}

// debounceMsg fires after the search box has been idle. Stale ticks are
// recognised by their sequence number.
type debounceMsg struct {
	seq int
}

// searchDoneMsg is sent once a submitted search has been recorded.
type searchDoneMsg struct {
	query    string
	products []catalog.Product
	err      error
}

// viewedMsg is sent once a product view has been recorded.
type viewedMsg struct {
	product catalog.Product
	err     error
}

func (m Model) loadCatalog() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		products, err := svc.Products(ctx)
		return catalogLoadedMsg{products: products, err: err}
	}
}

func (m Model) loadRecommendations() tea.Cmd {
	svc, ctx, strategy, limit := m.svc, m.ctx, m.strategy, m.limit
	return func() tea.Msg {
		products, err := svc.Recommend(ctx, strategy, limit)
		return recommendationsMsg{strategy: strategy, products: products, err: err}
	}
}

func (m Model) submitSearch(query string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		products, err := svc.Search(ctx, query, "")
		return searchDoneMsg{query: query, products: products, err: err}
	}
}

func (m Model) recordView(id string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		p, err := svc.View(ctx, id)
		return viewedMsg{product: p, err: err}
	}
}

func scheduleDebounce(seq int) tea.Cmd {
	return tea.Tick(debounceInterval, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
