package ui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"combosearch/internal/config"
	"combosearch/internal/domain"
	"combosearch/internal/eventbus"
	"combosearch/internal/search"
	inputtypes "combosearch/internal/ui/input/types"
	"combosearch/internal/ui/views"
)

// stubPager serves total[query] items labelled "<query> <n>"
type stubPager struct {
	mu       sync.Mutex
	total    map[string]int
	fail     error
	declared bool // report the match count like a page-number API
}

func (p *stubPager) Name() string { return "stub" }

func (p *stubPager) Load(ctx context.Context, query string, page, pageSize int) (domain.Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return domain.Page{}, p.fail
	}
	items := []domain.Item{}
	for i := (page - 1) * pageSize; i < p.total[query] && i < page*pageSize; i++ {
		items = append(items, domain.Item{
			ID:       fmt.Sprintf("%s-%d", query, i+1),
			Label:    fmt.Sprintf("%s %d", query, i+1),
			Subtitle: "stub",
		})
	}
	result := domain.Page{
		Query:   query,
		Index:   page,
		Items:   items,
		HasMore: len(items) == pageSize && len(items) > 0,
	}
	if p.declared {
		result.Total = p.total[query]
	}
	return result, nil
}

func newTestModel(t *testing.T, pager *stubPager) *Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Search.DebounceMs = 1
	cfg.Search.BlurDelayMs = 1
	cfg.Search.PreloadOnOpen = false
	cfg.UI.MaxVisibleItems = 6

	opts := search.OptionsFromConfig(cfg)
	opts.FetchTimeout = time.Second

	bus := eventbus.New(zap.NewNop())
	t.Cleanup(bus.Close)
	controller := search.NewController(pager, bus, zap.NewNop(), opts)

	m := NewModel(bus, cfg, controller, zap.NewNop())
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	drain(m, m.Init())
	require.Equal(t, inputtypes.ModeFocused, m.inputHandler.CurrentMode())
	return m
}

// runCmd executes cmd, giving up on long timers like cursor blinks
func runCmd(cmd tea.Cmd) tea.Msg {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

// drain runs cmd and feeds controller messages back until nothing is left
func drain(m *Model, cmd tea.Cmd) []tea.Msg {
	var other []tea.Msg
	queue := []tea.Cmd{cmd}
	for i := 0; len(queue) > 0 && i < 200; i++ {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := runCmd(next).(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case controllerMsg:
			_, follow := m.Update(msg)
			queue = append(queue, follow)
		case nil:
		default:
			other = append(other, msg)
		}
	}
	return other
}

func press(m *Model, msg tea.KeyMsg) []tea.Msg {
	_, cmd := m.Update(msg)
	return drain(m, cmd)
}

func typeText(m *Model, text string) {
	var cmds []tea.Cmd
	for _, r := range text {
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		cmds = append(cmds, cmd)
	}
	drain(m, tea.Batch(cmds...))
}

func TestModelViewBeforeSize(t *testing.T) {
	m := NewModel(nil, config.DefaultConfig(), search.NewController(&stubPager{}, nil, nil, search.DefaultOptions()), nil)
	assert.Equal(t, "Loading...", m.View())
}

func TestModelTypingShowsResults(t *testing.T) {
	m := newTestModel(t, &stubPager{total: map[string]int{"ph": 25}})

	typeText(m, "ph")

	assert.Equal(t, "ph", m.inputHandler.Value())
	assert.True(t, m.controller.IsOpen())
	assert.Len(t, m.controller.Results(), 10)

	view := m.View()
	assert.Contains(t, view, "ph 1")
	assert.Contains(t, view, "ph 6")
	assert.NotContains(t, view, "ph 7", "only the visible window is rendered")
}

func TestModelNoResults(t *testing.T) {
	m := newTestModel(t, &stubPager{total: map[string]int{}})

	typeText(m, "zzz")

	assert.Equal(t, search.StateOpenNoResults, m.controller.State())
	assert.Contains(t, m.View(), "No results found")
}

func TestModelFetchErrorIsShown(t *testing.T) {
	m := newTestModel(t, &stubPager{fail: errors.New("boom")})

	typeText(m, "ph")

	assert.Equal(t, search.StateOpenError, m.controller.State())
	assert.Contains(t, m.View(), "boom")
}

func TestModelKeyboardSelection(t *testing.T) {
	m := newTestModel(t, &stubPager{total: map[string]int{"ph": 25}})
	typeText(m, "ph")

	press(m, tea.KeyMsg{Type: tea.KeyDown})
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.controller.Cursor())

	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	item, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "ph 2", item.Label)
	assert.Equal(t, "ph 2", m.inputHandler.Value())
	assert.False(t, m.controller.IsOpen())
	assert.Contains(t, m.View(), "ph 2")
}

func TestModelEscapeCloses(t *testing.T) {
	m := newTestModel(t, &stubPager{total: map[string]int{"ph": 3}})
	typeText(m, "ph")
	require.True(t, m.controller.IsOpen())

	press(m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.controller.IsOpen())
	assert.NotContains(t, m.View(), "ph 2")
}

func TestModelMouseClickSelects(t *testing.T) {
	m := newTestModel(t, &stubPager{total: map[string]int{"ph": 25}})
	typeText(m, "ph")

	m.Update(tea.MouseMsg{X: 5, Y: views.ListTop + 2, Action: tea.MouseActionMotion})
	assert.Equal(t, 2, m.controller.Cursor())

	m.Update(tea.MouseMsg{X: 5, Y: views.ListTop + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	item, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "ph 2", item.Label)
}

func TestModelMouseOutsideListDoesNotSelect(t *testing.T) {
	m := newTestModel(t, &stubPager{total: map[string]int{"ph": 3}})
	typeText(m, "ph")

	// below the three rendered rows
	m.Update(tea.MouseMsg{X: 5, Y: views.ListTop + 4, Action: tea.MouseActionMotion})
	assert.Equal(t, search.None, m.controller.Cursor())

	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestModelWheelLoadsMore(t *testing.T) {
	m := newTestModel(t, &stubPager{total: map[string]int{"ph": 25}})
	typeText(m, "ph")
	require.Len(t, m.controller.Results(), 10)

	for i := 0; i < 5; i++ {
		_, cmd := m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
		drain(m, cmd)
	}

	assert.Len(t, m.controller.Results(), 20)
}

func TestModelTabBlursAndQuits(t *testing.T) {
	m := newTestModel(t, &stubPager{total: map[string]int{"ph": 3}})
	typeText(m, "ph")

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, inputtypes.ModeBlurred, m.inputHandler.CurrentMode())
	assert.False(t, m.controller.IsOpen(), "blur closes the dropdown after the delay")

	msgs := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Contains(t, msgs, tea.Msg(tea.QuitMsg{}))
	assert.Empty(t, m.View())
}

func TestModelStatusFromEvents(t *testing.T) {
	m := newTestModel(t, &stubPager{})

	m.Update(EventMsg{Event: domain.FetchFailedEvent{Query: "ph", Page: 2, Err: errors.New("x")}})

	assert.Contains(t, m.View(), `Could not load page 2 of "ph"`)
}

func TestModelHeaderShowsDeclaredTotal(t *testing.T) {
	m := newTestModel(t, &stubPager{total: map[string]int{"ph": 25}, declared: true})
	typeText(m, "ph")
	require.Len(t, m.controller.Results(), 10)

	assert.Contains(t, m.View(), "25 results")
}

func TestModelHoverOnLastRowLoadsMore(t *testing.T) {
	m := newTestModel(t, &stubPager{total: map[string]int{"ph": 15}})
	typeText(m, "ph")

	for i := 0; i < 4; i++ {
		_, cmd := m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
		drain(m, cmd)
	}
	start, _ := m.controller.Window()
	require.Equal(t, 4, start)

	// the sixth visible row holds the last loaded item
	_, cmd := m.Update(tea.MouseMsg{X: 5, Y: views.ListTop + 5, Action: tea.MouseActionMotion})
	drain(m, cmd)

	assert.Len(t, m.controller.Results(), 15)
}

func TestModelClickOnInputReopens(t *testing.T) {
	m := newTestModel(t, &stubPager{total: map[string]int{"ph": 3}})
	typeText(m, "ph")
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.controller.IsOpen())

	_, cmd := m.Update(tea.MouseMsg{X: 5, Y: views.HeaderHeight + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	drain(m, cmd)

	assert.True(t, m.controller.IsOpen())
	assert.Contains(t, m.View(), "ph 3")
}
