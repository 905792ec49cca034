package search

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"combosearch/internal/domain"
	"combosearch/internal/eventbus"
)

// fakePager serves total[query] items labelled "<query> <n>" in pages of
// the requested size
type fakePager struct {
	mu    sync.Mutex
	total map[string]int
	fail  map[int]error
	calls []string
}

func newFakePager(total map[string]int) *fakePager {
	return &fakePager{total: total, fail: map[int]error{}}
}

func (p *fakePager) Name() string { return "fake" }

func (p *fakePager) Load(ctx context.Context, query string, page, pageSize int) (domain.Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, fmt.Sprintf("%s#%d", query, page))
	if err := p.fail[page]; err != nil {
		return domain.Page{}, err
	}

	items := []domain.Item{}
	for i := (page - 1) * pageSize; i < p.total[query] && i < page*pageSize; i++ {
		items = append(items, domain.Item{
			ID:    fmt.Sprintf("%s-%d", query, i+1),
			Label: fmt.Sprintf("%s %d", query, i+1),
		})
	}
	return domain.Page{
		Query:   query,
		Index:   page,
		Items:   items,
		HasMore: len(items) == pageSize && len(items) > 0,
		Total:   len(items),
	}, nil
}

func (p *fakePager) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// recordingBus keeps published events in order
type recordingBus struct {
	events []domain.DomainEvent
}

func (b *recordingBus) Publish(event eventbus.DomainEvent) {
	b.events = append(b.events, event)
}

func (b *recordingBus) Subscribe(eventbus.EventType, eventbus.EventHandler) func() {
	return func() {}
}

func (b *recordingBus) Close() {}

func (b *recordingBus) ofType(t domain.EventType) []domain.DomainEvent {
	var out []domain.DomainEvent
	for _, e := range b.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

func testOptions() Options {
	return Options{
		Variant:        VariantCombobox,
		Debounce:       time.Millisecond,
		BlurDelay:      time.Millisecond,
		MinQueryLength: 1,
		PageSize:       10,
		PreloadOnOpen:  false,
		FetchTimeout:   time.Second,
		VisibleItems:   6,
	}
}

func newTestController(t *testing.T, pager *fakePager, opts Options) (*Controller, *recordingBus) {
	t.Helper()
	bus := &recordingBus{}
	c := NewController(pager, bus, zap.NewNop(), opts)
	t.Cleanup(c.Dispose)
	return c, bus
}

// run executes cmd and feeds its message back, returning the follow-up
func run(c *Controller, cmd Cmd) Cmd {
	if cmd == nil {
		return nil
	}
	return c.Update(cmd())
}

// typeAndSettle types text, lets it settle and returns the fetch it started
func typeAndSettle(c *Controller, text string) Cmd {
	return run(c, c.SetQueryText(text))
}

func labels(items []domain.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}
