package search

import (
	"time"

	"go.uber.org/zap"

	"combosearch/internal/catalog"
	"combosearch/internal/domain"
	"combosearch/internal/eventbus"
)

// BlurMsg is delivered when the blur grace delay ends
type BlurMsg struct {
	seq int
}

// Controller is the dropdown state machine. It is not safe for concurrent
// use: every method, Update included, must be called from one event loop.
type Controller struct {
	opts      Options
	feed      *Feed
	debouncer *Debouncer
	cursor    *Cursor
	bus       eventbus.EventBus
	logger    *zap.Logger

	text     string
	open     bool
	focused  bool
	blurSeq  int
	selected *domain.Item
}

// NewController creates a closed, unfocused controller over pager. bus may
// be nil.
func NewController(pager catalog.Pager, bus eventbus.EventBus, logger *zap.Logger, opts Options) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("search")
	if opts.Variant == "" {
		opts.Variant = VariantCombobox
	}
	if opts.PageSize < 1 {
		opts.PageSize = 1
	}
	return &Controller{
		opts:      opts,
		feed:      NewFeed(pager, opts.PageSize, opts.MinQueryLength, opts.FetchTimeout, logger),
		debouncer: NewDebouncer(opts.Debounce),
		cursor:    NewCursor(opts.VisibleItems),
		bus:       bus,
		logger:    logger,
	}
}

// Update applies the message of a finished Cmd. Unknown messages are ignored.
func (c *Controller) Update(msg Msg) Cmd {
	switch msg := msg.(type) {
	case SettledMsg:
		return c.settle(msg)
	case PageMsg:
		return c.applyPage(msg)
	case BlurMsg:
		if msg.seq == c.blurSeq && !c.focused {
			c.close()
		}
	}
	return nil
}

// SetQueryText replaces the raw query. Typing opens the dropdown; the
// search itself starts once the text settles.
func (c *Controller) SetQueryText(text string) Cmd {
	c.text = text
	c.open = true
	return c.debouncer.Update(text)
}

// Open opens the dropdown as a click on the input would
func (c *Controller) Open() Cmd {
	c.cancelBlur()
	cmd := c.preload()
	if len(c.feed.Items()) > 0 || c.opts.Variant == VariantCombobox {
		c.open = true
	}
	if cmd != nil {
		return cmd
	}
	return c.checkSentinel()
}

// Close closes the dropdown and clears the highlight
func (c *Controller) Close() {
	c.cancelBlur()
	c.close()
}

// Focus marks the input focused and opens like Open
func (c *Controller) Focus() Cmd {
	c.focused = true
	return c.Open()
}

// Blur marks the input unfocused and returns the grace timer after which
// the dropdown closes
func (c *Controller) Blur() Cmd {
	c.focused = false
	c.blurSeq++
	seq, delay := c.blurSeq, c.opts.BlurDelay
	return func() Msg {
		time.Sleep(delay)
		return BlurMsg{seq: seq}
	}
}

// MoveDown highlights the next result
func (c *Controller) MoveDown() Cmd {
	if !c.open || len(c.feed.Items()) == 0 {
		return nil
	}
	c.cursor.MoveDown()
	return c.checkSentinel()
}

// MoveUp highlights the previous result
func (c *Controller) MoveUp() Cmd {
	if !c.open || len(c.feed.Items()) == 0 {
		return nil
	}
	c.cursor.MoveUp()
	return c.checkSentinel()
}

// Hover highlights result i. Highlighting the last item scrolls the
// sentinel row into view, which may load the next page.
func (c *Controller) Hover(i int) Cmd {
	if !c.open {
		return nil
	}
	c.cursor.Hover(i)
	return c.checkSentinel()
}

// SelectCurrent picks the highlighted result
func (c *Controller) SelectCurrent() (domain.Item, bool) {
	i := c.cursor.Current()
	if !c.open || i == None || i >= len(c.feed.Items()) {
		return domain.Item{}, false
	}
	return c.choose(c.feed.Items()[i]), true
}

// Click picks result i
func (c *Controller) Click(i int) (domain.Item, bool) {
	if !c.open || i < 0 || i >= len(c.feed.Items()) {
		return domain.Item{}, false
	}
	c.cursor.Hover(i)
	return c.choose(c.feed.Items()[i]), true
}

// LoadMore requests the next page of the active query
func (c *Controller) LoadMore() Cmd {
	cmd := c.feed.LoadMore()
	c.syncCursor()
	return cmd
}

// Scroll moves the list window by delta rows
func (c *Controller) Scroll(delta int) Cmd {
	if !c.open {
		return nil
	}
	c.cursor.Scroll(delta)
	return c.checkSentinel()
}

// Resize sets the number of visible list rows
func (c *Controller) Resize(rows int) Cmd {
	c.cursor.SetHeight(rows)
	return c.checkSentinel()
}

// Dispose stops all pending timers
func (c *Controller) Dispose() {
	c.debouncer.Stop()
	c.blurSeq++
}

func (c *Controller) settle(msg SettledMsg) Cmd {
	query, ok := c.debouncer.Settle(msg)
	if !ok {
		return nil
	}
	c.publish(domain.QuerySettledEvent{Query: query})

	cmd, replaced := c.feed.Search(query, query == "" && c.opts.PreloadOnOpen)
	if replaced {
		c.logger.Debug("query settled", zap.String("query", query))
		c.cursor.Reset(len(c.feed.Items()), c.footer())
	}
	return cmd
}

func (c *Controller) applyPage(msg PageMsg) Cmd {
	if !c.feed.Apply(msg) {
		return nil
	}

	if msg.err != nil {
		c.logger.Warn("page load failed",
			zap.String("query", msg.query),
			zap.Int("page", msg.page),
			zap.Error(msg.err))
		c.publish(domain.FetchFailedEvent{Query: msg.query, Page: msg.page, Err: msg.err})
		c.syncCursor()
		return nil
	}

	c.publish(domain.PageLoadedEvent{
		Query:       msg.query,
		Page:        msg.page,
		Count:       len(msg.result.Items),
		HasMore:     msg.result.HasMore,
		Accumulated: len(c.feed.Items()),
	})
	if msg.page == 1 {
		c.cursor.Reset(len(c.feed.Items()), c.footer())
	} else {
		c.syncCursor()
	}
	return c.checkSentinel()
}

func (c *Controller) preload() Cmd {
	if c.text != "" || !c.opts.PreloadOnOpen || c.debouncer.Pending() {
		return nil
	}
	cmd, replaced := c.feed.Search("", true)
	if replaced {
		c.cursor.Reset(0, false)
	}
	return cmd
}

func (c *Controller) choose(item domain.Item) domain.Item {
	c.debouncer.Cancel()
	c.cancelBlur()
	c.text = item.Label
	c.selected = &item
	c.close()
	c.logger.Info("item selected", zap.String("id", item.ID), zap.String("label", item.Label))
	c.publish(domain.ItemSelectedEvent{Item: item})
	return item
}

func (c *Controller) close() {
	c.open = false
	c.cursor.Reset(len(c.feed.Items()), c.footer())
}

func (c *Controller) cancelBlur() {
	c.blurSeq++
}

// checkSentinel loads the next page when the sentinel row scrolled into view
func (c *Controller) checkSentinel() Cmd {
	if !c.open || !c.cursor.SentinelVisible() || !c.feed.CanLoadMore() {
		return nil
	}
	return c.LoadMore()
}

func (c *Controller) footer() bool {
	return c.feed.HasMore() || c.feed.State() == FetchLoadingNextPage
}

func (c *Controller) syncCursor() {
	c.cursor.SetCount(len(c.feed.Items()), c.footer())
}

func (c *Controller) publish(event domain.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(event)
	}
}

// QueryText returns the raw input text
func (c *Controller) QueryText() string { return c.text }

// ActiveQuery returns the settled query the results belong to
func (c *Controller) ActiveQuery() string { return c.feed.Query() }

// Results returns the accumulated result set
func (c *Controller) Results() []domain.Item { return c.feed.Items() }

// FetchState returns the state of the page loads
func (c *Controller) FetchState() FetchState { return c.feed.State() }

// HasMore reports whether more pages can be loaded
func (c *Controller) HasMore() bool { return c.feed.HasMore() }

// Total returns the server-declared number of matches, when known
func (c *Controller) Total() int { return c.feed.Total() }

// Err returns the error of the last failed load
func (c *Controller) Err() error { return c.feed.Err() }

// Cursor returns the highlighted index or None
func (c *Controller) Cursor() int { return c.cursor.Current() }

// Window returns the visible result range [start, end)
func (c *Controller) Window() (int, int) { return c.cursor.Window() }

// FooterVisible reports whether the row after the last result is in view
func (c *Controller) FooterVisible() bool { return c.cursor.SentinelVisible() }

// IsOpen reports whether the dropdown is open
func (c *Controller) IsOpen() bool { return c.open }

// Focused reports whether the input has focus
func (c *Controller) Focused() bool { return c.focused }

// Selected returns the last selected item, if any
func (c *Controller) Selected() (domain.Item, bool) {
	if c.selected == nil {
		return domain.Item{}, false
	}
	return *c.selected, true
}

// Variant returns the configured variant
func (c *Controller) Variant() Variant { return c.opts.Variant }

// State derives the dropdown state
func (c *Controller) State() State {
	switch {
	case !c.open:
		return StateClosed
	case c.feed.State() == FetchError:
		return StateOpenError
	case len(c.feed.Items()) > 0:
		return StateOpenResults
	case c.feed.State() == FetchLoadingFirstPage:
		return StateOpenLoading
	case c.feed.Fetched():
		return StateOpenNoResults
	default:
		return StateOpenEmpty
	}
}

// ShowNoResults reports whether the no-results line should be shown. The
// combobox variant hides it for queries below the minimum length.
func (c *Controller) ShowNoResults() bool {
	if c.State() != StateOpenNoResults {
		return false
	}
	if c.opts.Variant == VariantCombobox {
		return len([]rune(c.text)) >= c.opts.MinQueryLength
	}
	return true
}
