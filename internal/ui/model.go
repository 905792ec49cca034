package ui

import (
	"fmt"
	"net/url"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"combosearch/internal/config"
	"combosearch/internal/domain"
	"combosearch/internal/eventbus"
	"combosearch/internal/search"
	"combosearch/internal/ui/handlers"
	"combosearch/internal/ui/input"
	inputtypes "combosearch/internal/ui/input/types"
	"combosearch/internal/ui/services/selection"
	"combosearch/internal/ui/views"
)

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	logger *zap.Logger

	width       int
	height      int
	help        help.Model
	spinner     spinner.Model
	spinning    bool
	inPagerMode bool // tracks if we're currently in pager mode
	quitting    bool

	// Handlers
	controller   *search.Controller     // dropdown state machine
	inputHandler *input.Handler         // input handling
	selection    *selection.Service     // selected item and history
	renderer     *views.Renderer        // view renderer
	helpRenderer *HelpRenderer          // pager content
	eventHandler *handlers.EventHandler // event processing handler
	pager        *PagerOps              // ov pager

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, controller *search.Controller, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Model{
		bus:          bus,
		config:       cfg,
		logger:       logger.Named("ui"),
		help:         help.New(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99")))),
		controller:   controller,
		inputHandler: input.New(cfg.UI.Placeholder),
		selection:    selection.NewService(selection.DefaultLimit),
		renderer:     views.NewRenderer(),
		helpRenderer: NewHelpRenderer(),
		eventHandler: handlers.NewEventHandler(),
		pager:        NewPagerOps(),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

// Selected returns the item picked last, if any
func (m *Model) Selected() (domain.Item, bool) {
	return m.selection.Current()
}

// Init focuses the search box
func (m *Model) Init() tea.Cmd {
	actions, cmd := m.inputHandler.ChangeMode(inputtypes.ModeFocused, m)
	return m.withSpinner(tea.Batch(m.inputHandler.Init(), cmd, m.processActions(actions)))
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.inputHandler.SetWidth(views.BoxWidth(msg.Width) - 8)
		rows := views.ListRows(msg.Height, m.config.UI.MaxVisibleItems)
		return m, m.withSpinner(wrap(m.controller.Resize(rows)))

	case tea.KeyMsg:
		if m.inPagerMode {
			return m, nil
		}
		actions, cmd := m.inputHandler.HandleKey(msg, m)
		return m, m.withSpinner(tea.Batch(cmd, m.processActions(actions)))

	case tea.MouseMsg:
		if m.inPagerMode {
			return m, nil
		}
		return m, m.withSpinner(m.handleMouse(msg))

	case tea.FocusMsg:
		if m.inputHandler.CurrentMode() == inputtypes.ModeFocused {
			return m, m.withSpinner(wrap(m.controller.Focus()))
		}
		return m, nil

	case tea.BlurMsg:
		if m.inputHandler.CurrentMode() == inputtypes.ModeFocused {
			return m, wrap(m.controller.Blur())
		}
		return m, nil

	case controllerMsg:
		return m, m.withSpinner(wrap(m.controller.Update(msg.msg)))

	case spinner.TickMsg:
		if !m.loading() || m.inPagerMode {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		return m.handleNonKeyboardMsg(msg)
	}
}

func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return m, m.eventHandler.HandleEvent(msg.Event)

	case handlers.ClearStatusMsg:
		m.eventHandler.HandleClear(msg)
		return m, nil

	case pagerMsg:
		if msg.err != nil {
			// Pager failed: log only
			m.logger.Warn("pager failed", zap.Error(msg.err))
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	default:
		// cursor blink and other text input messages
		return m, m.inputHandler.Update(msg)
	}
}

func (m *Model) processActions(actions []inputtypes.Action) tea.Cmd {
	var cmds []tea.Cmd
	for _, action := range actions {
		cmds = append(cmds, m.processAction(action))
	}
	return tea.Batch(cmds...)
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.UpdateTextAction:
		return wrap(m.controller.SetQueryText(a.Text))

	case inputtypes.MoveAction:
		if a.Direction == "up" {
			return wrap(m.controller.MoveUp())
		}
		return wrap(m.controller.MoveDown())

	case inputtypes.SelectAction:
		if item, ok := m.controller.SelectCurrent(); ok {
			m.onSelected(item)
		}

	case inputtypes.CloseAction:
		m.controller.Close()

	case inputtypes.OpenAction:
		return wrap(m.controller.Open())

	case inputtypes.FocusAction:
		return wrap(m.controller.Focus())

	case inputtypes.BlurAction:
		return wrap(m.controller.Blur())

	case inputtypes.ShowHelpAction:
		content := m.helpRenderer.RenderHelpContent(m.inputHandler.Keys(), m.config.UI.Variant, m.config.Search.MinQueryLength)
		return m.showInPager(content)

	case inputtypes.ShowDetailsAction:
		if item, ok := m.selection.Current(); ok {
			return m.showInPager(m.helpRenderer.RenderDetailsContent(item))
		}

	case inputtypes.QuitAction:
		m.logger.Info("quit", zap.Bool("force", a.Force))
		m.quitting = true
		m.controller.Dispose()
		return tea.Quit

	default:
		m.logger.Debug("unhandled action", zap.String("type", action.Type()))
	}
	return nil
}

func (m *Model) onSelected(item domain.Item) {
	m.inputHandler.SetValue(item.Label)
	m.selection.Record(item)
}

// handleMouse maps hover, click and wheel onto the dropdown
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return wrap(m.controller.Scroll(-1))
	case tea.MouseButtonWheelDown:
		return wrap(m.controller.Scroll(1))
	}

	index, onList := m.resultAt(msg.Y)
	switch msg.Action {
	case tea.MouseActionMotion:
		if onList {
			return wrap(m.controller.Hover(index))
		}

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		switch {
		case onList:
			if item, ok := m.controller.Click(index); ok {
				m.onSelected(item)
			}
		case m.onInput(msg.Y):
			actions, cmd := m.inputHandler.ClickInput(m)
			return tea.Batch(cmd, m.processActions(actions))
		default:
			// clicking elsewhere moves focus away from the search box
			actions, cmd := m.inputHandler.ChangeMode(inputtypes.ModeBlurred, m)
			return tea.Batch(cmd, m.processActions(actions))
		}
	}
	return nil
}

// resultAt maps a screen row to a result index
func (m *Model) resultAt(y int) (int, bool) {
	if !m.controller.IsOpen() || len(m.controller.Results()) == 0 {
		return 0, false
	}
	start, end := m.controller.Window()
	row := y - views.ListTop
	if row < 0 || row >= end-start {
		return 0, false
	}
	return start + row, true
}

func (m *Model) onInput(y int) bool {
	return y >= views.HeaderHeight && y < views.HeaderHeight+views.InputHeight
}

// showInPager returns a command that shows content using ov pager
func (m *Model) showInPager(content string) tea.Cmd {
	if m.program == nil {
		m.logger.Warn("pager requested without a program")
		return nil
	}
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.pager.ShowInPager(content)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return pagerMsg{err: err}
	}
}

func (m *Model) loading() bool {
	switch m.controller.FetchState() {
	case search.FetchLoadingFirstPage, search.FetchLoadingNextPage:
		return true
	}
	return false
}

// withSpinner starts the spinner when a load is in flight
func (m *Model) withSpinner(cmd tea.Cmd) tea.Cmd {
	if m.spinning || !m.loading() {
		return cmd
	}
	m.spinning = true
	return tea.Batch(cmd, m.spinner.Tick)
}

// Context implementation for the input handler

func (m *Model) IsOpen() bool {
	return m.controller.IsOpen()
}

func (m *Model) HasResults() bool {
	return len(m.controller.Results()) > 0
}

func (m *Model) HasSelection() bool {
	return m.selection.HasSelection()
}

// View renders the UI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	start, end := m.controller.Window()
	state := views.ViewState{
		Width:   m.width,
		Height:  m.height,
		Title:   "combosearch",
		Source:  m.sourceLabel(),
		Variant: m.config.UI.Variant,
		Input:   m.inputHandler.View(),
		Focused: m.inputHandler.CurrentMode() == inputtypes.ModeFocused,
		Dropdown: views.Dropdown{
			State:         m.controller.State(),
			Items:         m.controller.Results(),
			Start:         start,
			End:           end,
			Cursor:        m.controller.Cursor(),
			Query:         m.controller.ActiveQuery(),
			MinLength:     m.config.Search.MinQueryLength,
			ShowNoResults: m.controller.ShowNoResults(),
			LoadingMore:   m.controller.FetchState() == search.FetchLoadingNextPage,
			FooterVisible: m.controller.FooterVisible(),
			Err:           m.controller.Err(),
			Spinner:       m.spinner.View(),
		},
		Recent: m.selection.Recent(),
		Status: m.eventHandler.Status().Message,
		Help:   m.help.View(m.inputHandler.Keys()),
	}
	if item, ok := m.selection.Current(); ok {
		state.Selected = &item
	}
	return m.renderer.Render(state)
}

// sourceLabel names the catalog and how much of it is loaded
func (m *Model) sourceLabel() string {
	label := m.config.Source.Kind
	if u, err := url.Parse(m.config.Source.BaseURL); err == nil && u.Host != "" {
		label = u.Host
	}
	status := m.eventHandler.Status()
	switch {
	case m.controller.Total() > len(m.controller.Results()):
		// the server declared its count with the first page
		label += fmt.Sprintf(" · %d results", m.controller.Total())
	case status.Total > 0:
		label += fmt.Sprintf(" · %d results", status.Total)
	case status.Loaded > 0:
		label += fmt.Sprintf(" · %d+ results", status.Loaded)
	}
	return label
}
