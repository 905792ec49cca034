package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"combosearch/internal/catalog"
	"combosearch/internal/config"
	"combosearch/internal/eventbus"
	"combosearch/internal/logging"
	"combosearch/internal/search"
	"combosearch/internal/ui"
)

func main() {
	// Parse command line arguments
	var (
		configPath string
		source     string
		variant    string
		baseURL    string
		debug      bool
	)
	flag.StringVar(&configPath, "config", "", "Path to the config file")
	flag.StringVar(&source, "source", "", "Catalog to search: offset (products) or page (characters)")
	flag.StringVar(&variant, "variant", "", "Dropdown behaviour: manual or combobox")
	flag.StringVar(&baseURL, "url", "", "Override the catalog endpoint")
	flag.BoolVar(&debug, "debug", false, "Log at debug level")
	flag.Parse()

	// Settings come first: they choose the log file
	bootSvc := config.NewConfigServiceWithBus(nil, configPath)
	_, statErr := os.Stat(bootSvc.Path())
	firstRun := errors.Is(statErr, os.ErrNotExist)
	stored, err := bootSvc.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	// flags shape this run only; stored is what a first run writes
	cfg := config.Overrides{
		Source:  source,
		Variant: variant,
		BaseURL: baseURL,
		Debug:   debug,
	}.Apply(stored)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %v\n", err)
		os.Exit(2)
	}

	// Set up logging
	logger, err := logging.New(logging.Options{File: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
		logger = zap.NewNop()
	}
	defer func() { _ = logger.Sync() }()

	// Create event bus
	bus := eventbus.New(logger)
	defer bus.Close()
	configSvc := config.NewConfigServiceWithBus(bus, bootSvc.Path())

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pager, err := newPager(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("starting",
		zap.String("source", pager.Name()),
		zap.String("variant", cfg.UI.Variant),
		zap.String("config", configSvc.Path()))

	controller := search.NewController(pager, bus, logger, search.OptionsFromConfig(cfg))
	uiModel := ui.NewModel(bus, cfg, controller, logger)

	// Create Bubble Tea program
	p := tea.NewProgram(uiModel,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx))
	uiModel.SetProgram(p)

	// Forward domain events to the UI
	forward := func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	}
	for _, t := range []eventbus.EventType{
		eventbus.EventQuerySettled,
		eventbus.EventPageLoaded,
		eventbus.EventFetchFailed,
		eventbus.EventItemSelected,
		eventbus.EventConfigLoaded,
		eventbus.EventConfigSaved,
	} {
		bus.Subscribe(t, forward)
	}
	bus.Subscribe(eventbus.EventItemSelected, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ItemSelectedEvent); ok {
			logger.Info("item selected", zap.String("id", event.Item.ID), zap.String("label", event.Item.Label))
		}
	})

	// Announce the settings; a first run also writes the defaults
	if firstRun {
		if err := configSvc.Save(stored); err != nil {
			logger.Warn("could not write default config", zap.Error(err))
		}
	} else {
		bus.Publish(eventbus.ConfigLoadedEvent{Path: configSvc.Path(), Source: cfg.Source.Kind})
	}

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("program failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	logger.Info("exited")

	// Print the choice so the tool composes in pipelines
	if item, ok := uiModel.Selected(); ok {
		fmt.Println(item.Label)
	}
}

// newPager builds the catalog pager stack: HTTP client, protocol, cache
func newPager(cfg *config.Config, logger *zap.Logger) (catalog.Pager, error) {
	clientConfig := catalog.DefaultClientConfig()
	clientConfig.Timeout = cfg.Timeout()
	clientConfig.RequestsPerSecond = cfg.Client.RequestsPerSecond
	clientConfig.Burst = cfg.Client.Burst
	clientConfig.Retries = cfg.Client.Retries
	clientConfig.UserAgent = cfg.Client.UserAgent
	client := catalog.NewClient(clientConfig, logger)

	pager, err := catalog.New(cfg.Source, client)
	if err != nil {
		return nil, err
	}
	return catalog.NewCachingPager(pager, cfg.CacheTTL(), logger), nil
}
