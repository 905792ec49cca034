// Package search implements the incremental search behind the dropdown:
// a debouncer for the raw query, a feed that accumulates pages for the
// settled query, a selection cursor with its scroll window, and the
// controller that ties them into the dropdown state machine.
//
// Nothing in this package blocks. Timers and HTTP calls are returned as Cmd
// functions; the caller runs them off its event loop and feeds the resulting
// messages back through Controller.Update.
package search

import (
	"time"

	"combosearch/internal/config"
)

// Msg is the result of a Cmd, delivered back to Controller.Update
type Msg interface{}

// Cmd performs asynchronous work and returns its result. A nil Cmd means
// there is nothing to do.
type Cmd func() Msg

// State is the dropdown state derived from the controller fields
type State int

const (
	StateClosed State = iota
	StateOpenEmpty
	StateOpenLoading
	StateOpenResults
	StateOpenNoResults
	StateOpenError
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpenEmpty:
		return "open-empty"
	case StateOpenLoading:
		return "open-loading"
	case StateOpenResults:
		return "open-results"
	case StateOpenNoResults:
		return "open-no-results"
	case StateOpenError:
		return "open-error"
	default:
		return "unknown"
	}
}

// FetchState tracks the page loads of the active query
type FetchState int

const (
	FetchIdle FetchState = iota
	FetchLoadingFirstPage
	FetchLoadingNextPage
	FetchError
)

func (s FetchState) String() string {
	switch s {
	case FetchIdle:
		return "idle"
	case FetchLoadingFirstPage:
		return "loadingFirstPage"
	case FetchLoadingNextPage:
		return "loadingNextPage"
	case FetchError:
		return "error"
	default:
		return "unknown"
	}
}

// Variant selects the open-on-focus behaviour
type Variant string

const (
	// VariantManual opens on focus only when results already exist
	VariantManual Variant = config.VariantManual
	// VariantCombobox opens on focus or click even with no results
	VariantCombobox Variant = config.VariantCombobox
)

// Options configures a Controller
type Options struct {
	Variant        Variant
	Debounce       time.Duration
	BlurDelay      time.Duration
	MinQueryLength int
	PageSize       int
	PreloadOnOpen  bool
	FetchTimeout   time.Duration // upper bound for one page load, retries included
	VisibleItems   int
}

// DefaultOptions returns the options of the default configuration
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

// OptionsFromConfig maps the application configuration to controller options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Variant:        Variant(cfg.UI.Variant),
		Debounce:       cfg.Debounce(),
		BlurDelay:      cfg.BlurDelay(),
		MinQueryLength: cfg.Search.MinQueryLength,
		PageSize:       cfg.Source.PageSize,
		PreloadOnOpen:  cfg.Search.PreloadOnOpen,
		FetchTimeout:   cfg.Timeout() * time.Duration(cfg.Client.Retries+1),
		VisibleItems:   cfg.UI.MaxVisibleItems,
	}
}
