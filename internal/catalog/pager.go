// Package catalog fetches pages of search results from public catalog APIs.
//
// Two pagination protocols sit behind the one Pager interface:
// OffsetLimitPager for endpoints that take offset/limit and answer with a bare
// array, and PageNumberPager for endpoints that take a page number and answer
// with an envelope carrying a next-page pointer. A not-found answer means
// "nothing matches this filter" and yields an empty last page.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"combosearch/internal/config"
	"combosearch/internal/domain"
)

// Pager loads one page of results for a query
type Pager interface {
	// Load fetches page (1-based) of results matching query. pageSize is a
	// hint that page-number endpoints are free to ignore.
	Load(ctx context.Context, query string, page, pageSize int) (domain.Page, error)

	// Name identifies the endpoint, used in logs and cache keys
	Name() string
}

// Sentinel errors for errors.Is checks
var (
	ErrNetwork     = errors.New("network error")
	ErrBadResponse = errors.New("malformed response")
)

// FetchError identifies the query and page a failed load was for
type FetchError struct {
	Source string
	Query  string
	Page   int
	Status int // HTTP status, 0 when the request never completed
	Kind   error
	Err    error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s: page %d for %q", e.Source, e.Page, e.Query)
	if e.Status != 0 {
		msg += fmt.Sprintf(": status %d", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// New builds the pager for the configured source
func New(src config.SourceConfig, getter Getter) (Pager, error) {
	switch src.Kind {
	case config.SourceOffset:
		return NewOffsetLimitPager(getter, src.BaseURL), nil
	case config.SourcePage:
		return NewPageNumberPager(getter, src.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", src.Kind)
	}
}

func checkPageArgs(page, pageSize int) error {
	if page < 1 {
		return fmt.Errorf("page must be 1-based, got %d", page)
	}
	if pageSize < 1 {
		return fmt.Errorf("page size must be positive, got %d", pageSize)
	}
	return nil
}
