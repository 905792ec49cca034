package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"combosearch/internal/domain"
)

// product is the wire shape of one product from the offset/limit endpoint
type product struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    category `json:"category"`
	Images      []string `json:"images"`
}

type category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// OffsetLimitPager pages through an endpoint taking title, offset and limit
// query parameters and answering with a bare JSON array. A page is full when
// it returns exactly pageSize items; a full page means more may follow.
type OffsetLimitPager struct {
	getter  Getter
	baseURL string
}

// NewOffsetLimitPager creates a pager for baseURL
func NewOffsetLimitPager(getter Getter, baseURL string) *OffsetLimitPager {
	return &OffsetLimitPager{getter: getter, baseURL: baseURL}
}

func (p *OffsetLimitPager) Name() string {
	return "offset:" + p.baseURL
}

func (p *OffsetLimitPager) Load(ctx context.Context, query string, page, pageSize int) (domain.Page, error) {
	if err := checkPageArgs(page, pageSize); err != nil {
		return domain.Page{}, err
	}

	u, err := url.Parse(p.baseURL)
	if err != nil {
		return domain.Page{}, fmt.Errorf("invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("title", query)
	q.Set("offset", strconv.Itoa((page-1)*pageSize))
	q.Set("limit", strconv.Itoa(pageSize))
	u.RawQuery = q.Encode()

	status, body, err := p.getter.Get(ctx, u.String())
	if err != nil {
		return domain.Page{}, p.fail(query, page, 0, ErrNetwork, err)
	}
	switch {
	case status == http.StatusNotFound:
		return domain.EmptyPage(query, page), nil
	case status < 200 || status > 299:
		return domain.Page{}, p.fail(query, page, status, ErrNetwork, nil)
	}

	var products []product
	if err := json.Unmarshal(body, &products); err != nil {
		return domain.Page{}, p.fail(query, page, status, ErrBadResponse, err)
	}

	items := make([]domain.Item, 0, len(products))
	for _, pr := range products {
		items = append(items, pr.toItem())
	}
	return domain.Page{
		Query:   query,
		Index:   page,
		Items:   items,
		HasMore: len(items) == pageSize && len(items) > 0,
		Total:   len(items),
	}, nil
}

func (p *OffsetLimitPager) fail(query string, page, status int, kind, err error) *FetchError {
	return &FetchError{Source: p.Name(), Query: query, Page: page, Status: status, Kind: kind, Err: err}
}

func (pr product) toItem() domain.Item {
	price := fmt.Sprintf("$%.2f", pr.Price)
	item := domain.Item{
		ID:       strconv.Itoa(pr.ID),
		Label:    pr.Title,
		Subtitle: price + " · " + pr.Category.Name,
		Fields: []domain.Field{
			{Name: "Price", Value: price},
			{Name: "Category", Value: pr.Category.Name},
			{Name: "Slug", Value: pr.Slug},
		},
	}
	if pr.Description != "" {
		item.Fields = append(item.Fields, domain.Field{Name: "Description", Value: pr.Description})
	}
	if len(pr.Images) > 0 {
		item.Fields = append(item.Fields, domain.Field{Name: "Image", Value: pr.Images[0]})
	}
	return item
}
