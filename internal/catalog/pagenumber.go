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

// envelope is the wire shape of the page-number endpoint
type envelope struct {
	Info struct {
		Count int     `json:"count"`
		Pages int     `json:"pages"`
		Next  *string `json:"next"`
		Prev  *string `json:"prev"`
	} `json:"info"`
	Results []character `json:"results"`
}

type character struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Species  string   `json:"species"`
	Type     string   `json:"type"`
	Gender   string   `json:"gender"`
	Origin   place    `json:"origin"`
	Location place    `json:"location"`
	Image    string   `json:"image"`
	Episode  []string `json:"episode"`
}

type place struct {
	Name string `json:"name"`
}

// PageNumberPager pages through an endpoint taking name and page query
// parameters. The server fixes the page size; more pages exist exactly when
// the envelope carries a next pointer.
type PageNumberPager struct {
	getter  Getter
	baseURL string
}

// NewPageNumberPager creates a pager for baseURL
func NewPageNumberPager(getter Getter, baseURL string) *PageNumberPager {
	return &PageNumberPager{getter: getter, baseURL: baseURL}
}

func (p *PageNumberPager) Name() string {
	return "page:" + p.baseURL
}

func (p *PageNumberPager) Load(ctx context.Context, query string, page, pageSize int) (domain.Page, error) {
	if err := checkPageArgs(page, pageSize); err != nil {
		return domain.Page{}, err
	}

	u, err := url.Parse(p.baseURL)
	if err != nil {
		return domain.Page{}, fmt.Errorf("invalid base url: %w", err)
	}
	q := u.Query()
	if query != "" {
		q.Set("name", query)
	}
	q.Set("page", strconv.Itoa(page))
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

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return domain.Page{}, p.fail(query, page, status, ErrBadResponse, err)
	}

	items := make([]domain.Item, 0, len(env.Results))
	for _, c := range env.Results {
		items = append(items, c.toItem())
	}
	return domain.Page{
		Query:   query,
		Index:   page,
		Items:   items,
		HasMore: env.Info.Next != nil && *env.Info.Next != "",
		Total:   env.Info.Count,
	}, nil
}

func (p *PageNumberPager) fail(query string, page, status int, kind, err error) *FetchError {
	return &FetchError{Source: p.Name(), Query: query, Page: page, Status: status, Kind: kind, Err: err}
}

func (c character) toItem() domain.Item {
	item := domain.Item{
		ID:       strconv.Itoa(c.ID),
		Label:    c.Name,
		Subtitle: c.Status + " · " + c.Species,
		Fields: []domain.Field{
			{Name: "Status", Value: c.Status},
			{Name: "Species", Value: c.Species},
		},
	}
	if c.Type != "" {
		item.Fields = append(item.Fields, domain.Field{Name: "Type", Value: c.Type})
	}
	item.Fields = append(item.Fields,
		domain.Field{Name: "Gender", Value: c.Gender},
		domain.Field{Name: "Origin", Value: c.Origin.Name},
		domain.Field{Name: "Location", Value: c.Location.Name},
		domain.Field{Name: "Episodes", Value: strconv.Itoa(len(c.Episode))},
	)
	if c.Image != "" {
		item.Fields = append(item.Fields, domain.Field{Name: "Image", Value: c.Image})
	}
	return item
}
