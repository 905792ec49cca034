package domain

// Item is one search result. The search controller only ever looks at ID
// and Label; the remaining fields are for presentation.
type Item struct {
	ID       string
	Label    string
	Subtitle string  // secondary line shown under the label
	Fields   []Field // ordered details for the item card / details pager
}

// Field is a single named detail of an item
type Field struct {
	Name  string
	Value string
}

// Page is one fetched page of results for a query
type Page struct {
	Query   string
	Index   int // 1-based
	Items   []Item
	HasMore bool
	Total   int // server-declared total when known, otherwise len(Items)
}

// EmptyPage returns an empty last page for the query
func EmptyPage(query string, index int) Page {
	return Page{
		Query: query,
		Index: index,
		Items: []Item{},
	}
}
