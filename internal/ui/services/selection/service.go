package selection

import "combosearch/internal/domain"

// DefaultLimit is how many selections are remembered
const DefaultLimit = 5

// Service keeps the selected item and a short history of earlier picks
type Service struct {
	state *State
	limit int
}

// NewService creates a new selection service remembering limit items
func NewService(limit int) *Service {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Service{
		state: &State{},
		limit: limit,
	}
}

// Record makes item the current selection and moves it to the front of
// the history
func (s *Service) Record(item domain.Item) {
	s.state.Current = &item

	recent := make([]domain.Item, 0, s.limit)
	recent = append(recent, item)
	for _, prev := range s.state.Recent {
		if len(recent) == s.limit {
			break
		}
		if prev.ID != item.ID {
			recent = append(recent, prev)
		}
	}
	s.state.Recent = recent
}

// Current returns the selected item
func (s *Service) Current() (domain.Item, bool) {
	if s.state.Current == nil {
		return domain.Item{}, false
	}
	return *s.state.Current, true
}

// Recent returns the selection history, most recent first
func (s *Service) Recent() []domain.Item {
	return s.state.Recent
}

// HasSelection returns true if anything was selected
func (s *Service) HasSelection() bool {
	return s.state.Current != nil
}

// Clear forgets the selection and its history
func (s *Service) Clear() {
	s.state = &State{}
}
