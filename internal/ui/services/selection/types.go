package selection

import "combosearch/internal/domain"

// State holds selection state
type State struct {
	Current *domain.Item
	Recent  []domain.Item // most recent first, current included
}
