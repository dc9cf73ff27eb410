package allocator

import "github.com/pauljones0/steam-deal-digest/internal/models"

// State tracks the games already claimed by earlier blocks in one allocation run.
// It is not safe for concurrent use; concurrent runs need their own State.
type State struct {
	used map[models.DedupKey]struct{}
}

func NewState() *State {
	return &State{used: make(map[models.DedupKey]struct{})}
}

// IsUsed reports whether the row's game was already assigned. Rows without a key are never used.
func (s *State) IsUsed(p *models.Product) bool {
	k, ok := p.DedupKey()
	if !ok {
		return false
	}
	_, used := s.used[k]
	return used
}

// Claim marks every row as assigned.
func (s *State) Claim(rows []models.Product) {
	for i := range rows {
		if k, ok := rows[i].DedupKey(); ok {
			s.used[k] = struct{}{}
		}
	}
}

// Len is the number of distinct games claimed so far.
func (s *State) Len() int {
	return len(s.used)
}

// Unused returns the rows whose game has not been claimed, in order.
func (s *State) Unused(rows []models.Product) []models.Product {
	out := make([]models.Product, 0, len(rows))
	for i := range rows {
		if !s.IsUsed(&rows[i]) {
			out = append(out, rows[i])
		}
	}
	return out
}
