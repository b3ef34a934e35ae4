package tiers

// Precedence ranks tiers by their position in a lifelist's configured order: the first
// tier ranks highest. Tiers absent from the order rank 0, below every configured tier.
type Precedence struct {
	rank map[string]int
}

// NewPrecedence builds a ranking from an ordered tier list.
func NewPrecedence(order []string) Precedence {
	rank := make(map[string]int, len(order))
	for i, tier := range order {
		if _, seen := rank[tier]; seen {
			continue
		}
		rank[tier] = len(order) - i
	}
	return Precedence{rank: rank}
}

// Rank returns the rank of tier; higher wins. Unknown tiers rank 0.
func (p Precedence) Rank(tier string) int {
	return p.rank[tier]
}

// Resolve returns whichever of current and candidate ranks higher. On a tie current is kept.
func (p Precedence) Resolve(current, candidate string) string {
	if p.Rank(candidate) > p.Rank(current) {
		return candidate
	}
	return current
}

// Resolve is a one-shot form of NewPrecedence(order).Resolve(current, candidate).
func Resolve(order []string, current, candidate string) string {
	return NewPrecedence(order).Resolve(current, candidate)
}
