package momentum

import (
	"sort"

	"github.com/etfdca/trader/internal/domain"
)

// SelectBest ranks scored candidates descending by composite score and
// returns the winner.
//
// Scores arrive in universe order and the sort is stable, so ties resolve
// to the first-listed instrument. This keeps selection deterministic and
// reproducible.
func SelectBest(scores []domain.MomentumScore) (domain.MomentumScore, error) {
	if len(scores) == 0 {
		return domain.MomentumScore{}, domain.ErrNoValidCandidates
	}

	ranked := make([]domain.MomentumScore, len(scores))
	copy(ranked, scores)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked[0], nil
}
