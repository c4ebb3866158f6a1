package domain

// DefaultScoreLimit ends the game the moment any cumulative score reaches it.
const DefaultScoreLimit = 101

// PointsPerCard returns the per-card penalty band for a losing hand size:
// 1 point for 1-4 cards, 2 for 5-9, 3 for 10-13.
func PointsPerCard(cardsRemaining int) int {
	switch {
	case cardsRemaining <= 0:
		return 0
	case cardsRemaining <= 4:
		return 1
	case cardsRemaining <= 9:
		return 2
	default:
		return 3
	}
}

// MatchPenalty is the score a losing player takes at match end. The match
// winner always scores zero.
func MatchPenalty(cardsRemaining int) int {
	return cardsRemaining * PointsPerCard(cardsRemaining)
}

// ComboUsage tallies combo types per player from a match's round history.
// Passes are skipped.
func ComboUsage(history []RoundHistoryEntry) map[string]map[ComboType]int {
	out := make(map[string]map[ComboType]int)
	for _, e := range history {
		if e.Passed {
			continue
		}
		if out[e.PlayerID] == nil {
			out[e.PlayerID] = make(map[ComboType]int)
		}
		out[e.PlayerID][e.ComboType]++
	}
	return out
}

// FinalWinnerIndex picks the player with the lowest cumulative score. Ties
// resolve to the lowest seat index.
func FinalWinnerIndex(scores []*PlayerMatchScore) int {
	winner := -1
	for i, sc := range scores {
		if winner < 0 || sc.Score < scores[winner].Score {
			winner = i
		}
	}
	return winner
}

// FinishPositions ranks seats by ascending cumulative score, ties to the
// lower seat. Position 1 is best.
func FinishPositions(scores []*PlayerMatchScore) []int {
	positions := make([]int, len(scores))
	for i, sc := range scores {
		pos := 1
		for j, other := range scores {
			if other.Score < sc.Score || (other.Score == sc.Score && j < i) {
				pos++
			}
		}
		positions[i] = pos
	}
	return positions
}
