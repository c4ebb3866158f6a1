package domain

import "fmt"

// RuleViolation tags a rejected play or pass so callers can branch on the
// reason without parsing messages.
type RuleViolation string

const (
	ViolationGameNotInProgress      RuleViolation = "game_not_in_progress"
	ViolationNotYourTurn            RuleViolation = "not_your_turn"
	ViolationInvalidCardSelection   RuleViolation = "invalid_card_selection"
	ViolationCardNotInHand          RuleViolation = "card_not_in_hand"
	ViolationMustLeadWithThree      RuleViolation = "must_lead_with_3d"
	ViolationInvalidCombination     RuleViolation = "invalid_combination"
	ViolationCannotBeatLastPlay     RuleViolation = "cannot_beat_last_play"
	ViolationOneCardLeft            RuleViolation = "one_card_left"
	ViolationCannotPassWhileLeading RuleViolation = "cannot_pass_while_leading"
)

// RuleError is a player-facing rule violation. Validation never mutates
// state; the error is returned for the caller to surface.
type RuleError struct {
	Kind    RuleViolation
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

func violation(kind RuleViolation, format string, args ...interface{}) *RuleError {
	return &RuleError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ValidatePlay checks a proposed play for the seat against the full rule
// set, including the One Card Left anti-stalling rule.
func ValidatePlay(s *GameState, seat int, cards []Card) *RuleError {
	if s.GameOver || s.MatchEnded {
		return violation(ViolationGameNotInProgress, "no match is in progress")
	}
	if seat != s.CurrentPlayerIndex {
		return violation(ViolationNotYourTurn, "it is not %s's turn", s.Players[seat].Name)
	}
	if len(cards) == 0 {
		return violation(ViolationInvalidCardSelection, "no cards selected")
	}
	player := s.Players[seat]
	if !HandContains(player.Hand, cards) {
		return violation(ViolationCardNotInHand, "selected cards are not all in hand")
	}
	if s.IsFirstPlayOfGame && !containsCard(cards, ThreeOfDiamonds) {
		return violation(ViolationMustLeadWithThree, "the first play of the game must include the 3 of diamonds")
	}

	combo := Identify(cards)
	if combo.Type == ComboUnknown {
		return violation(ViolationInvalidCombination, "cards do not form a valid combination")
	}

	if s.LastPlay != nil {
		prev := Identify(s.LastPlay.Cards)
		if !CanBeat(prev, combo) {
			return violation(ViolationCannotBeatLastPlay, "play does not beat the %s on the table", prev.Type)
		}
	}

	if combo.Type == ComboSingle {
		if blocker := oneCardLeftSeat(s, seat); blocker >= 0 {
			if best, ok := bestSingleAgainst(player.Hand, s.LastPlay); ok && CardPower(cards[0]) < CardPower(best) {
				return violation(ViolationOneCardLeft,
					"%s has one card left: you must play your highest single (%s)",
					s.Players[blocker].Name, best)
			}
		}
	}

	return nil
}

// ValidatePass checks whether the seat may pass. Passing while leading is
// never legal, and the One Card Left rule blocks a pass whenever the next
// active player is one card from winning and a beating single is in hand.
func ValidatePass(s *GameState, seat int) *RuleError {
	if s.GameOver || s.MatchEnded {
		return violation(ViolationGameNotInProgress, "no match is in progress")
	}
	if seat != s.CurrentPlayerIndex {
		return violation(ViolationNotYourTurn, "it is not %s's turn", s.Players[seat].Name)
	}
	if s.LastPlay == nil {
		return violation(ViolationCannotPassWhileLeading, "cannot pass while leading the trick")
	}

	if blocker := oneCardLeftSeat(s, seat); blocker >= 0 {
		if best, ok := bestSingleAgainst(s.Players[seat].Hand, s.LastPlay); ok {
			return violation(ViolationOneCardLeft,
				"%s has one card left: you must play your highest single (%s) instead of passing",
				s.Players[blocker].Name, best)
		}
	}

	return nil
}

// oneCardLeftSeat returns the next active seat if it holds exactly one
// card, else -1.
func oneCardLeftSeat(s *GameState, seat int) int {
	next := NextActiveSeat(s, seat)
	if next >= 0 && len(s.Players[next].Hand) == 1 {
		return next
	}
	return -1
}

// bestSingleAgainst returns the highest card in hand that is legal as a
// single against the table. With an open trick any card qualifies; against
// a single on the table only a strictly higher card does. Multi-card plays
// on the table cannot be answered with a single, so no card qualifies.
func bestSingleAgainst(hand []Card, last *LastPlay) (Card, bool) {
	var best Card
	found := false
	threshold := int32(-1)
	if last != nil {
		if last.ComboType != ComboSingle {
			return Card{}, false
		}
		threshold = Identify(last.Cards).Value
	}
	for _, c := range hand {
		if CardPower(c) > threshold && (!found || CardPower(c) > CardPower(best)) {
			best = c
			found = true
		}
	}
	return best, found
}

func containsCard(cards []Card, target Card) bool {
	for _, c := range cards {
		if c == target {
			return true
		}
	}
	return false
}
