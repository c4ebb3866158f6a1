package bot

// NewBrain returns the strategy for a difficulty label. Unknown labels fall
// back to the greedy strategy so a misconfigured bot still takes turns.
func NewBrain(difficulty string) Brain {
	switch difficulty {
	case "hard":
		return CautiousBrain{}
	case "easy", "medium":
		return GreedyBrain{}
	default:
		return GreedyBrain{}
	}
}
