package duel

// Score 胜负计数
type Score struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Ledger 会话级计分，只在显式重置会话时清零，回合重置不影响
type Ledger struct {
	score Score
}

// Apply 记录一次结果，平局不计
func (l *Ledger) Apply(o Outcome) {
	switch o {
	case OutcomeWin:
		l.score.Wins++
	case OutcomeLose:
		l.score.Losses++
	}
}

func (l *Ledger) Snapshot() Score { return l.score }

func (l *Ledger) Reset() { l.score = Score{} }
