package duel

import "fmt"

// Phase 回合阶段
type Phase int

const (
	PhaseDealing Phase = iota
	PhaseAwaitingSelection
	PhaseAwaitingConfirmation
	PhaseResolved
)

var phaseNames = map[Phase]string{
	PhaseDealing:              "dealing",
	PhaseAwaitingSelection:    "awaiting_selection",
	PhaseAwaitingConfirmation: "awaiting_confirmation",
	PhaseResolved:             "resolved",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// ParsePhase 解析 String 的输出
func ParsePhase(s string) (Phase, error) {
	for p, name := range phaseNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

type action string

const (
	actionStartRound action = "start_round"
	actionSelect     action = "select"
	actionConfirm    action = "confirm"
	actionResetRound action = "reset_round"
	actionAbandon    action = "abandon"
)

// 状态转移表，表外的调用一律拒绝
var transitions = map[Phase]map[action]Phase{
	PhaseDealing: {
		actionStartRound: PhaseAwaitingSelection,
	},
	PhaseAwaitingSelection: {
		actionSelect:  PhaseAwaitingConfirmation,
		actionAbandon: PhaseDealing,
	},
	PhaseAwaitingConfirmation: {
		actionSelect:  PhaseAwaitingConfirmation,
		actionConfirm: PhaseResolved,
		actionAbandon: PhaseDealing,
	},
	PhaseResolved: {
		actionResetRound: PhaseDealing,
	},
}

func (p Phase) next(a action) (Phase, error) {
	if to, ok := transitions[p][a]; ok {
		return to, nil
	}
	switch {
	case p == PhaseResolved:
		return p, newError(CodeRoundAlreadyResolved, "%s: round already resolved", a)
	case a == actionConfirm && p == PhaseAwaitingSelection:
		return p, newError(CodeNoSelection, "confirm: no card selected")
	case a == actionSelect:
		return p, newError(CodeInvalidSelection, "select: not accepted in phase %s", p)
	}
	return p, newError(CodeInvalidPhase, "%s: not accepted in phase %s", a, p)
}
