package duel

import "fmt"

// Outcome 从玩家视角的对决结果
type Outcome int

const (
	OutcomeDraw Outcome = iota
	OutcomeWin
	OutcomeLose
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "Win"
	case OutcomeLose:
		return "Lose"
	case OutcomeDraw:
		return "Draw"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Resolve 计算玩家牌对电脑牌的结果。同 id 或同属性为平局；
// 关系缺失说明目录配置有问题，返回 ErrUndefinedMatchup 而不是默认平局。
func Resolve(player, opponent CardDefinition) (Outcome, error) {
	if player.ID == opponent.ID || player.Type == opponent.Type {
		return OutcomeDraw, nil
	}
	if player.Beats(opponent.Type) {
		return OutcomeWin, nil
	}
	if player.LosesTo(opponent.Type) {
		return OutcomeLose, nil
	}
	return OutcomeDraw, newError(CodeUndefinedMatchup, "no relation between %s and %s", player.Type, opponent.Type)
}
