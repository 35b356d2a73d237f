package duel

import "golang.org/x/exp/slices"

// DuelResult 一个回合的结算结果，生成后不再修改
type DuelResult struct {
	Round        int            `json:"round"`
	Outcome      Outcome        `json:"outcome"`
	PlayerCard   CardDefinition `json:"playerCard"`
	OpponentCard CardDefinition `json:"opponentCard"`
}

// RoundStart 开局时暴露给展示层的信息，电脑手牌只给数量
type RoundStart struct {
	PlayerHand       []CardDefinition
	ComputerHandSize int
}

// Session 一名玩家对电脑的对局。Session 不做并发控制，调用方需保证串行调用。
type Session struct {
	catalog *Catalog
	dealer  *Dealer
	rng     RandomSource

	phase        Phase
	round        int
	playerHand   []int
	computerHand []int
	selected     int
	hasSelection bool
	result       *DuelResult
	ledger       Ledger
}

// NewSession 新建对局，初始阶段为 Dealing
func NewSession(catalog *Catalog, dealer *Dealer, rng RandomSource) *Session {
	return &Session{
		catalog: catalog,
		dealer:  dealer,
		rng:     rng,
		phase:   PhaseDealing,
	}
}

// StartRound 给双方各发 handSize 张牌，进入 AwaitingSelection
func (s *Session) StartRound(handSize int) (RoundStart, error) {
	to, err := s.phase.next(actionStartRound)
	if err != nil {
		return RoundStart{}, err
	}
	player, err := s.dealer.Deal(handSize, s.rng)
	if err != nil {
		return RoundStart{}, err
	}
	computer, err := s.dealer.Deal(handSize, s.rng)
	if err != nil {
		return RoundStart{}, err
	}

	s.playerHand = player
	s.computerHand = computer
	s.clearSelection()
	s.result = nil
	s.round++
	s.phase = to

	return RoundStart{PlayerHand: s.PlayerHand(), ComputerHandSize: len(s.computerHand)}, nil
}

// Select 选择手牌中的一张。确认前可以反复改选，但不能撤回为“未选择”
func (s *Session) Select(cardID int) error {
	to, err := s.phase.next(actionSelect)
	if err != nil {
		return err
	}
	if !slices.Contains(s.playerHand, cardID) {
		return newError(CodeInvalidSelection, "card %d is not in hand", cardID)
	}
	s.selected = cardID
	s.hasSelection = true
	s.phase = to
	return nil
}

// Confirm 锁定选择：为电脑抽一张牌，结算并计分，进入 Resolved
func (s *Session) Confirm() (DuelResult, error) {
	to, err := s.phase.next(actionConfirm)
	if err != nil {
		return DuelResult{}, err
	}
	if !s.hasSelection {
		return DuelResult{}, newError(CodeNoSelection, "confirm: no card selected")
	}
	player, err := s.catalog.Lookup(s.selected)
	if err != nil {
		return DuelResult{}, err
	}
	opponent, err := s.dealer.Draw(s.rng)
	if err != nil {
		return DuelResult{}, err
	}
	outcome, err := Resolve(player, opponent)
	if err != nil {
		return DuelResult{}, err
	}

	s.ledger.Apply(outcome)
	s.result = &DuelResult{
		Round:        s.round,
		Outcome:      outcome,
		PlayerCard:   player,
		OpponentCard: opponent,
	}
	s.phase = to
	return *s.result, nil
}

// ResetRound 清空手牌、选择和结果，回到 Dealing。只在 Resolved 阶段可用
func (s *Session) ResetRound() error {
	to, err := s.phase.next(actionResetRound)
	if err != nil {
		return err
	}
	s.clearRound()
	s.phase = to
	return nil
}

// Abandon 放弃尚未确认的回合，不计分，回到 Dealing
func (s *Session) Abandon() error {
	to, err := s.phase.next(actionAbandon)
	if err != nil {
		return err
	}
	s.clearRound()
	s.phase = to
	return nil
}

// ResetScore 重新开始会话计分，不影响当前回合
func (s *Session) ResetScore() { s.ledger.Reset() }

func (s *Session) clearRound() {
	s.playerHand = nil
	s.computerHand = nil
	s.clearSelection()
	s.result = nil
}

func (s *Session) clearSelection() {
	s.selected = 0
	s.hasSelection = false
}

func (s *Session) CurrentPhase() Phase { return s.phase }

// Round 已开始的回合数
func (s *Session) Round() int { return s.round }

func (s *Session) ScoreSnapshot() Score { return s.ledger.Snapshot() }

// Result 当前回合的结果，仅 Resolved 阶段存在
func (s *Session) Result() (DuelResult, bool) {
	if s.result == nil {
		return DuelResult{}, false
	}
	return *s.result, true
}

// Selection 当前选中的牌
func (s *Session) Selection() (CardDefinition, bool) {
	if !s.hasSelection {
		return CardDefinition{}, false
	}
	card, err := s.catalog.Lookup(s.selected)
	if err != nil {
		return CardDefinition{}, false
	}
	return card, true
}

func (s *Session) PlayerHand() []CardDefinition { return s.cards(s.playerHand) }

func (s *Session) ComputerHandSize() int { return len(s.computerHand) }

// ComputerHand 电脑手牌在结算前不公开
func (s *Session) ComputerHand() ([]CardDefinition, bool) {
	if s.phase != PhaseResolved {
		return nil, false
	}
	return s.cards(s.computerHand), true
}

func (s *Session) cards(ids []int) []CardDefinition {
	out := make([]CardDefinition, 0, len(ids))
	for _, id := range ids {
		if card, err := s.catalog.Lookup(id); err == nil {
			out = append(out, card)
		}
	}
	return out
}
