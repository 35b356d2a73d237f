package duel

import (
	"errors"
	"testing"
)

const (
	dragonID   = 0
	magicianID = 1
	exodiaID   = 2
)

// newScriptedSession 发牌顺序：玩家手牌、电脑手牌、确认时电脑出牌
func newScriptedSession(draws ...int) *Session {
	c := DefaultCatalog()
	return NewSession(c, NewDealer(c, 5), NewSequenceSource(draws...))
}

func playOneCard(t *testing.T, computerDraw int) (*Session, DuelResult) {
	t.Helper()
	s := newScriptedSession(dragonID, exodiaID, computerDraw)
	start, err := s.StartRound(1)
	if err != nil {
		t.Fatalf("start round: %v", err)
	}
	if len(start.PlayerHand) != 1 || start.PlayerHand[0].ID != dragonID {
		t.Fatalf("unexpected hand %+v", start.PlayerHand)
	}
	if err := s.Select(dragonID); err != nil {
		t.Fatalf("select: %v", err)
	}
	res, err := s.Confirm()
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	return s, res
}

func TestScenarioWin(t *testing.T) {
	s, res := playOneCard(t, magicianID)
	if res.Outcome != OutcomeWin {
		t.Fatalf("expected Win, got %v", res.Outcome)
	}
	if res.OpponentCard.ID != magicianID || res.PlayerCard.ID != dragonID {
		t.Fatalf("unexpected cards %+v", res)
	}
	if got := s.ScoreSnapshot(); got != (Score{Wins: 1, Losses: 0}) {
		t.Fatalf("unexpected score %+v", got)
	}
	if s.CurrentPhase() != PhaseResolved {
		t.Fatalf("expected resolved, got %v", s.CurrentPhase())
	}
}

func TestScenarioLose(t *testing.T) {
	s, res := playOneCard(t, exodiaID)
	if res.Outcome != OutcomeLose {
		t.Fatalf("expected Lose, got %v", res.Outcome)
	}
	if got := s.ScoreSnapshot(); got != (Score{Wins: 0, Losses: 1}) {
		t.Fatalf("unexpected score %+v", got)
	}
}

func TestScenarioDraw(t *testing.T) {
	s, res := playOneCard(t, dragonID)
	if res.Outcome != OutcomeDraw {
		t.Fatalf("expected Draw, got %v", res.Outcome)
	}
	if got := s.ScoreSnapshot(); got != (Score{}) {
		t.Fatalf("draw must not change score, got %+v", got)
	}
}

func TestConfirmWithoutSelection(t *testing.T) {
	s := newScriptedSession(0)
	if _, err := s.StartRound(5); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if _, err := s.Confirm(); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	if s.CurrentPhase() != PhaseAwaitingSelection {
		t.Fatalf("phase changed to %v", s.CurrentPhase())
	}
}

func TestResolvedRejectsEverythingButReset(t *testing.T) {
	s, res := playOneCard(t, magicianID)

	if err := s.Select(dragonID); !errors.Is(err, ErrRoundAlreadyResolved) {
		t.Fatalf("select: expected ErrRoundAlreadyResolved, got %v", err)
	}
	if _, err := s.Confirm(); !errors.Is(err, ErrRoundAlreadyResolved) {
		t.Fatalf("confirm: expected ErrRoundAlreadyResolved, got %v", err)
	}
	if _, err := s.StartRound(1); !errors.Is(err, ErrRoundAlreadyResolved) {
		t.Fatalf("start: expected ErrRoundAlreadyResolved, got %v", err)
	}
	if err := s.Abandon(); !errors.Is(err, ErrRoundAlreadyResolved) {
		t.Fatalf("abandon: expected ErrRoundAlreadyResolved, got %v", err)
	}
	got, ok := s.Result()
	if !ok || got.Outcome != res.Outcome || got.OpponentCard.ID != res.OpponentCard.ID {
		t.Fatalf("result changed: %+v", got)
	}
	if score := s.ScoreSnapshot(); score.Wins != 1 {
		t.Fatalf("score changed: %+v", score)
	}

	if err := s.ResetRound(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, ok := s.Result(); ok {
		t.Fatalf("result survived reset")
	}
	if s.CurrentPhase() != PhaseDealing {
		t.Fatalf("expected dealing, got %v", s.CurrentPhase())
	}
}

func TestConsecutiveRoundsDealIndependently(t *testing.T) {
	s := newScriptedSession(0, 1, 2, 0, 1, 2, 0, 1, 1, 2)
	var hands [][]CardDefinition
	for i := 0; i < 2; i++ {
		start, err := s.StartRound(2)
		if err != nil {
			t.Fatalf("round %d start: %v", i, err)
		}
		if _, ok := s.Selection(); ok {
			t.Fatalf("round %d: selection not cleared", i)
		}
		hands = append(hands, start.PlayerHand)
		if err := s.Select(start.PlayerHand[0].ID); err != nil {
			t.Fatalf("round %d select: %v", i, err)
		}
		if _, err := s.Confirm(); err != nil {
			t.Fatalf("round %d confirm: %v", i, err)
		}
		if err := s.ResetRound(); err != nil {
			t.Fatalf("round %d reset: %v", i, err)
		}
		if len(s.PlayerHand()) != 0 || s.ComputerHandSize() != 0 {
			t.Fatalf("round %d: hands not cleared", i)
		}
	}
	if hands[0][0].ID != 0 || hands[0][1].ID != 1 {
		t.Fatalf("unexpected first hand %+v", hands[0])
	}
	// 第一回合用掉 2+2+1 次抽取
	if hands[1][0].ID != 2 || hands[1][1].ID != 0 {
		t.Fatalf("unexpected second hand %+v", hands[1])
	}
	if s.Round() != 2 {
		t.Fatalf("expected 2 rounds, got %d", s.Round())
	}
}

func TestLifecycleRejections(t *testing.T) {
	type tc struct {
		name string
		run  func(t *testing.T)
	}
	cases := []tc{
		{
			name: "select before dealing",
			run: func(t *testing.T) {
				s := newScriptedSession(0)
				if err := s.Select(dragonID); !errors.Is(err, ErrInvalidSelection) {
					t.Fatalf("expected ErrInvalidSelection, got %v", err)
				}
			},
		},
		{
			name: "confirm before dealing",
			run: func(t *testing.T) {
				s := newScriptedSession(0)
				if _, err := s.Confirm(); !errors.Is(err, ErrInvalidPhase) {
					t.Fatalf("expected ErrInvalidPhase, got %v", err)
				}
			},
		},
		{
			name: "reset round before resolution",
			run: func(t *testing.T) {
				s := newScriptedSession(0)
				if err := s.ResetRound(); !errors.Is(err, ErrInvalidPhase) {
					t.Fatalf("dealing: expected ErrInvalidPhase, got %v", err)
				}
				_, _ = s.StartRound(3)
				if err := s.ResetRound(); !errors.Is(err, ErrInvalidPhase) {
					t.Fatalf("awaiting selection: expected ErrInvalidPhase, got %v", err)
				}
				_ = s.Select(dragonID)
				if err := s.ResetRound(); !errors.Is(err, ErrInvalidPhase) {
					t.Fatalf("awaiting confirmation: expected ErrInvalidPhase, got %v", err)
				}
			},
		},
		{
			name: "start round twice",
			run: func(t *testing.T) {
				s := newScriptedSession(0)
				_, _ = s.StartRound(3)
				if _, err := s.StartRound(3); !errors.Is(err, ErrInvalidPhase) {
					t.Fatalf("expected ErrInvalidPhase, got %v", err)
				}
			},
		},
		{
			name: "card not in hand",
			run: func(t *testing.T) {
				s := newScriptedSession(dragonID)
				_, _ = s.StartRound(3)
				if err := s.Select(exodiaID); !errors.Is(err, ErrInvalidSelection) {
					t.Fatalf("expected ErrInvalidSelection, got %v", err)
				}
				if s.CurrentPhase() != PhaseAwaitingSelection {
					t.Fatalf("phase changed to %v", s.CurrentPhase())
				}
			},
		},
		{
			name: "invalid hand size keeps dealing phase",
			run: func(t *testing.T) {
				s := newScriptedSession(0)
				if _, err := s.StartRound(6); !errors.Is(err, ErrInvalidHandSize) {
					t.Fatalf("expected ErrInvalidHandSize, got %v", err)
				}
				if s.CurrentPhase() != PhaseDealing || s.Round() != 0 {
					t.Fatalf("state changed: phase %v round %d", s.CurrentPhase(), s.Round())
				}
			},
		},
		{
			name: "abandon while dealing",
			run: func(t *testing.T) {
				s := newScriptedSession(0)
				if err := s.Abandon(); !errors.Is(err, ErrInvalidPhase) {
					t.Fatalf("expected ErrInvalidPhase, got %v", err)
				}
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, c.run)
	}
}

func TestReselectBeforeConfirm(t *testing.T) {
	s := newScriptedSession(dragonID, magicianID, exodiaID, exodiaID, exodiaID, exodiaID)
	if _, err := s.StartRound(2); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Select(dragonID); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Select(magicianID); err != nil {
		t.Fatalf("reselect: %v", err)
	}
	if s.CurrentPhase() != PhaseAwaitingConfirmation {
		t.Fatalf("expected awaiting confirmation, got %v", s.CurrentPhase())
	}
	// 改选为手牌外的牌失败，保留之前的选择
	if err := s.Select(exodiaID); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection, got %v", err)
	}
	sel, ok := s.Selection()
	if !ok || sel.ID != magicianID {
		t.Fatalf("expected magician selected, got %+v", sel)
	}
	res, err := s.Confirm()
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if res.PlayerCard.ID != magicianID || res.Outcome != OutcomeWin {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestAbandonKeepsScore(t *testing.T) {
	s := newScriptedSession(dragonID, exodiaID, magicianID, dragonID, dragonID)
	_, _ = s.StartRound(1)
	_ = s.Select(dragonID)
	_, _ = s.Confirm()
	_ = s.ResetRound()

	if _, err := s.StartRound(1); err != nil {
		t.Fatalf("start: %v", err)
	}
	_ = s.Select(dragonID)
	if err := s.Abandon(); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if s.CurrentPhase() != PhaseDealing {
		t.Fatalf("expected dealing, got %v", s.CurrentPhase())
	}
	if _, ok := s.Selection(); ok {
		t.Fatalf("selection survived abandon")
	}
	if got := s.ScoreSnapshot(); got != (Score{Wins: 1}) {
		t.Fatalf("unexpected score %+v", got)
	}
}

func TestComputerHandHiddenUntilResolved(t *testing.T) {
	s := newScriptedSession(dragonID, exodiaID, magicianID)
	start, _ := s.StartRound(1)
	if start.ComputerHandSize != 1 {
		t.Fatalf("expected computer hand size 1, got %d", start.ComputerHandSize)
	}
	if _, ok := s.ComputerHand(); ok {
		t.Fatalf("computer hand exposed before resolution")
	}
	_ = s.Select(dragonID)
	_, _ = s.Confirm()
	hand, ok := s.ComputerHand()
	if !ok || len(hand) != 1 || hand[0].ID != exodiaID {
		t.Fatalf("expected computer hand after resolution, got %+v", hand)
	}
}

func TestScoreCountsNonDrawRounds(t *testing.T) {
	c := DefaultCatalog()
	s := NewSession(c, NewDealer(c, 5), NewRandomSource(2024))
	nonDraw := 0
	for i := 0; i < 50; i++ {
		start, err := s.StartRound(5)
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		if err := s.Select(start.PlayerHand[i%5].ID); err != nil {
			t.Fatalf("select: %v", err)
		}
		res, err := s.Confirm()
		if err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if res.Outcome != OutcomeDraw {
			nonDraw++
		}
		if err := s.ResetRound(); err != nil {
			t.Fatalf("reset: %v", err)
		}
	}
	score := s.ScoreSnapshot()
	if score.Wins+score.Losses != nonDraw {
		t.Fatalf("expected %d non-draw rounds, score %+v", nonDraw, score)
	}
	s.ResetScore()
	if s.ScoreSnapshot() != (Score{}) {
		t.Fatalf("score not reset")
	}
}
