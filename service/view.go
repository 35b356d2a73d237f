package service

import (
	"go-duel/dto"
	"go-duel/duel"
)

func cardView(c duel.CardDefinition) dto.CardView {
	return dto.CardView{ID: c.ID, Name: c.Name, Type: string(c.Type), Image: c.Image}
}

func cardViews(cards []duel.CardDefinition) []dto.CardView {
	out := make([]dto.CardView, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardView(c))
	}
	return out
}

func resultView(r duel.DuelResult) *dto.ResultView {
	return &dto.ResultView{
		Round:        r.Round,
		Outcome:      r.Outcome.String(),
		PlayerCard:   cardView(r.PlayerCard),
		OpponentCard: cardView(r.OpponentCard),
	}
}

// buildView 组装对局快照，调用方需持有对局锁
func buildView(duelID string, s *duel.Session) dto.RoundView {
	score := s.ScoreSnapshot()
	view := dto.RoundView{
		DuelID:           duelID,
		Phase:            s.CurrentPhase().String(),
		Round:            s.Round(),
		PlayerHand:       cardViews(s.PlayerHand()),
		ComputerHandSize: s.ComputerHandSize(),
		Score:            dto.ScoreView{Wins: score.Wins, Losses: score.Losses},
	}
	if hand, ok := s.ComputerHand(); ok {
		view.ComputerHand = cardViews(hand)
	}
	if sel, ok := s.Selection(); ok {
		v := cardView(sel)
		view.Selection = &v
	}
	if res, ok := s.Result(); ok {
		view.Result = resultView(res)
	}
	return view
}

// CatalogView 目录列表
func CatalogView(c *duel.Catalog) dto.CatalogResponse {
	return dto.CatalogResponse{Cards: cardViews(c.All())}
}
