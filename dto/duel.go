package dto

import "go-duel/entities"

type CreateDuelRequest struct {
	UserID string `json:"userId"`
}

type CreateDuelResponse struct {
	DuelID string `json:"duelId"`
}

type StartRoundRequest struct {
	HandSize int `json:"handSize"` // 0 表示使用默认手牌数
}

type SelectCardRequest struct {
	CardID *int `json:"cardId" binding:"required"`
}

type CardView struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Image string `json:"image"`
}

type ResultView struct {
	Round        int      `json:"round"`
	Outcome      string   `json:"outcome"` // Win / Lose / Draw
	PlayerCard   CardView `json:"playerCard"`
	OpponentCard CardView `json:"opponentCard"`
}

type ScoreView struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// RoundView 返回给展示层的对局快照。电脑手牌只在结算后出现
type RoundView struct {
	DuelID           string      `json:"duelId"`
	Phase            string      `json:"phase"`
	Round            int         `json:"round"`
	PlayerHand       []CardView  `json:"playerHand"`
	ComputerHandSize int         `json:"computerHandSize"`
	ComputerHand     []CardView  `json:"computerHand,omitempty"`
	Selection        *CardView   `json:"selection"`
	Result           *ResultView `json:"result"`
	Score            ScoreView   `json:"score"`
}

type DuelList struct {
	Duels []entities.DuelInfo `json:"duels"`
}

type CatalogResponse struct {
	Cards []CardView `json:"cards"`
}
