package entities

// DuelInfo Redis 中的对局目录记录，只镜像当前会话状态
type DuelInfo struct {
	DuelID    string `json:"duelId"`
	UserID    string `json:"userId"`
	Phase     string `json:"phase"`
	Round     int    `json:"round"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
	UpdatedAt int64  `json:"updatedAt"` // unix 秒
}
