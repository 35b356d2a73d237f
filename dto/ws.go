package dto

// ConnInterface 可写连接，真实实现是 *websocket.Conn
type ConnInterface interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// ReadWriteConn 读写接口，供客户端连接用
type ReadWriteConn interface {
	ConnInterface
	ReadMessage() (messageType int, p []byte, err error)
}

// 客户端消息类型
const (
	MsgSync       = "sync"
	MsgStartRound = "start_round"
	MsgSelect     = "select"
	MsgConfirm    = "confirm"
	MsgResetRound = "reset_round"
	MsgAbandon    = "abandon"
	MsgResetScore = "reset_score"
)

// 服务端消息类型
const (
	MsgState = "state"
	MsgError = "error"
)

type StartRoundMessage struct {
	HandSize int `json:"handSize"`
}

type SelectMessage struct {
	CardID *int `json:"cardId"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StateMessage struct {
	Type string    `json:"type"`
	Data RoundView `json:"data"`
}
