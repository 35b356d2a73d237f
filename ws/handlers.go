package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"go-duel/dto"
	"go-duel/utils"
)

// 消息处理函数类型
type messageHandler func(h *Hub, ctx context.Context, cl *client, duelID string, msgMap map[string]interface{}) error

// 消息处理函数映射
var messageHandlers = map[string]messageHandler{
	dto.MsgSync:       handleSyncMessage,
	dto.MsgStartRound: handleStartRoundMessage,
	dto.MsgSelect:     handleSelectMessage,
	dto.MsgConfirm:    handleConfirmMessage,
	dto.MsgResetRound: handleResetRoundMessage,
	dto.MsgAbandon:    handleAbandonMessage,
	dto.MsgResetScore: handleResetScoreMessage,
}

var errBadMessage = errors.New("消息格式错误")

func (h *Hub) dispatch(ctx context.Context, cl *client, duelID string, raw []byte) {
	msgMap := make(map[string]interface{})
	if err := json.Unmarshal(raw, &msgMap); err != nil {
		h.sendError(cl, fmt.Errorf("%w: %v", errBadMessage, err))
		return
	}
	msgType, _ := msgMap["type"].(string)
	handler, ok := messageHandlers[msgType]
	if !ok {
		h.sendError(cl, fmt.Errorf("%w: 未知消息类型 %q", errBadMessage, msgType))
		return
	}
	if err := handler(h, ctx, cl, duelID, msgMap); err != nil {
		h.log.Debug("消息处理失败",
			zap.String("duel_id", duelID),
			zap.String("type", msgType),
			zap.Error(err))
		h.sendError(cl, err)
	}
}

// 成功的变更由订阅回调广播，这里只需要处理错误
func handleSyncMessage(h *Hub, ctx context.Context, cl *client, duelID string, _ map[string]interface{}) error {
	h.sendState(ctx, cl, duelID)
	return nil
}

func handleStartRoundMessage(h *Hub, ctx context.Context, _ *client, duelID string, msgMap map[string]interface{}) error {
	var msg dto.StartRoundMessage
	if err := utils.Decode(msgMap, &msg); err != nil {
		return fmt.Errorf("%w: %v", errBadMessage, err)
	}
	_, err := h.svc.StartRound(ctx, duelID, msg.HandSize)
	return err
}

func handleSelectMessage(h *Hub, ctx context.Context, _ *client, duelID string, msgMap map[string]interface{}) error {
	var msg dto.SelectMessage
	if err := utils.Decode(msgMap, &msg); err != nil {
		return fmt.Errorf("%w: %v", errBadMessage, err)
	}
	if msg.CardID == nil {
		return fmt.Errorf("%w: 缺少 cardId", errBadMessage)
	}
	_, err := h.svc.Select(ctx, duelID, *msg.CardID)
	return err
}

func handleConfirmMessage(h *Hub, ctx context.Context, _ *client, duelID string, _ map[string]interface{}) error {
	_, err := h.svc.Confirm(ctx, duelID)
	return err
}

func handleResetRoundMessage(h *Hub, ctx context.Context, _ *client, duelID string, _ map[string]interface{}) error {
	_, err := h.svc.ResetRound(ctx, duelID)
	return err
}

func handleAbandonMessage(h *Hub, ctx context.Context, _ *client, duelID string, _ map[string]interface{}) error {
	_, err := h.svc.Abandon(ctx, duelID)
	return err
}

func handleResetScoreMessage(h *Hub, ctx context.Context, _ *client, duelID string, _ map[string]interface{}) error {
	_, err := h.svc.ResetScore(ctx, duelID)
	return err
}
