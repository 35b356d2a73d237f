package service

import (
	"strings"

	"github.com/google/uuid"
)

// newDuelID 生成唯一对局 ID（8位）
func newDuelID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
