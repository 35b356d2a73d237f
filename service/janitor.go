package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunJanitor 定期清理空闲对局，直到 ctx 结束
func (s *DuelService) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(ctx); n > 0 {
				s.log.Info("⏰ 清理空闲对局", zap.Int("count", n))
			}
		}
	}
}

// Sweep 删除超过 IdleTimeout 未操作的对局，返回删除数量
func (s *DuelService) Sweep(ctx context.Context) int {
	if s.opts.IdleTimeout <= 0 {
		return 0
	}
	deadline := s.opts.Now().Add(-s.opts.IdleTimeout)

	s.mu.Lock()
	entries := make([]*duelEntry, 0, len(s.duels))
	for _, e := range s.duels {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	n := 0
	for _, e := range entries {
		e.mu.Lock()
		if !e.deleted && e.lastActive.Before(deadline) {
			e.deleted = true
			s.mu.Lock()
			if s.duels[e.id] == e {
				delete(s.duels, e.id)
			}
			s.mu.Unlock()
			s.forget(ctx, e.id)
			n++
			s.log.Debug("空闲对局已清理", zap.String("duel_id", e.id))
		}
		e.mu.Unlock()
	}
	return n
}
