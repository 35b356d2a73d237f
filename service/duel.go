package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-duel/dto"
	"go-duel/duel"
	"go-duel/entities"
)

var (
	ErrDuelNotFound = errors.New("duel not found")
	ErrForbidden    = errors.New("duel belongs to another user")
)

// Store 对局目录的持久化接口，生产实现是 repository.DuelStore
type Store interface {
	SaveDuel(ctx context.Context, info entities.DuelInfo) error
	DeleteDuel(ctx context.Context, duelID string) error
	ListDuels(ctx context.Context) ([]entities.DuelInfo, error)
}

type Options struct {
	HandSize    int // 开局未指定手牌数时使用
	MaxHandSize int
	IdleTimeout time.Duration
	NewSource   func() duel.RandomSource
	Now         func() time.Time
}

// Subscriber 对局状态变化回调，在对局锁外调用
type Subscriber func(view dto.RoundView)

type duelEntry struct {
	mu         sync.Mutex
	id         string
	userID     string
	session    *duel.Session
	lastActive time.Time
	deleted    bool
	nextSubID  int
	subs       map[int]Subscriber
}

func (e *duelEntry) info() entities.DuelInfo {
	score := e.session.ScoreSnapshot()
	return entities.DuelInfo{
		DuelID:    e.id,
		UserID:    e.userID,
		Phase:     e.session.CurrentPhase().String(),
		Round:     e.session.Round(),
		Wins:      score.Wins,
		Losses:    score.Losses,
		UpdatedAt: e.lastActive.Unix(),
	}
}

func (e *duelEntry) subscribers() []Subscriber {
	ids := make([]int, 0, len(e.subs))
	for id := range e.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Subscriber, 0, len(ids))
	for _, id := range ids {
		out = append(out, e.subs[id])
	}
	return out
}

// DuelService 管理进程内的全部对局。每个对局各自持锁，调用串行执行，
// 核心状态机本身不做并发控制。目录写入也在对局锁内完成。
// 锁顺序：先对局锁，再 s.mu。
type DuelService struct {
	catalog *duel.Catalog
	dealer  *duel.Dealer
	store   Store
	log     *zap.Logger
	opts    Options

	mu    sync.Mutex
	duels map[string]*duelEntry
}

func NewDuelService(catalog *duel.Catalog, store Store, log *zap.Logger, opts Options) *DuelService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewSource == nil {
		opts.NewSource = func() duel.RandomSource {
			return duel.NewRandomSource(uint64(opts.Now().UnixNano()))
		}
	}
	return &DuelService{
		catalog: catalog,
		dealer:  duel.NewDealer(catalog, opts.MaxHandSize),
		store:   store,
		log:     log,
		opts:    opts,
		duels:   make(map[string]*duelEntry),
	}
}

func (s *DuelService) Catalog() *duel.Catalog { return s.catalog }

// CreateDuel 新建对局，初始阶段为 dealing
func (s *DuelService) CreateDuel(ctx context.Context, userID string) (entities.DuelInfo, error) {
	e := &duelEntry{
		userID:     userID,
		session:    duel.NewSession(s.catalog, s.dealer, s.opts.NewSource()),
		lastActive: s.opts.Now(),
		subs:       make(map[int]Subscriber),
	}

	e.mu.Lock()
	s.mu.Lock()
	for {
		e.id = newDuelID()
		if _, exists := s.duels[e.id]; !exists {
			break
		}
	}
	s.duels[e.id] = e
	s.mu.Unlock()

	info := e.info()
	s.mirror(ctx, info)
	e.mu.Unlock()

	s.log.Info("对局创建成功", zap.String("duel_id", info.DuelID), zap.String("user_id", userID))
	return info, nil
}

func (s *DuelService) entry(duelID string) (*duelEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.duels[duelID]
	if !ok {
		return nil, ErrDuelNotFound
	}
	return e, nil
}

// mutate 在对局锁内执行 op 并同步目录，之后在锁外通知订阅者
func (s *DuelService) mutate(ctx context.Context, duelID string, op func(*duel.Session) error) (dto.RoundView, error) {
	e, err := s.entry(duelID)
	if err != nil {
		return dto.RoundView{}, err
	}

	e.mu.Lock()
	if e.deleted {
		e.mu.Unlock()
		return dto.RoundView{}, ErrDuelNotFound
	}
	if err := op(e.session); err != nil {
		phase := e.session.CurrentPhase()
		e.mu.Unlock()
		s.log.Debug("对局操作被拒绝",
			zap.String("duel_id", duelID),
			zap.Stringer("phase", phase),
			zap.Error(err))
		return dto.RoundView{}, err
	}
	e.lastActive = s.opts.Now()
	view := buildView(duelID, e.session)
	s.mirror(ctx, e.info())
	subs := e.subscribers()
	e.mu.Unlock()

	for _, fn := range subs {
		fn(view)
	}
	return view, nil
}

// mirror 同步到对局目录，失败只记日志，不影响对局本身
func (s *DuelService) mirror(ctx context.Context, info entities.DuelInfo) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveDuel(ctx, info); err != nil {
		s.log.Warn("同步对局目录失败", zap.String("duel_id", info.DuelID), zap.Error(err))
	}
}

func (s *DuelService) resolveHandSize(handSize int) int {
	if handSize == 0 {
		return s.opts.HandSize
	}
	return handSize
}

// StartRound 开始新回合，handSize 为 0 时使用默认值
func (s *DuelService) StartRound(ctx context.Context, duelID string, handSize int) (dto.RoundView, error) {
	handSize = s.resolveHandSize(handSize)
	view, err := s.mutate(ctx, duelID, func(sess *duel.Session) error {
		_, err := sess.StartRound(handSize)
		return err
	})
	if err == nil {
		s.log.Info("回合开始",
			zap.String("duel_id", duelID),
			zap.Int("round", view.Round),
			zap.Int("hand_size", handSize))
	}
	return view, err
}

func (s *DuelService) Select(ctx context.Context, duelID string, cardID int) (dto.RoundView, error) {
	return s.mutate(ctx, duelID, func(sess *duel.Session) error {
		return sess.Select(cardID)
	})
}

// Confirm 锁定选择并结算
func (s *DuelService) Confirm(ctx context.Context, duelID string) (dto.RoundView, error) {
	view, err := s.mutate(ctx, duelID, func(sess *duel.Session) error {
		_, err := sess.Confirm()
		return err
	})
	if err == nil && view.Result != nil {
		s.log.Info("回合结算",
			zap.String("duel_id", duelID),
			zap.Int("round", view.Round),
			zap.String("outcome", view.Result.Outcome),
			zap.Int("player_card", view.Result.PlayerCard.ID),
			zap.Int("opponent_card", view.Result.OpponentCard.ID),
			zap.Int("wins", view.Score.Wins),
			zap.Int("losses", view.Score.Losses))
	}
	if duel.CodeOf(err) == duel.CodeUndefinedMatchup {
		s.log.Error("目录克制关系缺失", zap.String("duel_id", duelID), zap.Error(err))
	}
	return view, err
}

func (s *DuelService) ResetRound(ctx context.Context, duelID string) (dto.RoundView, error) {
	return s.mutate(ctx, duelID, func(sess *duel.Session) error {
		return sess.ResetRound()
	})
}

func (s *DuelService) Abandon(ctx context.Context, duelID string) (dto.RoundView, error) {
	return s.mutate(ctx, duelID, func(sess *duel.Session) error {
		return sess.Abandon()
	})
}

// ResetScore 重新开始会话计分
func (s *DuelService) ResetScore(ctx context.Context, duelID string) (dto.RoundView, error) {
	return s.mutate(ctx, duelID, func(sess *duel.Session) error {
		sess.ResetScore()
		return nil
	})
}

// View 只读快照，不刷新活跃时间
func (s *DuelService) View(ctx context.Context, duelID string) (dto.RoundView, error) {
	e, err := s.entry(duelID)
	if err != nil {
		return dto.RoundView{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return dto.RoundView{}, ErrDuelNotFound
	}
	return buildView(duelID, e.session), nil
}

// Authorize 校验 userID 是否为对局创建者。未绑定用户的对局任何人可操作
func (s *DuelService) Authorize(duelID, userID string) error {
	e, err := s.entry(duelID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return ErrDuelNotFound
	}
	if e.userID != "" && e.userID != userID {
		return ErrForbidden
	}
	return nil
}

// List 对局目录；没有目录存储时退回内存
func (s *DuelService) List(ctx context.Context) ([]entities.DuelInfo, error) {
	if s.store != nil {
		return s.store.ListDuels(ctx)
	}
	s.mu.Lock()
	entries := make([]*duelEntry, 0, len(s.duels))
	for _, e := range s.duels {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	out := make([]entities.DuelInfo, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.info())
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DuelID < out[j].DuelID })
	return out, nil
}

// Delete 结束对局并从目录删除。等待进行中的操作完成后再删目录，
// 避免被随后的写入恢复
func (s *DuelService) Delete(ctx context.Context, duelID string) error {
	s.mu.Lock()
	e, ok := s.duels[duelID]
	delete(s.duels, duelID)
	s.mu.Unlock()
	if !ok {
		return ErrDuelNotFound
	}

	e.mu.Lock()
	e.deleted = true
	s.forget(ctx, duelID)
	e.mu.Unlock()

	s.log.Info("对局已删除", zap.String("duel_id", duelID))
	return nil
}

func (s *DuelService) forget(ctx context.Context, duelID string) {
	if s.store == nil {
		return
	}
	if err := s.store.DeleteDuel(ctx, duelID); err != nil {
		s.log.Warn("删除对局目录失败", zap.String("duel_id", duelID), zap.Error(err))
	}
}

// Subscribe 订阅对局状态变化，返回取消函数
func (s *DuelService) Subscribe(duelID string, fn Subscriber) (func(), error) {
	e, err := s.entry(duelID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	if e.deleted {
		e.mu.Unlock()
		return nil, ErrDuelNotFound
	}
	id := e.nextSubID
	e.nextSubID++
	e.subs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}, nil
}
