package duel

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"

	"golang.org/x/exp/rand"
)

// RandomSource 从 n 个选项中均匀抽取一个，返回 [0, n)
type RandomSource interface {
	Intn(n int) int
}

// NewRandomSource 基于种子的伪随机源，同一种子得到同一序列
func NewRandomSource(seed uint64) RandomSource {
	return rand.New(rand.NewSource(seed))
}

// NewSeed 用 crypto/rand 生成种子
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// NewSourceFactory 为每个对局生成独立随机源。seed 为 0 时从 crypto/rand 取种子，
// 否则整个进程的对局序列可复现。
func NewSourceFactory(seed uint64) (func() RandomSource, error) {
	if seed == 0 {
		s, err := NewSeed()
		if err != nil {
			return nil, err
		}
		seed = s
	}
	var mu sync.Mutex
	master := rand.New(rand.NewSource(seed))
	return func() RandomSource {
		mu.Lock()
		defer mu.Unlock()
		return NewRandomSource(master.Uint64())
	}, nil
}

// SequenceSource 按给定序列返回结果（对 n 取模），用于回放和测试
type SequenceSource struct {
	values []int
	pos    int
}

func NewSequenceSource(values ...int) *SequenceSource {
	return &SequenceSource{values: values}
}

func (s *SequenceSource) Intn(n int) int {
	if len(s.values) == 0 || n <= 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	if v < 0 {
		v = -v
	}
	return v % n
}
