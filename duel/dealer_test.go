package duel

import (
	"errors"
	"testing"
)

func TestDealRejectsInvalidHandSize(t *testing.T) {
	d := NewDealer(DefaultCatalog(), 5)
	for _, n := range []int{-1, 0, 6} {
		if _, err := d.Deal(n, NewSequenceSource(0)); !errors.Is(err, ErrInvalidHandSize) {
			t.Fatalf("count %d: expected ErrInvalidHandSize, got %v", n, err)
		}
	}
}

func TestDealFollowsRandomSource(t *testing.T) {
	d := NewDealer(DefaultCatalog(), 5)
	hand, err := d.Deal(5, NewSequenceSource(2, 2, 0, 1, 4))
	if err != nil {
		t.Fatalf("deal: %v", err)
	}
	want := []int{2, 2, 0, 1, 1}
	if len(hand) != len(want) {
		t.Fatalf("expected %d cards, got %d", len(want), len(hand))
	}
	for i := range want {
		if hand[i] != want[i] {
			t.Fatalf("card %d: expected %d, got %d", i, want[i], hand[i])
		}
	}
}

func TestDealCoversCatalog(t *testing.T) {
	c := DefaultCatalog()
	d := NewDealer(c, 10)
	rng := NewRandomSource(7)
	counts := map[int]int{}
	for i := 0; i < 300; i++ {
		hand, err := d.Deal(10, rng)
		if err != nil {
			t.Fatalf("deal: %v", err)
		}
		if len(hand) != 10 {
			t.Fatalf("expected 10 cards, got %d", len(hand))
		}
		for _, id := range hand {
			counts[id]++
		}
	}
	for _, card := range c.All() {
		// 3000 次抽取，每张期望 1000 次
		if counts[card.ID] < 800 || counts[card.ID] > 1200 {
			t.Fatalf("card %d drawn %d times, distribution looks skewed", card.ID, counts[card.ID])
		}
	}
}

func TestSeededSourcesReplay(t *testing.T) {
	d := NewDealer(DefaultCatalog(), 5)
	a, _ := d.Deal(5, NewRandomSource(99))
	b, _ := d.Deal(5, NewRandomSource(99))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different hands: %v vs %v", a, b)
		}
	}
}

type badSource struct{}

func (badSource) Intn(n int) int { return n }

func TestDrawRejectsOutOfRangeSource(t *testing.T) {
	d := NewDealer(DefaultCatalog(), 5)
	if _, err := d.Draw(badSource{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
