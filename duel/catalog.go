package duel

import (
	"sort"
	"strings"

	"golang.org/x/exp/slices"
)

// CardType 卡牌属性，类似石头剪刀布中的一种手势
type CardType string

// CardDefinition 卡牌定义，创建后不可修改
type CardDefinition struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Type         CardType   `json:"type"`
	Image        string     `json:"image"`
	WinsAgainst  []CardType `json:"winsAgainst"`
	LosesAgainst []CardType `json:"losesAgainst"`
}

// Beats 是否克制 t 属性
func (c CardDefinition) Beats(t CardType) bool { return slices.Contains(c.WinsAgainst, t) }

// LosesTo 是否被 t 属性克制
func (c CardDefinition) LosesTo(t CardType) bool { return slices.Contains(c.LosesAgainst, t) }

func (c CardDefinition) clone() CardDefinition {
	c.WinsAgainst = slices.Clone(c.WinsAgainst)
	c.LosesAgainst = slices.Clone(c.LosesAgainst)
	return c
}

// Catalog 只读卡牌目录，加载时校验克制关系
type Catalog struct {
	cards []CardDefinition
	index map[int]int
	types []CardType
}

// NewCatalog 校验并构建卡牌目录。克制关系不完整、自相克制、缺少反向关系都会直接报错，
// 这类问题必须在启动时暴露，而不是等到结算时。
func NewCatalog(defs []CardDefinition) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, newError(CodeInvalidCatalog, "catalog is empty")
	}

	c := &Catalog{
		cards: make([]CardDefinition, 0, len(defs)),
		index: make(map[int]int, len(defs)),
	}
	byType := make(map[CardType]CardDefinition)

	for _, d := range defs {
		if _, exists := c.index[d.ID]; exists {
			return nil, newError(CodeInvalidCatalog, "duplicate card id %d", d.ID)
		}
		if strings.TrimSpace(d.Name) == "" {
			return nil, newError(CodeInvalidCatalog, "card %d: missing name", d.ID)
		}
		if d.Type == "" {
			return nil, newError(CodeInvalidCatalog, "card %d: missing type", d.ID)
		}
		if len(d.WinsAgainst) == 0 || len(d.LosesAgainst) == 0 {
			return nil, newError(CodeInvalidCatalog, "card %d (%s): wins and loses sets must be non-empty", d.ID, d.Type)
		}
		if d.Beats(d.Type) || d.LosesTo(d.Type) {
			return nil, newError(CodeInvalidCatalog, "card %d (%s): type references itself", d.ID, d.Type)
		}
		for _, t := range d.WinsAgainst {
			if d.LosesTo(t) {
				return nil, newError(CodeInvalidCatalog, "card %d (%s): both beats and loses to %s", d.ID, d.Type, t)
			}
		}

		// 同属性的卡必须共享同一套克制关系
		if prev, ok := byType[d.Type]; ok {
			if !sameTypes(prev.WinsAgainst, d.WinsAgainst) || !sameTypes(prev.LosesAgainst, d.LosesAgainst) {
				return nil, newError(CodeInvalidCatalog, "cards %d and %d share type %s with different relations", prev.ID, d.ID, d.Type)
			}
		} else {
			byType[d.Type] = d
			c.types = append(c.types, d.Type)
		}

		c.index[d.ID] = len(c.cards)
		c.cards = append(c.cards, d.clone())
	}

	for t, d := range byType {
		for _, other := range d.WinsAgainst {
			od, ok := byType[other]
			if !ok {
				return nil, newError(CodeInvalidCatalog, "type %s beats unknown type %s", t, other)
			}
			if !od.LosesTo(t) {
				return nil, newError(CodeInvalidCatalog, "type %s beats %s but %s is missing the inverse", t, other, other)
			}
		}
		for _, other := range d.LosesAgainst {
			od, ok := byType[other]
			if !ok {
				return nil, newError(CodeInvalidCatalog, "type %s loses to unknown type %s", t, other)
			}
			if !od.Beats(t) {
				return nil, newError(CodeInvalidCatalog, "type %s loses to %s but %s is missing the inverse", t, other, other)
			}
		}
	}

	// 任意两个不同属性之间必须恰好有一方克制另一方
	for i, a := range c.types {
		for _, b := range c.types[i+1:] {
			ab := byType[a].Beats(b)
			ba := byType[b].Beats(a)
			if ab == ba {
				return nil, newError(CodeInvalidCatalog, "matchup %s vs %s is undefined", a, b)
			}
		}
	}

	return c, nil
}

func sameTypes(a, b []CardType) bool {
	if len(a) != len(b) {
		return false
	}
	x := slices.Clone(a)
	y := slices.Clone(b)
	sort.Slice(x, func(i, j int) bool { return x[i] < x[j] })
	sort.Slice(y, func(i, j int) bool { return y[i] < y[j] })
	return slices.Equal(x, y)
}

// Lookup 按 id 查找卡牌
func (c *Catalog) Lookup(id int) (CardDefinition, error) {
	i, ok := c.index[id]
	if !ok {
		return CardDefinition{}, newError(CodeNotFound, "card %d not found", id)
	}
	return c.cards[i].clone(), nil
}

// All 按加载顺序返回全部卡牌
func (c *Catalog) All() []CardDefinition {
	out := make([]CardDefinition, len(c.cards))
	for i, card := range c.cards {
		out[i] = card.clone()
	}
	return out
}

// Len 卡牌数量
func (c *Catalog) Len() int { return len(c.cards) }

// Types 按首次出现顺序返回全部属性
func (c *Catalog) Types() []CardType { return slices.Clone(c.types) }

func (c *Catalog) at(i int) CardDefinition { return c.cards[i] }

const defaultImagePath = "./src/assets/icons/"

// DefaultCardDefinitions 内置的三张卡：青眼白龙克黑魔导，黑魔导克艾克佐迪亚，艾克佐迪亚克青眼白龙
func DefaultCardDefinitions() []CardDefinition {
	return []CardDefinition{
		{
			ID:           0,
			Name:         "Blue Eyes White Dragon",
			Type:         "Paper",
			Image:        defaultImagePath + "dragon.png",
			WinsAgainst:  []CardType{"Rock"},
			LosesAgainst: []CardType{"Scissors"},
		},
		{
			ID:           1,
			Name:         "Dark Magician",
			Type:         "Rock",
			Image:        defaultImagePath + "magician.png",
			WinsAgainst:  []CardType{"Scissors"},
			LosesAgainst: []CardType{"Paper"},
		},
		{
			ID:           2,
			Name:         "Exodia",
			Type:         "Scissors",
			Image:        defaultImagePath + "exodia.png",
			WinsAgainst:  []CardType{"Paper"},
			LosesAgainst: []CardType{"Rock"},
		},
	}
}

// DefaultCatalog 内置目录
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultCardDefinitions())
	if err != nil {
		panic(err)
	}
	return c
}
