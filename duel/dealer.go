package duel

// Dealer 从目录中有放回地随机发牌
type Dealer struct {
	catalog     *Catalog
	maxHandSize int
}

func NewDealer(catalog *Catalog, maxHandSize int) *Dealer {
	return &Dealer{catalog: catalog, maxHandSize: maxHandSize}
}

// MaxHandSize 单手牌上限
func (d *Dealer) MaxHandSize() int { return d.maxHandSize }

// Deal 发 count 张牌，返回卡牌 id。同一手牌允许重复
func (d *Dealer) Deal(count int, rng RandomSource) ([]int, error) {
	if count <= 0 || count > d.maxHandSize {
		return nil, newError(CodeInvalidHandSize, "hand size %d out of range 1..%d", count, d.maxHandSize)
	}
	hand := make([]int, 0, count)
	for i := 0; i < count; i++ {
		card, err := d.Draw(rng)
		if err != nil {
			return nil, err
		}
		hand = append(hand, card.ID)
	}
	return hand, nil
}

// Draw 均匀抽取一张牌
func (d *Dealer) Draw(rng RandomSource) (CardDefinition, error) {
	n := d.catalog.Len()
	i := rng.Intn(n)
	if i < 0 || i >= n {
		return CardDefinition{}, newError(CodeNotFound, "random source returned %d for %d cards", i, n)
	}
	return d.catalog.at(i).clone(), nil
}
