package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go-duel/duel"
)

type cardEntry struct {
	ID           *int     `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Image        string   `json:"image"`
	WinsAgainst  []string `json:"wins_against"`
	LosesAgainst []string `json:"loses_against"`
}

type rawCatalog struct {
	CardList []cardEntry `json:"card_list"`
}

// LoadCatalog 读取卡牌目录文件。path 为空时使用内置目录。
// 文件格式错误或克制关系不完整都直接返回错误，启动流程应当中止。
func LoadCatalog(path string) (*duel.Catalog, error) {
	if path == "" {
		return duel.NewCatalog(duel.DefaultCardDefinitions())
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return ParseCatalog(b, path)
}

// ParseCatalog 解析 JSON 目录，source 只用于错误信息
func ParseCatalog(b []byte, source string) (*duel.Catalog, error) {
	var rc rawCatalog
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", source, err)
	}
	if len(rc.CardList) == 0 {
		return nil, fmt.Errorf("catalog file %s: card_list is empty (provide 'card_list' array)", source)
	}

	defs := make([]duel.CardDefinition, 0, len(rc.CardList))
	names := make(map[string]struct{}, len(rc.CardList))
	for i, e := range rc.CardList {
		if e.ID == nil {
			return nil, fmt.Errorf("catalog file %s: card entry %d missing 'id'", source, i)
		}
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("catalog file %s: card %d missing 'name'", source, *e.ID)
		}
		ln := strings.ToLower(name)
		if _, exists := names[ln]; exists {
			return nil, fmt.Errorf("catalog file %s: duplicate card name '%s'", source, name)
		}
		names[ln] = struct{}{}

		defs = append(defs, duel.CardDefinition{
			ID:           *e.ID,
			Name:         name,
			Type:         duel.CardType(strings.TrimSpace(e.Type)),
			Image:        e.Image,
			WinsAgainst:  toTypes(e.WinsAgainst),
			LosesAgainst: toTypes(e.LosesAgainst),
		})
	}

	c, err := duel.NewCatalog(defs)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", source, err)
	}
	return c, nil
}

func toTypes(in []string) []duel.CardType {
	out := make([]duel.CardType, 0, len(in))
	for _, s := range in {
		out = append(out, duel.CardType(strings.TrimSpace(s)))
	}
	return out
}
