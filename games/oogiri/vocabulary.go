/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package oogiri

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Category identifies one of the word pools a hand is drawn from.
type Category string

const (
	CategoryGeneral  Category = "general"
	CategoryFunny    Category = "funny"
	CategoryAdverb   Category = "adverb"
	CategoryVerb     Category = "verb"
	CategoryTheme    Category = "theme"
	CategoryParticle Category = "particle"
)

// Pools holds the immutable word lists used for dealing hands and themes.
type Pools struct {
	General   []string
	Funny     []string
	Adverb    []string
	Verb      []string
	Themes    []string
	Particles []string
}

var defaultPools = Pools{
	General: []string{
		"ネコ", "電車", "カレー", "先生", "山", "テレビ",
		"アイス", "本", "家族", "温泉", "ピザ", "スマホ",
	},
	Funny:  []string{"うんち", "宇宙人", "ドーナツ枕", "変顔", "屁", "ゴリラ"},
	Adverb: []string{"すごく", "こっそり", "なぜか", "たまたま", "突然"},
	Verb:   []string{"走る", "食べる", "歌う", "飛ぶ", "踊る", "叫ぶ"},
	Themes: []string{
		"最近笑ったこと", "好きなゲーム", "子供の頃の夢", "明日やりたいこと",
		"変なクセ", "秘密の特技", "もしも透明人間なら", "理想の休日",
		"面白い失敗談", "最近のマイブーム", "学生時代の思い出", "驚いた話",
		"一番好きな食べ物", "好きな言葉", "友達に言われて嬉しかったこと", "人生で一度はやってみたいこと",
	},
	Particles: []string{"に", "は", "を", "が", "の", "へ", "と", "より", "から", "で"},
}

// DefaultPools returns a copy of the built-in vocabulary.
func DefaultPools() Pools {
	return defaultPools.clone()
}

func (p Pools) clone() Pools {
	return Pools{
		General:   slices.Clone(p.General),
		Funny:     slices.Clone(p.Funny),
		Adverb:    slices.Clone(p.Adverb),
		Verb:      slices.Clone(p.Verb),
		Themes:    slices.Clone(p.Themes),
		Particles: slices.Clone(p.Particles),
	}
}

// Pool returns the word list for a category.
func (p Pools) Pool(c Category) []string {
	switch c {
	case CategoryGeneral:
		return p.General
	case CategoryFunny:
		return p.Funny
	case CategoryAdverb:
		return p.Adverb
	case CategoryVerb:
		return p.Verb
	case CategoryTheme:
		return p.Themes
	case CategoryParticle:
		return p.Particles
	}
	return nil
}

// Validate checks every pool is large enough for a deal and a theme draw.
func (p Pools) Validate() error {
	for _, slot := range handLayout {
		if got := len(distinct(p.Pool(slot.category))); got < slot.count {
			return fmt.Errorf("%w: %s pool needs %d distinct words, has %d", ErrInvalidInput, slot.category, slot.count, got)
		}
	}
	if got := len(distinct(p.Themes)); got < ThemesPerRound {
		return fmt.Errorf("%w: theme pool needs %d distinct entries, has %d", ErrInvalidInput, ThemesPerRound, got)
	}
	return nil
}

func distinct(words []string) []string {
	out := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// LoadPools reads a vocabulary CSV of "category,word" records. Categories
// present in the file replace the built-in pool; absent ones keep the default.
func LoadPools(path string) (Pools, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pools{}, err
	}
	defer f.Close()

	return ReadPools(f)
}

// ReadPools parses vocabulary CSV records from r. See LoadPools.
func ReadPools(r io.Reader) (Pools, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	loaded := make(map[Category][]string)
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return Pools{}, fmt.Errorf("vocabulary line %d: %w", line, err)
		}
		if len(record) < 2 {
			return Pools{}, fmt.Errorf("vocabulary line %d: expected category,word", line)
		}

		category := Category(strings.ToLower(strings.TrimSpace(record[0])))
		word := strings.TrimSpace(record[1])
		if word == "" {
			continue
		}
		if defaultPools.Pool(category) == nil {
			return Pools{}, fmt.Errorf("vocabulary line %d: unknown category %q", line, record[0])
		}
		loaded[category] = append(loaded[category], word)
	}

	pools := DefaultPools()
	for category, words := range loaded {
		words = distinct(words)
		switch category {
		case CategoryGeneral:
			pools.General = words
		case CategoryFunny:
			pools.Funny = words
		case CategoryAdverb:
			pools.Adverb = words
		case CategoryVerb:
			pools.Verb = words
		case CategoryTheme:
			pools.Themes = words
		case CategoryParticle:
			pools.Particles = words
		}
	}

	if err := pools.Validate(); err != nil {
		return Pools{}, err
	}
	return pools, nil
}
