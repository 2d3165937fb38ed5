/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package oogiri

import (
	"fmt"
	"slices"
)

const (
	// HandSize is the number of cards in a dealt hand.
	HandSize = 9

	// ThemesPerRound is the number of themes offered for voting each round.
	ThemesPerRound = 6
)

// Hand is a player's ordered set of word cards. Positions are fixed by
// category: 0-3 general, 4-5 funny, 6 adverb, 7-8 verb.
type Hand []string

type handSlot struct {
	category Category
	count    int
}

var handLayout = []handSlot{
	{CategoryGeneral, 4},
	{CategoryFunny, 2},
	{CategoryAdverb, 1},
	{CategoryVerb, 2},
}

// CategoryAt reports which pool the card at a hand position is drawn from.
func CategoryAt(index int) (Category, bool) {
	if index < 0 {
		return "", false
	}
	for _, slot := range handLayout {
		if index < slot.count {
			return slot.category, true
		}
		index -= slot.count
	}
	return "", false
}

// Dealer draws hands and themes from a fixed set of pools.
type Dealer struct {
	pools Pools
	rng   Rand
}

func NewDealer(pools Pools, rng Rand) *Dealer {
	if rng == nil {
		rng = globalRand{}
	}
	return &Dealer{pools: pools, rng: rng}
}

// Deal returns a fresh hand. Cards within a category are distinct.
func (d *Dealer) Deal() Hand {
	hand := make(Hand, 0, HandSize)
	for _, slot := range handLayout {
		hand = append(hand, sample(d.rng, d.pools.Pool(slot.category), slot.count)...)
	}
	return hand
}

// Themes samples the themes offered for one round.
func (d *Dealer) Themes() []string {
	return sample(d.rng, d.pools.Themes, ThemesPerRound)
}

// ReplaceOne swaps the card at index for a new card from the same category.
func (d *Dealer) ReplaceOne(hand Hand, index int) (Hand, error) {
	category, ok := CategoryAt(index)
	if !ok || index >= len(hand) {
		return nil, fmt.Errorf("%w: card index %d out of range", ErrInvalidInput, index)
	}

	out := slices.Clone(hand)
	out[index] = sample(d.rng, d.pools.Pool(category), 1)[0]
	return out, nil
}

// ReplaceAll deals a new hand, then copies old cards back at the kept
// positions. Kept positions the old hand does not have are ignored.
func (d *Dealer) ReplaceAll(hand Hand, keep []int) (Hand, error) {
	for _, idx := range keep {
		if idx < 0 || idx >= HandSize {
			return nil, fmt.Errorf("%w: keep index %d out of range", ErrInvalidInput, idx)
		}
	}

	out := d.Deal()
	for _, idx := range keep {
		if idx < len(hand) {
			out[idx] = hand[idx]
		}
	}
	return out, nil
}
