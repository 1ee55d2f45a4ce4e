package deck

import (
	"strings"
)

// Hand represents a collection of cards
type Hand []*Card

func (h Hand) Len() int {
	return len(h)
}

func (h Hand) Less(i, j int) bool {
	if cmp := strings.Compare(string(h[i].Suit), string(h[j].Suit)); cmp != 0 {
		return cmp < 0
	}

	return h[i].Rank < h[j].Rank
}

func (h Hand) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// FindByID returns the card with the ID or nil
func (h Hand) FindByID(id string) *Card {
	for _, c := range h {
		if c.ID == id {
			return c
		}
	}

	return nil
}

// Without returns a new hand without the cards in ids
// The receiver is left untouched
func (h Hand) Without(ids ...string) Hand {
	remove := make(map[string]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}

	newHand := make(Hand, 0, len(h))
	for _, c := range h {
		if !remove[c.ID] {
			newHand = append(newHand, c)
		}
	}

	return newHand
}

// HasSuit returns true if any card in the hand has the suit
func (h Hand) HasSuit(suit Suit) bool {
	for _, c := range h {
		if c.Suit == suit {
			return true
		}
	}

	return false
}

// FirstCard returns the first card in the hand or nil if the cards are empty
func (h Hand) FirstCard() *Card {
	if len(h) == 0 {
		return nil
	}

	return h[0]
}

// LastCard returns the last card in the hand or nil if the cards are empty
func (h Hand) LastCard() *Card {
	n := len(h)
	if n == 0 {
		return nil
	}

	return h[n-1]
}

func (h Hand) String() string {
	return CardsToString(h)
}

// Clone returns a clone of the hand
// Cards are shared since they are never mutated
func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}

	h2 := make(Hand, len(h))
	copy(h2, h)

	return h2
}
