package deck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Suit represents a card suit
type Suit string

// suit constants
const (
	Hearts   Suit = "hearts"
	Clubs    Suit = "clubs"
	Diamonds Suit = "diamonds"
	Spades   Suit = "spades"
	Jokers   Suit = "joker"
)

// StandardSuits are the four suits of a standard deck
var StandardSuits = []Suit{Clubs, Diamonds, Hearts, Spades}

// Card is an individual playing card
// Cards are never mutated once a deck is built. Games move them between slices.
type Card struct {
	ID    string `json:"id"`
	Rank  int    `json:"rank"`
	Suit  Suit   `json:"suit"`
	Value int    `json:"value"`
}

// face cards
const (
	Jack   = 11
	Queen  = 12
	King   = 13
	Ace    = 14
	Joker  = 15
	LowAce = 1
)

func (c *Card) String() string {
	if c.Suit == Jokers {
		return "Jkr"
	}

	var rank string
	switch c.Rank {
	case Jack:
		rank = "J"
	case Queen:
		rank = "Q"
	case King:
		rank = "K"
	case Ace:
		rank = "A"
	default:
		rank = strconv.Itoa(c.Rank)
	}

	var suit string
	switch c.Suit {
	case Clubs:
		suit = "♣"
	case Diamonds:
		suit = "♢"
	case Hearts:
		suit = "♡"
	case Spades:
		suit = "♠"
	default:
		panic("unknown suit")
	}

	return fmt.Sprintf("%s%s", rank, suit)
}

// Equal returns true if the cards are equal (matches suit and rank)
// Use SameCard to compare physical cards in a multi-deck shoe
func (c *Card) Equal(card *Card) bool {
	return c.Suit == card.Suit && c.Rank == card.Rank
}

// SameCard returns true if both cards are the same physical card
func (c *Card) SameCard(card *Card) bool {
	return c.ID == card.ID
}

// IsJoker returns true if the card is a joker
func (c *Card) IsJoker() bool {
	return c.Suit == Jokers
}

// AceLowRank return the rank where Ace is considered low instead of high
func (c *Card) AceLowRank() int {
	if c.Rank == Ace {
		return LowAce
	}

	return c.Rank
}

var cardRx = regexp.MustCompile(`(?i)^([0-9]|1[0-5])([cdhsj])(?::([0-9]+))?\z`)

// CardFromString returns a Card from the string.
// The string must be in the format of <rank><suit>[:<copy>] where rank >= 2 and <= 15 and suit in [cdhsj].
// The copy suffix identifies a card in a multi-deck shoe. The value is the rank (aces high).
func CardFromString(s string) *Card {
	if s == "" {
		return nil
	}

	match := cardRx.FindStringSubmatch(s)
	if match == nil {
		panic(fmt.Sprintf("could not parse card: %s", s))
	}

	rank, err := strconv.Atoi(match[1])
	if err != nil {
		panic(fmt.Sprintf("could not parse card `%s`: %v", s, err))
	}

	var suit Suit
	switch strings.ToLower(match[2]) {
	case "c":
		suit = Clubs
	case "d":
		suit = Diamonds
	case "h":
		suit = Hearts
	case "s":
		suit = Spades
	case "j":
		suit = Jokers
	default:
		// should never be hit due to the regexp
		panic("unknown suit")
	}

	copyNo := 0
	if match[3] != "" {
		copyNo, _ = strconv.Atoi(match[3])
	}

	card := &Card{
		Rank:  rank,
		Suit:  suit,
		Value: rank,
	}

	card.ID = cardID(card, copyNo)
	return card
}

// CardsFromString will returns a slice of cards
func CardsFromString(s string) []*Card {
	if s == "" {
		return []*Card{}
	}

	cardStrings := strings.Split(s, ",")
	cards := make([]*Card, len(cardStrings))
	for i, card := range cardStrings {
		cards[i] = CardFromString(card)
	}

	return cards
}

// CardToString converts a card (Ace of Clubs) to a string (14c)
func CardToString(card *Card) string {
	if card == nil {
		return ""
	}

	var suit string
	switch card.Suit {
	case Clubs:
		suit = "c"
	case Hearts:
		suit = "h"
	case Diamonds:
		suit = "d"
	case Spades:
		suit = "s"
	case Jokers:
		suit = "j"
	}

	return fmt.Sprintf("%d%s", card.Rank, suit)
}

// CardsToString will convert a slice of cards to a string in the format of 2c,3h,4s,...
func CardsToString(cards []*Card) string {
	c := make([]string, len(cards))
	for i, card := range cards {
		c[i] = CardToString(card)
	}

	return strings.Join(c, ",")
}

// IDs returns the ids of the cards
func IDs(cards []*Card) []string {
	ids := make([]string, len(cards))
	for i, card := range cards {
		ids[i] = card.ID
	}

	return ids
}

func cardID(card *Card, copyNo int) string {
	if copyNo == 0 {
		return CardToString(card)
	}

	return fmt.Sprintf("%s:%d", CardToString(card), copyNo)
}
