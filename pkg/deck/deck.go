package deck

import (
	"cardroom-server/internal/rng"
	"errors"
)

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Valuer assigns the game specific value of a card
type Valuer func(card *Card) int

// AceHigh values every card by its rank, with aces high
func AceHigh(card *Card) int {
	return card.Rank
}

// Option configures how a deck is built
type Option func(d *Deck)

// WithDecks builds a shoe of n standard decks
func WithDecks(n int) Option {
	return func(d *Deck) {
		if n < 1 {
			n = 1
		}

		d.decks = n
	}
}

// WithJokers adds n jokers to every standard deck in the shoe
func WithJokers(n int) Option {
	return func(d *Deck) {
		d.jokers = n
	}
}

// WithValuer sets the value of each card
func WithValuer(v Valuer) Option {
	return func(d *Deck) {
		d.valuer = v
	}
}

// Deck represents a playing deck
type Deck struct {
	Cards []*Card `json:"cards"`

	decks  int
	jokers int
	valuer Valuer
}

// New returns a new deck of cards.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New(opts ...Option) *Deck {
	d := &Deck{
		decks:  1,
		valuer: AceHigh,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.buildDeck()
	return d
}

// Size returns the number of cards in a full deck
func (d *Deck) Size() int {
	return d.decks * (52 + d.jokers)
}

func (d *Deck) buildDeck() {
	cards := make([]*Card, 0, d.Size())
	for copyNo := 0; copyNo < d.decks; copyNo++ {
		for _, suit := range StandardSuits {
			for rank := 2; rank <= 14; rank++ {
				cards = append(cards, d.newCard(rank, suit, copyNo))
			}
		}

		for i := 0; i < d.jokers; i++ {
			cards = append(cards, d.newCard(Joker, Jokers, copyNo*d.jokers+i))
		}
	}

	d.Cards = cards
}

func (d *Deck) newCard(rank int, suit Suit, copyNo int) *Card {
	card := &Card{
		Rank: rank,
		Suit: suit,
	}

	card.ID = cardID(card, copyNo)
	card.Value = d.valuer(card)
	return card
}

// Shuffle rebuilds the full deck and shuffles it with the seed
// The same seed always produces the same order
func (d *Deck) Shuffle(seed int64) {
	d.buildDeck()
	d.Cards = Shuffled(d.Cards, rng.NewSeeded(seed))
}

// Shuffled returns a Fisher-Yates shuffled copy of the cards
// The original slice is left untouched
func Shuffled(cards []*Card, g rng.Generator) []*Card {
	shuffled := make([]*Card, len(cards))
	copy(shuffled, cards)

	for j := len(shuffled) - 1; j > 0; j-- {
		i := g.Intn(j + 1)

		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled
}

// Draw will draw the next card
// If there are no more cards, an ErrEndOfDeck is returned along with a nil card.
func (d *Deck) Draw() (*Card, error) {
	if len(d.Cards) <= 0 {
		return nil, ErrEndOfDeck
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	return card, nil
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.Cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}
