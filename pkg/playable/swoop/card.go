package swoop

import "cardroom-server/pkg/deck"

// IsSpecial returns true for the cards that always play and always swoop
func IsSpecial(card *deck.Card) bool {
	return card.IsJoker() || card.Rank == 10
}

// Value is the swoop order of a card. Aces are low, and 10s and jokers are 0
func Value(card *deck.Card) int {
	if IsSpecial(card) {
		return 0
	}

	return card.AceLowRank()
}

// Points is the penalty for holding the card at the end of a round
func Points(card *deck.Card) int {
	switch {
	case card.IsJoker():
		return 50
	case card.Rank == 10:
		return 25
	case card.Rank >= deck.Jack && card.Rank <= deck.King:
		return 10
	}

	return card.AceLowRank()
}

// decksFor returns the number of decks shuffled together for the number of players
func decksFor(players int) int {
	switch {
	case players <= 4:
		return 2
	case players <= 6:
		return 3
	}

	return 4
}
