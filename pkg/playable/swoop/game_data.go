package swoop

import (
	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/playable"
)

// Phase is the phase of the game
type Phase string

// phase constants
const (
	PhasePlaying   Phase = "PLAYING"
	PhaseRoundOver Phase = "ROUND_OVER"
	PhaseGameOver  Phase = "GAME_OVER"
)

const (
	handSize     = 11
	faceUpSlots  = 4
	mysterySlots = faceUpSlots
	maxPlay      = 4
	swoopRun     = 4
)

type zone int

const (
	zoneHand zone = iota
	zoneFaceUp
	zoneMystery
)

// Player is the state of an individual player
// FaceUp and Mystery have a fixed number of slots. An empty slot is nil
type Player struct {
	UserID      string       `json:"userId"`
	Hand        deck.Hand    `json:"hand"`
	FaceUp      []*deck.Card `json:"faceUp"`
	Mystery     []*deck.Card `json:"mystery"`
	Score       int          `json:"score"`
	RoundScores []int        `json:"roundScores"`
}

// CardCount returns the number of cards left in all three zones
func (p *Player) CardCount() int {
	return len(p.Hand) + countSlots(p.FaceUp) + countSlots(p.Mystery)
}

// Cards returns every card the player holds
func (p *Player) Cards() []*deck.Card {
	cards := make([]*deck.Card, 0, p.CardCount())
	cards = append(cards, p.Hand...)
	for _, slots := range [][]*deck.Card{p.FaceUp, p.Mystery} {
		for _, card := range slots {
			if card != nil {
				cards = append(cards, card)
			}
		}
	}

	return cards
}

func (p *Player) clone() *Player {
	np := *p
	np.Hand = p.Hand.Clone()
	np.FaceUp = append([]*deck.Card{}, p.FaceUp...)
	np.Mystery = append([]*deck.Card{}, p.Mystery...)
	np.RoundScores = append([]int{}, p.RoundScores...)
	return &np
}

type location struct {
	card *deck.Card
	zone zone
	slot int
}

// locate finds the card in the player's zones
func (p *Player) locate(id string) (location, bool) {
	if card := p.Hand.FindByID(id); card != nil {
		return location{card: card, zone: zoneHand}, true
	}

	for i, card := range p.FaceUp {
		if card != nil && card.ID == id {
			return location{card: card, zone: zoneFaceUp, slot: i}, true
		}
	}

	for i, card := range p.Mystery {
		if card != nil && card.ID == id {
			return location{card: card, zone: zoneMystery, slot: i}, true
		}
	}

	return location{}, false
}

func (p *Player) remove(loc location) {
	switch loc.zone {
	case zoneHand:
		p.Hand = p.Hand.Without(loc.card.ID)
	case zoneFaceUp:
		p.FaceUp[loc.slot] = nil
	case zoneMystery:
		p.Mystery[loc.slot] = nil
	}
}

func countSlots(slots []*deck.Card) int {
	n := 0
	for _, card := range slots {
		if card != nil {
			n++
		}
	}

	return n
}

// Action is the last move made
type Action struct {
	PlayerID string       `json:"playerId"`
	Type     string       `json:"type"`
	Cards    []*deck.Card `json:"cards"`
	// Flipped is set when a mystery card was turned over
	Flipped bool `json:"flipped"`
}

// GameData is the authoritative state of a game of swoop
type GameData struct {
	Seed           int64   `json:"seed"`
	Options        Options `json:"options"`
	Phase          Phase   `json:"phase"`
	Round          int     `json:"round"`
	Decks          int     `json:"decks"`
	StartingPlayer int     `json:"startingPlayer"`
	CurrentPlayer  int     `json:"currentPlayer"`

	Players []*Player    `json:"players"`
	Pile    []*deck.Card `json:"pile"`
	// RemovedCards have been swooped and never come back this round
	RemovedCards []*deck.Card `json:"removedCards"`
	// SetAside are the cards left over after the deal
	SetAside []*deck.Card `json:"setAside"`

	SwoopTriggered bool    `json:"swoopTriggered"`
	LastAction     *Action `json:"lastAction"`
	RoundWinnerID  string  `json:"roundWinnerId"`
}

// Clone returns a deep copy of the game data
func (g *GameData) Clone() playable.GameData {
	return g.clone()
}

func (g *GameData) clone() *GameData {
	players := make([]*Player, len(g.Players))
	for i, p := range g.Players {
		players[i] = p.clone()
	}

	ng := *g
	ng.Players = players
	ng.Pile = append([]*deck.Card{}, g.Pile...)
	ng.RemovedCards = append([]*deck.Card{}, g.RemovedCards...)
	ng.SetAside = append([]*deck.Card{}, g.SetAside...)
	if g.LastAction != nil {
		action := *g.LastAction
		action.Cards = append([]*deck.Card{}, g.LastAction.Cards...)
		ng.LastAction = &action
	}

	return &ng
}

// TopCard returns the top card of the pile, or nil
func (g *GameData) TopCard() *deck.Card {
	if len(g.Pile) == 0 {
		return nil
	}

	return g.Pile[len(g.Pile)-1]
}

// topRun returns how many cards of the top card's rank sit on top of the pile
func (g *GameData) topRun() int {
	top := g.TopCard()
	if top == nil {
		return 0
	}

	n := 0
	for i := len(g.Pile) - 1; i >= 0 && g.Pile[i].Rank == top.Rank; i-- {
		n++
	}

	return n
}

func (g *GameData) playerIndex(userID string) int {
	for i, p := range g.Players {
		if p.UserID == userID {
			return i
		}
	}

	return -1
}

func (g *GameData) next(i int) int {
	return (i + 1) % len(g.Players)
}

// View is the game as seen by a single player
type View struct {
	Phase          Phase         `json:"phase"`
	Round          int           `json:"round"`
	CurrentTurn    string        `json:"currentTurn"`
	Pile           []*deck.Card  `json:"pile"`
	RemovedCards   int           `json:"removedCards"`
	SetAside       int           `json:"setAside"`
	SwoopTriggered bool          `json:"swoopTriggered"`
	LastAction     *Action       `json:"lastAction"`
	RoundWinnerID  string        `json:"roundWinnerId"`
	Players        []*PlayerView `json:"players"`
	// Hand is only populated for the viewer
	Hand deck.Hand `json:"hand"`
}

// PlayerView is the public information of a player
// Mystery cards are never shown, only whether the slot is filled
type PlayerView struct {
	UserID      string       `json:"userId"`
	CardsInHand int          `json:"cardsInHand"`
	FaceUp      []*deck.Card `json:"faceUp"`
	Mystery     []bool       `json:"mystery"`
	Score       int          `json:"score"`
	RoundScores []int        `json:"roundScores"`
}
