package ohhell

import (
	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/playable"
)

// Phase is the phase of the current round
type Phase string

// phase constants
const (
	PhaseBidding   Phase = "BIDDING"
	PhasePlaying   Phase = "PLAYING"
	PhaseRoundOver Phase = "ROUND_OVER"
	PhaseGameOver  Phase = "GAME_OVER"
)

// Player is the state of an individual player
type Player struct {
	UserID      string    `json:"userId"`
	Hand        deck.Hand `json:"hand"`
	Bid         *int      `json:"bid"`
	TricksWon   int       `json:"tricksWon"`
	Score       int       `json:"score"`
	RoundScores []int     `json:"roundScores"`
}

func (p *Player) clone() *Player {
	np := *p
	np.Hand = p.Hand.Clone()
	np.RoundScores = append([]int{}, p.RoundScores...)
	if p.Bid != nil {
		bid := *p.Bid
		np.Bid = &bid
	}

	return &np
}

// PlayedCard is a card played into a trick
type PlayedCard struct {
	PlayerID string     `json:"playerId"`
	Card     *deck.Card `json:"card"`
}

// Trick is the trick in progress
type Trick struct {
	Leader int           `json:"leader"`
	Cards  []*PlayedCard `json:"cards"`
}

// LeadSuit returns the suit of the first card, or an empty string if nothing was led
func (t *Trick) LeadSuit() deck.Suit {
	if t == nil || len(t.Cards) == 0 {
		return ""
	}

	return t.Cards[0].Card.Suit
}

func (t *Trick) clone() *Trick {
	if t == nil {
		return nil
	}

	return &Trick{
		Leader: t.Leader,
		Cards:  append([]*PlayedCard{}, t.Cards...),
	}
}

// CompletedTrick is the result of the last trick
type CompletedTrick struct {
	Cards    []*PlayedCard `json:"cards"`
	WinnerID string        `json:"winnerId"`
}

func (c *CompletedTrick) clone() *CompletedTrick {
	if c == nil {
		return nil
	}

	return &CompletedTrick{
		Cards:    append([]*PlayedCard{}, c.Cards...),
		WinnerID: c.WinnerID,
	}
}

// GameData is the authoritative state of a game of Oh Hell
type GameData struct {
	Seed    int64   `json:"seed"`
	Options Options `json:"options"`
	Phase   Phase   `json:"phase"`

	// Round is zero-based. HandSize is the effective max hand size for the player count
	Round          int `json:"round"`
	HandSize       int `json:"handSize"`
	CardsThisRound int `json:"cardsThisRound"`
	Dealer         int `json:"dealer"`
	CurrentPlayer  int `json:"currentPlayer"`

	Players   []*Player    `json:"players"`
	TrumpCard *deck.Card   `json:"trumpCard"`
	Undealt   []*deck.Card `json:"undealt"`
	// Discards are the cards of completed tricks this round
	Discards    []*deck.Card    `json:"discards"`
	Trick       *Trick          `json:"trick"`
	LastTrick   *CompletedTrick `json:"lastTrick"`
	TrumpBroken bool            `json:"trumpBroken"`
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
	ng.Undealt = append([]*deck.Card{}, g.Undealt...)
	ng.Discards = append([]*deck.Card{}, g.Discards...)
	ng.Trick = g.Trick.clone()
	ng.LastTrick = g.LastTrick.clone()
	return &ng
}

// TotalRounds returns the number of rounds in the game
func (g *GameData) TotalRounds() int {
	return totalRounds(g.HandSize)
}

// TrumpSuit returns the trump suit, or an empty string if there is no trump this round
func (g *GameData) TrumpSuit() deck.Suit {
	if g.TrumpCard == nil {
		return ""
	}

	return g.TrumpCard.Suit
}

// CardsAccountedFor returns every card of the deck, wherever it is this round
func (g *GameData) CardsAccountedFor() int {
	total := len(g.Undealt) + len(g.Discards)
	if g.TrumpCard != nil {
		total++
	}

	if g.Trick != nil {
		total += len(g.Trick.Cards)
	}

	for _, p := range g.Players {
		total += len(p.Hand)
	}

	return total
}

func (g *GameData) playerIndex(userID string) int {
	for i, p := range g.Players {
		if p.UserID == userID {
			return i
		}
	}

	return -1
}

func (g *GameData) sumOfBids() int {
	sum := 0
	for _, p := range g.Players {
		if p.Bid != nil {
			sum += *p.Bid
		}
	}

	return sum
}

func (g *GameData) next(i int) int {
	return (i + 1) % len(g.Players)
}

// View is the game as seen by a single player
type View struct {
	Phase          Phase           `json:"phase"`
	Round          int             `json:"round"`
	TotalRounds    int             `json:"totalRounds"`
	CardsThisRound int             `json:"cardsThisRound"`
	DealerID       string          `json:"dealerId"`
	CurrentTurn    string          `json:"currentTurn"`
	TrumpCard      *deck.Card      `json:"trumpCard"`
	TrumpBroken    bool            `json:"trumpBroken"`
	Trick          []*PlayedCard   `json:"trick"`
	LastTrick      *CompletedTrick `json:"lastTrick"`
	Players        []*PlayerView   `json:"players"`
	// Hand is only populated for the viewer
	Hand deck.Hand `json:"hand"`
}

// PlayerView is the public information of a player
type PlayerView struct {
	UserID      string `json:"userId"`
	CardsInHand int    `json:"cardsInHand"`
	Bid         *int   `json:"bid"`
	TricksWon   int    `json:"tricksWon"`
	Score       int    `json:"score"`
	RoundScores []int  `json:"roundScores"`
}
