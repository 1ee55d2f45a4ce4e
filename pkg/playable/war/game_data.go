package war

import (
	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/playable"
)

// Phase is the state of a game of war
type Phase string

// phase constants
const (
	PhasePlaying  Phase = "playing"
	PhaseWar      Phase = "war"
	PhaseFinished Phase = "finished"
)

// Player is one side of the table
type Player struct {
	UserID   string       `json:"userId"`
	DrawPile []*deck.Card `json:"drawPile"`
	WonCards []*deck.Card `json:"wonCards"`
}

// CardCount returns every card the player holds
func (p *Player) CardCount() int {
	return len(p.DrawPile) + len(p.WonCards)
}

func (p *Player) clone() *Player {
	return &Player{
		UserID:   p.UserID,
		DrawPile: append([]*deck.Card{}, p.DrawPile...),
		WonCards: append([]*deck.Card{}, p.WonCards...),
	}
}

// Skirmish is a single comparison of face-up cards
// The first skirmish of a battle has no face-down cards
type Skirmish struct {
	FaceUp   []*deck.Card `json:"faceUp"`
	FaceDown []int        `json:"faceDown"`
}

// Battle is the record of the last resolved play
type Battle struct {
	Skirmishes []*Skirmish `json:"skirmishes"`
	Wars       int         `json:"wars"`
	PileSize   int         `json:"pileSize"`
	WinnerID   string      `json:"winnerId"`
	// Forfeit is set when a player could not complete a war
	Forfeit bool `json:"forfeit"`
}

func (b *Battle) clone() *Battle {
	if b == nil {
		return nil
	}

	skirmishes := make([]*Skirmish, len(b.Skirmishes))
	for i, s := range b.Skirmishes {
		skirmishes[i] = &Skirmish{
			FaceUp:   append([]*deck.Card{}, s.FaceUp...),
			FaceDown: append([]int{}, s.FaceDown...),
		}
	}

	nb := *b
	nb.Skirmishes = skirmishes
	return &nb
}

// GameData is the authoritative state of a game of war
type GameData struct {
	Seed        int64     `json:"seed"`
	Phase       Phase     `json:"phase"`
	Players     []*Player `json:"players"`
	Reshuffles  int       `json:"reshuffles"`
	BattleCount int       `json:"battleCount"`
	LastBattle  *Battle   `json:"lastBattle"`
	WinnerID    string    `json:"winnerId"`
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
	ng.LastBattle = g.LastBattle.clone()
	return &ng
}

// TotalCards returns the number of cards held by both players
func (g *GameData) TotalCards() int {
	total := 0
	for _, p := range g.Players {
		total += p.CardCount()
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

// View is the state as shown to a player
// Cards in the draw piles are never shown
type View struct {
	Phase       Phase         `json:"phase"`
	Players     []*PlayerView `json:"players"`
	BattleCount int           `json:"battleCount"`
	LastBattle  *Battle       `json:"lastBattle"`
	WinnerID    string        `json:"winnerId"`
}

// PlayerView is a player as shown to everyone
type PlayerView struct {
	UserID      string `json:"userId"`
	CardsInPile int    `json:"cardsInPile"`
	CardsWon    int    `json:"cardsWon"`
}

func (g *GameData) view() *View {
	players := make([]*PlayerView, len(g.Players))
	for i, p := range g.Players {
		players[i] = &PlayerView{
			UserID:      p.UserID,
			CardsInPile: len(p.DrawPile),
			CardsWon:    len(p.WonCards),
		}
	}

	return &View{
		Phase:       g.Phase,
		Players:     players,
		BattleCount: g.BattleCount,
		LastBattle:  g.LastBattle.clone(),
		WinnerID:    g.WinnerID,
	}
}
