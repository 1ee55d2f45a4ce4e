package war

import (
	"cardroom-server/internal/rng"
	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/playable"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// move types
const (
	MovePlayCard          = "play_card"
	MoveAcknowledgeResult = "acknowledge_result"
)

const (
	deckSize      = 52
	faceDownCards = 3
)

// Engine runs the rules of war
type Engine struct {
	logger logrus.FieldLogger
}

// New returns a new war engine
func New(logger logrus.FieldLogger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Engine{logger: logger}
}

// Key returns "war"
func (e *Engine) Key() string {
	return "war"
}

// Name returns the display name
func (e *Engine) Name() string {
	return "War"
}

// Rules returns a description of the rules
func (e *Engine) Rules() string {
	return `Two players split a shuffled deck. Each play reveals the top card of both piles and the higher card takes both.
Ties go to war: each player lays three cards face down and one face up, and the higher face-up card takes the whole pile.
When your pile runs out your won cards are shuffled into a new pile. A player who cannot finish a war loses.
The game ends when one player holds all 52 cards.`
}

// Initialize deals half the deck to each player
func (e *Engine) Initialize(players []*playable.Player, _ playable.AdditionalData, seed int64) (playable.GameData, error) {
	if err := playable.ValidatePlayers(players, 2, 2); err != nil {
		return nil, err
	}

	d := deck.New()
	d.Shuffle(seed)

	g := &GameData{
		Seed:  seed,
		Phase: PhasePlaying,
		Players: []*Player{
			{UserID: players[0].UserID, DrawPile: make([]*deck.Card, 0, deckSize/2), WonCards: []*deck.Card{}},
			{UserID: players[1].UserID, DrawPile: make([]*deck.Card, 0, deckSize/2), WonCards: []*deck.Card{}},
		},
	}

	for i, card := range d.Cards {
		p := g.Players[i%2]
		p.DrawPile = append(p.DrawPile, card)
	}

	e.logger.WithField("seed", seed).Debug("dealt war")
	return g, nil
}

// ValidateMove returns nil if the move can be made
func (e *Engine) ValidateMove(data playable.GameData, move *playable.Move, actorID string) error {
	g, err := gameData(data)
	if err != nil {
		return err
	}

	return g.validate(move, actorID)
}

// ProcessMove applies the move to a copy of the data
func (e *Engine) ProcessMove(data playable.GameData, move *playable.Move, actorID string) (*playable.Outcome, error) {
	g, err := gameData(data)
	if err != nil {
		return nil, err
	}

	if err := g.validate(move, actorID); err != nil {
		return nil, err
	}

	ng := g.clone()

	var logs []*playable.LogMessage
	switch move.Type {
	case MovePlayCard:
		logs = ng.battle()
	case MoveAcknowledgeResult:
		ng.Phase = PhasePlaying
	}

	e.logger.WithFields(logrus.Fields{
		"actorID": actorID,
		"move":    move.Type,
		"phase":   ng.Phase,
	}).Debug("processed move")

	return &playable.Outcome{
		Data:     ng,
		GameOver: ng.Phase == PhaseFinished,
		Winners:  ng.winners(),
		Log:      logs,
	}, nil
}

// IsGameOver returns true if one player holds every card
func (e *Engine) IsGameOver(data playable.GameData) bool {
	g, err := gameData(data)
	if err != nil {
		return false
	}

	return g.Phase == PhaseFinished
}

// Winners returns the winner of the game
func (e *Engine) Winners(data playable.GameData) []string {
	g, err := gameData(data)
	if err != nil {
		return nil
	}

	return g.winners()
}

// CurrentTurn is always empty, either player can flip
func (e *Engine) CurrentTurn(_ playable.GameData) string {
	return ""
}

// Status returns a summary of the game
func (e *Engine) Status(data playable.GameData) string {
	g, err := gameData(data)
	if err != nil {
		return ""
	}

	switch g.Phase {
	case PhaseFinished:
		return fmt.Sprintf("%s won the game", g.WinnerID)
	case PhaseWar:
		return fmt.Sprintf("War! %s took %d cards", g.LastBattle.WinnerID, g.LastBattle.PileSize)
	}

	return fmt.Sprintf("Battle %d: %s has %d cards, %s has %d cards",
		g.BattleCount+1,
		g.Players[0].UserID, g.Players[0].CardCount(),
		g.Players[1].UserID, g.Players[1].CardCount())
}

// View returns the state without the order of the draw piles
func (e *Engine) View(data playable.GameData, _ string) interface{} {
	g, err := gameData(data)
	if err != nil {
		return nil
	}

	return g.view()
}

// DecodeData decodes stored game data
func (e *Engine) DecodeData(b []byte) (playable.GameData, error) {
	var g GameData
	if err := json.Unmarshal(b, &g); err != nil {
		return nil, err
	}

	if len(g.Players) != 2 {
		return nil, playable.ErrWrongGameData
	}

	return &g, nil
}

func gameData(data playable.GameData) (*GameData, error) {
	g, ok := data.(*GameData)
	if !ok || g == nil {
		return nil, playable.ErrWrongGameData
	}

	return g, nil
}

func (g *GameData) validate(move *playable.Move, actorID string) error {
	if move == nil {
		return playable.ErrUnknownMove
	}

	if g.playerIndex(actorID) == -1 {
		return playable.ErrNotPlayer
	}

	if g.Phase == PhaseFinished {
		return playable.ErrGameIsOver
	}

	switch move.Type {
	case MovePlayCard:
		if g.Phase == PhaseWar {
			return ErrAcknowledgeResult
		}

		for _, p := range g.Players {
			if p.CardCount() == 0 {
				return ErrNoCardsToPlay
			}
		}

		return nil
	case MoveAcknowledgeResult:
		if g.Phase != PhaseWar {
			return ErrNoResultToAcknowledge
		}

		return nil
	}

	return playable.ErrUnknownMove
}

func (g *GameData) winners() []string {
	if g.Phase != PhaseFinished {
		return nil
	}

	return []string{g.WinnerID}
}

// battle flips cards until one face-up card beats the other
// Each war needs four more cards per player, so the loop ends before the deck runs out
func (g *GameData) battle() []*playable.LogMessage {
	g.BattleCount++

	b := &Battle{}
	pile := make([]*deck.Card, 0, 2)
	need := 1
	for {
		if short := g.shortPlayers(need); len(short) > 0 {
			return g.forfeit(b, pile, short)
		}

		s := &Skirmish{
			FaceUp:   make([]*deck.Card, len(g.Players)),
			FaceDown: make([]int, len(g.Players)),
		}

		for i, p := range g.Players {
			for j := 1; j < need; j++ {
				pile = append(pile, g.draw(p))
				s.FaceDown[i]++
			}

			s.FaceUp[i] = g.draw(p)
			pile = append(pile, s.FaceUp[i])
		}

		b.Skirmishes = append(b.Skirmishes, s)

		if s.FaceUp[0].Value != s.FaceUp[1].Value {
			winner := 0
			if s.FaceUp[1].Value > s.FaceUp[0].Value {
				winner = 1
			}

			return g.award(b, pile, winner)
		}

		b.Wars++
		need = faceDownCards + 1
	}
}

func (g *GameData) shortPlayers(need int) []int {
	var short []int
	for i, p := range g.Players {
		if p.CardCount() < need {
			short = append(short, i)
		}
	}

	return short
}

// draw takes the top card of the draw pile, reshuffling the won cards if needed
func (g *GameData) draw(p *Player) *deck.Card {
	if len(p.DrawPile) == 0 {
		if len(p.WonCards) == 0 {
			panic(fmt.Sprintf("player %s has no cards to draw", p.UserID))
		}

		g.Reshuffles++
		p.DrawPile = deck.Shuffled(p.WonCards, rng.NewSeeded(g.Seed+int64(g.Reshuffles)))
		p.WonCards = []*deck.Card{}
	}

	card := p.DrawPile[0]
	p.DrawPile = p.DrawPile[1:]
	return card
}

func (g *GameData) award(b *Battle, pile []*deck.Card, winner int) []*playable.LogMessage {
	p := g.Players[winner]
	p.WonCards = append(p.WonCards, pile...)

	b.PileSize = len(pile)
	b.WinnerID = p.UserID
	g.LastBattle = b

	last := b.Skirmishes[len(b.Skirmishes)-1]
	var logs []*playable.LogMessage
	if b.Wars > 0 {
		g.Phase = PhaseWar
		logs = append(logs, playable.CardLogMessage(p.UserID, last.FaceUp, "{} won a war of %d cards", len(pile)))
	} else {
		g.Phase = PhasePlaying
		logs = append(logs, playable.CardLogMessage(p.UserID, last.FaceUp, "{} took the cards"))
	}

	if g.Players[1-winner].CardCount() == 0 {
		g.finish(winner)
		logs = append(logs, playable.SimpleLogMessage(p.UserID, "{} won the game"))
	}

	return logs
}

// forfeit ends the game when a war cannot be completed
// If both players are short the one holding more cards wins, and the first player wins an exact tie
func (g *GameData) forfeit(b *Battle, pile []*deck.Card, short []int) []*playable.LogMessage {
	winner := 1 - short[0]
	if len(short) > 1 {
		winner = 0
		if g.Players[1].CardCount() > g.Players[0].CardCount() {
			winner = 1
		}
	}

	loser := g.Players[1-winner]
	p := g.Players[winner]
	p.WonCards = append(p.WonCards, pile...)
	p.WonCards = append(p.WonCards, loser.DrawPile...)
	p.WonCards = append(p.WonCards, loser.WonCards...)
	loser.DrawPile = []*deck.Card{}
	loser.WonCards = []*deck.Card{}

	b.Forfeit = true
	b.PileSize = len(pile)
	b.WinnerID = p.UserID
	g.LastBattle = b
	g.finish(winner)

	return []*playable.LogMessage{
		playable.SimpleLogMessage(loser.UserID, "{} could not finish the war"),
		playable.SimpleLogMessage(p.UserID, "{} won the game"),
	}
}

func (g *GameData) finish(winner int) {
	g.Phase = PhaseFinished
	g.WinnerID = g.Players[winner].UserID
}
