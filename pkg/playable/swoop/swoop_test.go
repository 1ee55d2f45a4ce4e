package swoop

import (
	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/playable"
	"cardroom-server/pkg/snapshot"
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *Engine {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return New(logger)
}

func newPlayers(n int) []*playable.Player {
	players := make([]*playable.Player, n)
	for i := range players {
		players[i] = &playable.Player{UserID: fmt.Sprintf("p%d", i), PlayerNumber: i + 1}
	}

	return players
}

// slots parses four slots where "-" is an empty slot
func slots(s string) []*deck.Card {
	cards := make([]*deck.Card, faceUpSlots)
	if s == "" {
		return cards
	}

	for i, id := range strings.Split(s, ",") {
		if id != "-" {
			cards[i] = deck.CardFromString(id)
		}
	}

	return cards
}

func newPlayer(id, hand, faceUp, mystery string) *Player {
	return &Player{
		UserID:      id,
		Hand:        deck.CardsFromString(hand),
		FaceUp:      slots(faceUp),
		Mystery:     slots(mystery),
		RoundScores: []int{},
	}
}

// setupGame returns a game where p0 is to play on the pile
func setupGame(pile string, players ...*Player) *GameData {
	if len(players) == 0 {
		players = []*Player{
			newPlayer("p0", "7s,3c,9d,2c", "", ""),
			newPlayer("p1", "4c", "", ""),
			newPlayer("p2", "4d", "", ""),
		}
	}

	return &GameData{
		Seed:         1,
		Options:      DefaultOptions(),
		Phase:        PhasePlaying,
		Decks:        2,
		Players:      players,
		Pile:         deck.CardsFromString(pile),
		RemovedCards: []*deck.Card{},
		SetAside:     []*deck.Card{},
	}
}

func playMove(cards ...string) *playable.Move {
	return &playable.Move{Type: MovePlay, Cards: cards}
}

func process(t *testing.T, e *Engine, data playable.GameData, move *playable.Move, actorID string) *GameData {
	t.Helper()

	outcome, err := e.ProcessMove(data, move, actorID)
	require.NoError(t, err)
	return outcome.Data.(*GameData)
}

func TestValueAndPoints(t *testing.T) {
	tests := []struct {
		card    string
		value   int
		points  int
		special bool
	}{
		{"14s", 1, 1, false},
		{"2c", 2, 2, false},
		{"9h", 9, 9, false},
		{"10d", 0, 25, true},
		{"11c", 11, 10, false},
		{"12h", 12, 10, false},
		{"13s", 13, 10, false},
		{"15j", 0, 50, true},
	}

	for _, tt := range tests {
		t.Run(tt.card, func(t *testing.T) {
			card := deck.CardFromString(tt.card)
			assert.Equal(t, tt.value, Value(card))
			assert.Equal(t, tt.points, Points(card))
			assert.Equal(t, tt.special, IsSpecial(card))
		})
	}
}

func TestEngine_Initialize(t *testing.T) {
	tests := []struct {
		players  int
		decks    int
		setAside int
	}{
		{3, 2, 108 - 57},
		{4, 2, 108 - 76},
		{5, 3, 162 - 95},
		{6, 3, 162 - 114},
		{7, 4, 216 - 133},
		{8, 4, 216 - 152},
	}

	e := newEngine()
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d players", tt.players), func(t *testing.T) {
			a := assert.New(t)

			data, err := e.Initialize(newPlayers(tt.players), nil, 11)
			require.NoError(t, err)

			g := data.(*GameData)
			a.Equal(tt.decks, g.Decks)
			a.Equal(tt.setAside, len(g.SetAside))
			a.Equal(PhasePlaying, g.Phase)
			a.Equal("p0", e.CurrentTurn(g))
			a.Equal(0, len(g.Pile))

			seen := make(map[string]bool)
			jokers := 0
			for _, card := range append(allHeldCards(g), g.SetAside...) {
				a.False(seen[card.ID], card.ID)
				seen[card.ID] = true
				if card.IsJoker() {
					jokers++
				}
			}

			a.Equal(tt.decks*54, len(seen))
			a.Equal(tt.decks*2, jokers)

			for _, p := range g.Players {
				a.Equal(11, len(p.Hand))
				a.Equal(4, countSlots(p.FaceUp))
				a.Equal(4, countSlots(p.Mystery))
				a.Equal(19, p.CardCount())
			}
		})
	}

	_, err := e.Initialize(newPlayers(2), nil, 11)
	assert.EqualError(t, err, "expected 3–8 players, got 2")

	_, err = e.Initialize(newPlayers(3), playable.AdditionalData{"targetScore": float64(-1)}, 11)
	assert.Equal(t, ErrInvalidTargetScore, err)
}

func allHeldCards(g *GameData) []*deck.Card {
	var cards []*deck.Card
	for _, p := range g.Players {
		cards = append(cards, p.Cards()...)
	}

	return cards
}

func TestEngine_swoopTrigger(t *testing.T) {
	a := assert.New(t)
	e := newEngine()
	g := setupGame("7c,7d,7h")

	outcome, err := e.ProcessMove(g, playMove("7s"), "p0")
	a.NoError(err)

	ng := outcome.Data.(*GameData)
	a.True(ng.SwoopTriggered)
	a.Equal(0, len(ng.Pile))
	a.Equal(len(g.RemovedCards)+4, len(ng.RemovedCards))
	a.Equal(g.CurrentPlayer, ng.CurrentPlayer)
	a.Equal("p0", e.CurrentTurn(ng))
	a.Equal("Swoop! p0 goes again", e.Status(ng))

	// the next play clears the flag
	ng = process(t, e, ng, playMove("3c"), "p0")
	a.False(ng.SwoopTriggered)
	a.Equal("p1", e.CurrentTurn(ng))
}

func TestEngine_specialCardsSwoop(t *testing.T) {
	for _, special := range []string{"10h", "15j"} {
		t.Run(special, func(t *testing.T) {
			a := assert.New(t)
			e := newEngine()
			g := setupGame("5c,3d", newPlayer("p0", "2c,"+special, "", ""), newPlayer("p1", "4c", "", ""), newPlayer("p2", "4d", "", ""))

			ng := process(t, e, g, playMove(special), "p0")
			a.True(ng.SwoopTriggered)
			a.Equal(0, len(ng.Pile))
			a.Equal(3, len(ng.RemovedCards))
			a.Equal("p0", e.CurrentTurn(ng))
		})
	}
}

func TestEngine_ValidateMove_play(t *testing.T) {
	e := newEngine()
	p0 := newPlayer("p0", "9d,5s,5s:1,2c,14d,3c,3h", "6c,-,-,-", "8c,13s,-,-")

	tests := []struct {
		name string
		pile string
		move *playable.Move
		err  error
	}{
		{"anything on an empty pile", "", playMove("9d"), nil},
		{"lower", "5c", playMove("2c"), nil},
		{"equal", "9c", playMove("9d"), nil},
		{"ace is low", "2c", playMove("14d"), nil},
		{"higher", "5c", playMove("9d"), ErrPlayTooHigh},
		{"face up card", "7c", playMove("6c"), nil},
		{"pair", "3d", playMove("3c", "3h"), nil},
		{"completes four", "5c,5d", playMove("5s", "5s:1"), nil},
		{"more than four", "5c,5d,5h", playMove("5s", "5s:1"), ErrTooManyOfRank},
		{"mixed ranks", "9c", playMove("3c", "2c"), ErrMixedRanks},
		{"duplicate", "9c", playMove("3c", "3c"), ErrDuplicateCard},
		{"too many", "9c", playMove("3c", "3h", "3c", "3h", "3c"), ErrPlayCount},
		{"none", "9c", playMove(), ErrPlayCount},
		{"not owned", "9c", playMove("4h"), ErrCardNotOwned},
		{"covered mystery", "9c", playMove("8c"), ErrMysteryCovered},
		{"uncovered mystery beats the pile", "2c", playMove("13s"), nil},
		{"same mystery card twice", "", playMove("13s", "13s"), ErrDuplicateCard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := setupGame(tt.pile, p0.clone(), newPlayer("p1", "4c", "", ""), newPlayer("p2", "4d", "", ""))
			assert.Equal(t, tt.err, e.ValidateMove(g, tt.move, "p0"))
		})
	}

	g := setupGame("", newPlayer("p0", "13c", "", "13s,-,-,-"), newPlayer("p1", "4c", "", ""), newPlayer("p2", "4d", "", ""))
	assert.Equal(t, ErrMysteryAlone, e.ValidateMove(g, playMove("13c", "13s"), "p0"))
	assert.Equal(t, playable.ErrNotPlayersTurn, e.ValidateMove(g, playMove("4c"), "p1"))
	assert.Equal(t, playable.ErrNotPlayer, e.ValidateMove(g, playMove("4c"), "p9"))
	assert.Equal(t, ErrRoundNotOver, e.ValidateMove(g, &playable.Move{Type: MoveContinueRound}, "p1"))
	assert.Equal(t, playable.ErrUnknownMove, e.ValidateMove(g, &playable.Move{Type: "BID"}, "p0"))
}

func TestEngine_pickup(t *testing.T) {
	a := assert.New(t)
	e := newEngine()

	g := setupGame("5c,4d", newPlayer("p0", "9d,2c", "", ""), newPlayer("p1", "4c", "", ""), newPlayer("p2", "4d:1", "", ""))

	// beating the pile takes it along with the attempted cards
	a.Equal(ErrPlayTooHigh, e.ValidateMove(g, playMove("9d"), "p0"))
	ng := process(t, e, g, &playable.Move{Type: MovePickup, Cards: []string{"9d"}}, "p0")
	a.Equal("2c,5c,4d,9d", deck.CardsToString(ng.Players[0].Hand))
	a.Equal(0, len(ng.Pile))
	a.Equal("p1", e.CurrentTurn(ng))
	a.Equal(MovePickup, ng.LastAction.Type)

	// a plain pickup takes the pile
	ng = process(t, e, g, &playable.Move{Type: MovePickup}, "p0")
	a.Equal("2c,5c,4d,9d", deck.CardsToString(ng.Players[0].Hand))
	a.Equal("p1", e.CurrentTurn(ng))

	// nothing to pick up
	a.Equal(ErrEmptyPile, e.ValidateMove(ng, &playable.Move{Type: MovePickup}, "p1"))

	g = setupGame("5c", newPlayer("p0", "2c", "", "9d,-,-,-"), newPlayer("p1", "4c", "", ""), newPlayer("p2", "4d", "", ""))
	a.Equal(ErrMysteryPickup, e.ValidateMove(g, &playable.Move{Type: MovePickup, Cards: []string{"9d"}}, "p0"))
}

func TestEngine_ValidateMove_pickupWithCards(t *testing.T) {
	e := newEngine()
	p0 := newPlayer("p0", "2c,9d,13h,13h:1,15j", "3h,10d,-,-", "")

	tests := []struct {
		name  string
		cards []string
		err   error
	}{
		{"higher hand card", []string{"13h"}, nil},
		{"higher pair", []string{"13h", "13h:1"}, nil},
		{"lower hand card", []string{"2c"}, ErrPickupDoesNotBeat},
		{"lower face up card", []string{"3h"}, ErrPickupDoesNotBeat},
		{"equal card", []string{"9d"}, ErrPickupDoesNotBeat},
		{"ten", []string{"10d"}, ErrPickupDoesNotBeat},
		{"joker", []string{"15j"}, ErrPickupDoesNotBeat},
		{"mixed ranks", []string{"13h", "9d"}, ErrMixedRanks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := setupGame("9c", p0.clone(), newPlayer("p1", "4c", "", ""), newPlayer("p2", "4d", "", ""))
			before := g.clone()

			move := &playable.Move{Type: MovePickup, Cards: tt.cards}
			assert.Equal(t, tt.err, e.ValidateMove(g, move, "p0"))
			if tt.err != nil {
				_, err := e.ProcessMove(g, move, "p0")
				assert.Equal(t, tt.err, err)
				assert.Equal(t, before, g)
			}
		})
	}
}

func TestEngine_mysteryCard(t *testing.T) {
	a := assert.New(t)
	e := newEngine()

	// a mystery card that beats the pile picks it up
	g := setupGame("5c", newPlayer("p0", "2c", "-,6c,-,-", "13s,3h,-,-"), newPlayer("p1", "4c", "", ""), newPlayer("p2", "4d", "", ""))
	ng := process(t, e, g, playMove("13s"), "p0")
	a.Equal("2c,5c,13s", deck.CardsToString(ng.Players[0].Hand))
	a.Nil(ng.Players[0].Mystery[0])
	a.Equal(0, len(ng.Pile))
	a.True(ng.LastAction.Flipped)
	a.Equal(MovePickup, ng.LastAction.Type)
	a.Equal("p1", e.CurrentTurn(ng))

	// a mystery card that plays goes on the pile
	g = setupGame("5c", newPlayer("p0", "2c", "", "3h,-,-,-"), newPlayer("p1", "4c", "", ""), newPlayer("p2", "4d", "", ""))
	ng = process(t, e, g, playMove("3h"), "p0")
	a.Equal("5c,3h", deck.CardsToString(ng.Pile))
	a.Nil(ng.Players[0].Mystery[0])
	a.True(ng.LastAction.Flipped)
	a.Equal(MovePlay, ng.LastAction.Type)
}

func TestEngine_skip(t *testing.T) {
	a := assert.New(t)
	e := newEngine()

	for _, pile := range []string{"", "5c"} {
		g := setupGame(pile)
		ng := process(t, e, g, &playable.Move{Type: MoveSkip}, "p0")
		a.Equal("p1", e.CurrentTurn(ng))
		a.Equal(g.Players, ng.Players)
		a.Equal(g.Pile, ng.Pile)
	}
}

func TestEngine_roundAndGameOver(t *testing.T) {
	a := assert.New(t)
	e := newEngine()

	g := setupGame("",
		newPlayer("p0", "3c", "", ""),
		newPlayer("p1", "10s,15j", "13h,-,-,-", "14c,-,-,-"),
		newPlayer("p2", "2c", "", ""),
	)

	outcome, err := e.ProcessMove(g, playMove("3c"), "p0")
	a.NoError(err)
	a.False(outcome.GameOver)

	ng := outcome.Data.(*GameData)
	a.Equal(PhaseRoundOver, ng.Phase)
	a.Equal("p0", ng.RoundWinnerID)
	a.Equal("", e.CurrentTurn(ng))
	a.Equal([]int{0, 86, 2}, []int{ng.Players[0].Score, ng.Players[1].Score, ng.Players[2].Score})
	a.Equal([]int{86}, ng.Players[1].RoundScores)
	a.Equal(ErrNotPlaying, e.ValidateMove(ng, &playable.Move{Type: MoveSkip}, "p1"))

	next := process(t, e, ng, &playable.Move{Type: MoveContinueRound}, "p2")
	a.Equal(1, next.Round)
	a.Equal(1, next.StartingPlayer)
	a.Equal("p1", e.CurrentTurn(next))
	a.Equal(PhasePlaying, next.Phase)
	a.Equal(86, next.Players[1].Score)
	for _, p := range next.Players {
		a.Equal(19, p.CardCount())
	}

	// crossing the target ends the game and the lowest score wins
	g.Players[1].Score = 450
	outcome, err = e.ProcessMove(g, playMove("3c"), "p0")
	a.NoError(err)
	a.True(outcome.GameOver)
	a.Equal([]string{"p0"}, outcome.Winners)
	a.Equal(PhaseGameOver, outcome.Data.(*GameData).Phase)

	_, err = e.ProcessMove(outcome.Data, &playable.Move{Type: MoveContinueRound}, "p0")
	a.Equal(playable.ErrGameIsOver, err)
}

func TestEngine_rejectionIsIdempotent(t *testing.T) {
	e := newEngine()
	g := setupGame("5c")

	before := g.clone()
	for i := 0; i < 2; i++ {
		assert.Equal(t, ErrPlayTooHigh, e.ValidateMove(g, playMove("9d"), "p0"))
		_, err := e.ProcessMove(g, playMove("9d"), "p0")
		assert.Equal(t, ErrPlayTooHigh, err)
		assert.Equal(t, before, g)
	}
}

// nextMove plays the first legal single card, then picks up, then skips
func nextMove(e *Engine, g *GameData) *playable.Move {
	p := g.Players[g.CurrentPlayer]
	for _, card := range p.Cards() {
		move := playMove(card.ID)
		if e.ValidateMove(g, move, p.UserID) == nil {
			return move
		}
	}

	if len(g.Pile) > 0 {
		return &playable.Move{Type: MovePickup}
	}

	return &playable.Move{Type: MoveSkip}
}

func TestEngine_shrinkOnly(t *testing.T) {
	e := newEngine()

	for seed := int64(1); seed <= 5; seed++ {
		data, err := e.Initialize(newPlayers(4), nil, seed)
		require.NoError(t, err)

		g := data.(*GameData)
		shoe := len(allHeldCards(g)) + len(g.SetAside)
		removed := make(map[string]bool)

		for i := 0; i < 2000 && g.Phase == PhasePlaying; i++ {
			actor := g.CurrentPlayer
			before := make([]int, len(g.Players))
			for j, p := range g.Players {
				before[j] = p.CardCount()
			}

			ng := process(t, e, g, nextMove(e, g), g.Players[actor].UserID)

			for j, p := range ng.Players {
				if j != actor {
					require.Equal(t, before[j], p.CardCount(), "other players are never touched")
					continue
				}

				if ng.LastAction.Type != MovePickup {
					require.True(t, p.CardCount() <= before[j], "only a pickup grows a hand")
				}
			}

			require.True(t, len(ng.RemovedCards) >= len(g.RemovedCards))
			for _, card := range ng.RemovedCards {
				removed[card.ID] = true
			}

			for _, card := range append(allHeldCards(ng), ng.Pile...) {
				require.False(t, removed[card.ID], "%s came back", card.ID)
			}

			require.Equal(t, shoe, len(allHeldCards(ng))+len(ng.Pile)+len(ng.RemovedCards)+len(ng.SetAside))
			g = ng
		}
	}
}

func TestEngine_View(t *testing.T) {
	a := assert.New(t)
	e := newEngine()

	data, err := e.Initialize(newPlayers(3), nil, 3)
	require.NoError(t, err)

	g := data.(*GameData)
	view := e.View(g, "p2").(*View)
	a.Equal(g.Players[2].Hand, view.Hand)
	a.Equal([]bool{true, true, true, true}, view.Players[0].Mystery)
	a.Equal(11, view.Players[0].CardsInHand)
	a.Equal(g.Players[0].FaceUp, view.Players[0].FaceUp)
	a.Equal(len(g.SetAside), view.SetAside)

	view = e.View(g, "spectator").(*View)
	a.Equal(0, len(view.Hand))
	a.Equal("Round 1: waiting for p0", e.Status(g))

	snapshot.ValidateSnapshot(t, view, 0)
}
