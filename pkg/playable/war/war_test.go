package war

import (
	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/playable"
	"cardroom-server/pkg/snapshot"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	playCard    = &playable.Move{Type: MovePlayCard}
	acknowledge = &playable.Move{Type: MoveAcknowledgeResult}
)

func newEngine() *Engine {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return New(logger)
}

func players() []*playable.Player {
	return []*playable.Player{
		{UserID: "alice", DisplayName: "Alice", PlayerNumber: 1},
		{UserID: "bob", DisplayName: "Bob", PlayerNumber: 2},
	}
}

// setupGame returns a game where each player's draw pile is in the given order
func setupGame(alice, bob string) *GameData {
	return &GameData{
		Seed:  1,
		Phase: PhasePlaying,
		Players: []*Player{
			{UserID: "alice", DrawPile: deck.CardsFromString(alice), WonCards: []*deck.Card{}},
			{UserID: "bob", DrawPile: deck.CardsFromString(bob), WonCards: []*deck.Card{}},
		},
	}
}

func TestEngine_Initialize(t *testing.T) {
	e := newEngine()

	data, err := e.Initialize(players(), nil, 42)
	require.NoError(t, err)

	g := data.(*GameData)
	assert.Equal(t, PhasePlaying, g.Phase)
	assert.Equal(t, int64(42), g.Seed)
	assert.Equal(t, 26, len(g.Players[0].DrawPile))
	assert.Equal(t, 26, len(g.Players[1].DrawPile))
	assert.Equal(t, 52, g.TotalCards())

	seen := make(map[string]bool)
	for _, p := range g.Players {
		for _, card := range p.DrawPile {
			assert.False(t, seen[card.ID], card.ID)
			seen[card.ID] = true
		}
	}

	again, err := e.Initialize(players(), nil, 42)
	require.NoError(t, err)
	assert.Equal(t, g, again)

	other, err := e.Initialize(players(), nil, 43)
	require.NoError(t, err)
	assert.NotEqual(t, g.Players[0].DrawPile, other.(*GameData).Players[0].DrawPile)

	_, err = e.Initialize(players()[:1], nil, 42)
	assert.EqualError(t, err, "expected 2–2 players, got 1")
}

func TestEngine_ProcessMove_higherCardWins(t *testing.T) {
	a := assert.New(t)
	e := newEngine()
	g := setupGame("14s,2c", "13h,3d")

	outcome, err := e.ProcessMove(g, playCard, "bob")
	a.NoError(err)
	a.False(outcome.GameOver)

	ng := outcome.Data.(*GameData)
	a.Equal(PhasePlaying, ng.Phase)
	a.Equal("14s,13h", deck.CardsToString(ng.Players[0].WonCards))
	a.Equal(0, len(ng.Players[1].WonCards))
	a.Equal("alice", ng.LastBattle.WinnerID)
	a.Equal(2, ng.LastBattle.PileSize)
	a.Equal(0, ng.LastBattle.Wars)
	a.Equal(1, ng.BattleCount)

	// the original is untouched
	a.Equal(2, len(g.Players[0].DrawPile))
	a.Nil(g.LastBattle)
}

func TestEngine_ProcessMove_kingTie(t *testing.T) {
	a := assert.New(t)
	e := newEngine()
	g := setupGame("13s,2c,3c,4c,14s,5c", "13h,2d,3d,4d,10s,6d")

	outcome, err := e.ProcessMove(g, playCard, "alice")
	a.NoError(err)

	ng := outcome.Data.(*GameData)
	a.Equal(PhaseWar, ng.Phase)
	a.Equal(10, len(ng.Players[0].WonCards))
	a.Equal(0, len(ng.Players[1].WonCards))
	a.Equal("5c", deck.CardsToString(ng.Players[0].DrawPile))
	a.Equal("6d", deck.CardsToString(ng.Players[1].DrawPile))
	a.Equal(12, ng.TotalCards())

	b := ng.LastBattle
	a.Equal(1, b.Wars)
	a.Equal(10, b.PileSize)
	a.Equal("alice", b.WinnerID)
	a.Equal(2, len(b.Skirmishes))
	a.Equal([]int{3, 3}, b.Skirmishes[1].FaceDown)
	a.Equal("14s,10s", deck.CardsToString(b.Skirmishes[1].FaceUp))

	_, err = e.ProcessMove(ng, playCard, "alice")
	a.Equal(ErrAcknowledgeResult, err)

	outcome, err = e.ProcessMove(ng, acknowledge, "bob")
	a.NoError(err)
	a.Equal(PhasePlaying, outcome.Data.(*GameData).Phase)

	_, err = e.ProcessMove(outcome.Data, acknowledge, "bob")
	a.Equal(ErrNoResultToAcknowledge, err)
}

func TestEngine_ProcessMove_doubleWar(t *testing.T) {
	a := assert.New(t)
	e := newEngine()
	g := setupGame("9s,2c,3c,4c,8c,2h,3h,4h,7c", "9h,2d,3d,4d,8d,5s,6s,7s,12d")

	outcome, err := e.ProcessMove(g, playCard, "alice")
	a.NoError(err)

	ng := outcome.Data.(*GameData)
	a.Equal(2, ng.LastBattle.Wars)
	a.Equal(18, ng.LastBattle.PileSize)
	a.Equal("bob", ng.LastBattle.WinnerID)
	a.Equal(18, len(ng.Players[1].WonCards))
	a.True(outcome.GameOver)
	a.Equal([]string{"bob"}, outcome.Winners)
	a.Equal(PhaseFinished, ng.Phase)
}

func TestEngine_ProcessMove_shortage(t *testing.T) {
	a := assert.New(t)
	e := newEngine()

	g := setupGame("5s,2c", "5h,2d,3d,4d,6d,7d")
	outcome, err := e.ProcessMove(g, playCard, "alice")
	a.NoError(err)
	a.True(outcome.GameOver)
	a.Equal([]string{"bob"}, outcome.Winners)

	ng := outcome.Data.(*GameData)
	a.Equal(8, ng.Players[1].CardCount())
	a.Equal(0, ng.Players[0].CardCount())
	a.True(ng.LastBattle.Forfeit)
	a.Equal(8, ng.TotalCards())

	// both short and even, the first player wins
	g = setupGame("5s,2c", "5h,3d")
	outcome, err = e.ProcessMove(g, playCard, "bob")
	a.NoError(err)
	a.Equal([]string{"alice"}, outcome.Winners)
	a.Equal(4, outcome.Data.(*GameData).Players[0].CardCount())

	// both short, more cards wins
	g = setupGame("5s,2c", "5h,3d,4d")
	outcome, err = e.ProcessMove(g, playCard, "bob")
	a.NoError(err)
	a.Equal([]string{"bob"}, outcome.Winners)

	_, err = e.ProcessMove(outcome.Data, playCard, "bob")
	a.Equal(playable.ErrGameIsOver, err)
}

func TestEngine_ProcessMove_reshuffle(t *testing.T) {
	a := assert.New(t)
	e := newEngine()

	g := setupGame("", "2d,3d")
	g.Players[0].WonCards = deck.CardsFromString("10s,11s,12s")
	g.Seed = 99

	outcome, err := e.ProcessMove(g, playCard, "alice")
	a.NoError(err)

	ng := outcome.Data.(*GameData)
	a.Equal(1, ng.Reshuffles)
	a.Equal(2, len(ng.Players[0].DrawPile))
	a.Equal(2, len(ng.Players[0].WonCards))
	a.Equal(5, ng.TotalCards())

	// reshuffles are derived from the seed
	again, err := e.ProcessMove(g, playCard, "bob")
	a.NoError(err)
	a.Equal(ng.Players[0].DrawPile, again.Data.(*GameData).Players[0].DrawPile)
}

func TestEngine_ValidateMove(t *testing.T) {
	e := newEngine()
	g := setupGame("2c", "3c")

	tests := []struct {
		name    string
		move    *playable.Move
		actorID string
		err     error
	}{
		{"play", playCard, "alice", nil},
		{"other player", playCard, "bob", nil},
		{"stranger", playCard, "carol", playable.ErrNotPlayer},
		{"nothing to acknowledge", acknowledge, "alice", ErrNoResultToAcknowledge},
		{"unknown", &playable.Move{Type: "BID"}, "alice", playable.ErrUnknownMove},
		{"nil", nil, "alice", playable.ErrUnknownMove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.err, e.ValidateMove(g, tt.move, tt.actorID))
		})
	}
}

func TestEngine_rejectionIsIdempotent(t *testing.T) {
	e := newEngine()
	g := setupGame("13s,2c,3c,4c,14s,5c", "13h,2d,3d,4d,10s,6d")
	outcome, err := e.ProcessMove(g, playCard, "alice")
	require.NoError(t, err)

	ng := outcome.Data.(*GameData)
	before := ng.clone()
	for i := 0; i < 2; i++ {
		assert.Equal(t, ErrAcknowledgeResult, e.ValidateMove(ng, playCard, "alice"))
		_, err := e.ProcessMove(ng, playCard, "alice")
		assert.Equal(t, ErrAcknowledgeResult, err)
		assert.Equal(t, before, ng)
	}
}

func TestEngine_conservation(t *testing.T) {
	e := newEngine()

	for seed := int64(1); seed <= 10; seed++ {
		data, err := e.Initialize(players(), nil, seed)
		require.NoError(t, err)

		for i := 0; i < 5000 && !e.IsGameOver(data); i++ {
			move := playCard
			if data.(*GameData).Phase == PhaseWar {
				move = acknowledge
			}

			outcome, err := e.ProcessMove(data, move, "alice")
			require.NoError(t, err)
			require.Equal(t, 52, outcome.Data.(*GameData).TotalCards(), "seed %d move %d", seed, i)
			data = outcome.Data
		}

		if e.IsGameOver(data) {
			g := data.(*GameData)
			winner := g.Players[g.playerIndex(g.WinnerID)]
			assert.Equal(t, 52, winner.CardCount())
			assert.Equal(t, []string{g.WinnerID}, e.Winners(data))
		}
	}
}

func TestEngine_View(t *testing.T) {
	a := assert.New(t)
	e := newEngine()
	g := setupGame("13s,2c", "12h,2d")

	view := e.View(g, "alice").(*View)
	a.Equal(2, view.Players[0].CardsInPile)
	a.Equal(0, view.Players[0].CardsWon)
	a.Equal(PhasePlaying, view.Phase)
	a.Equal("", e.CurrentTurn(g))
	a.Equal("Battle 1: alice has 2 cards, bob has 2 cards", e.Status(g))

	snapshot.ValidateSnapshot(t, view, 0)
}

func TestEngine_DecodeData(t *testing.T) {
	e := newEngine()

	_, err := e.DecodeData([]byte(`{"players":[]}`))
	assert.Equal(t, playable.ErrWrongGameData, err)

	data, err := e.DecodeData([]byte(`{"phase":"war","players":[{"userId":"a","drawPile":[{"id":"2c","rank":2,"suit":"clubs","value":2}]},{"userId":"b"}]}`))
	assert.NoError(t, err)
	assert.Equal(t, ErrAcknowledgeResult, e.ValidateMove(data, playCard, "a"))
}
