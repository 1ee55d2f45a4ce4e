package room

import (
	"cardroom-server/internal/rng"
	"cardroom-server/internal/util"
	"cardroom-server/pkg/playable"
	"cardroom-server/pkg/room/gamefactory"
	"cardroom-server/pkg/table"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrGameStarted is returned when starting a game that is not waiting
var ErrGameStarted = table.UserError("game has already started")

// ErrGameOver is returned when cancelling a game that already ended
var ErrGameOver = table.UserError("game is already over")

// ErrListingUnsupported is returned when the store cannot list games
var ErrListingUnsupported = errors.New("the game store cannot list games")

// PitBoss is responsible for dispatching moves and clients to the dealer of each game
type PitBoss struct {
	// ActionLog receives every accepted move
	ActionLog table.ActionLog

	// DefaultTurnLimitSeconds is used for games created without a timer, zero disables it
	DefaultTurnLimitSeconds int

	store    table.Store
	registry *gamefactory.Registry
	logger   logrus.FieldLogger
	seeder   rng.Seeder
	now      func() time.Time

	lock    sync.Mutex
	dealers map[string]*Dealer
}

// NewPitBoss returns a new dispatch object
func NewPitBoss(store table.Store, registry *gamefactory.Registry, logger logrus.FieldLogger) *PitBoss {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &PitBoss{
		ActionLog: table.NopActionLog{},
		store:     store,
		registry:  registry,
		logger:    logger,
		seeder:    rng.Crypto{},
		now:       time.Now,
		dealers:   make(map[string]*Dealer),
	}
}

// Registry returns the game types the pit boss can run
func (p *PitBoss) Registry() *gamefactory.Registry {
	return p.registry
}

// dealer returns the dealer for the game, starting one if needed
func (p *PitBoss) dealer(gameID string) *Dealer {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.dealerLocked(gameID)
}

func (p *PitBoss) dealerLocked(gameID string) *Dealer {
	d, found := p.dealers[gameID]
	if !found {
		d = NewDealer(p, gameID)
		d.StartShift()
		p.dealers[gameID] = d
	}

	return d
}

// release ends the dealer's shift if nothing depends on it
// Note: must only be called from the dealer's run loop
func (p *PitBoss) release(d *Dealer) bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	if len(d.Clients()) > 0 || len(d.execInRunLoop) > 0 {
		return false
	}

	if p.dealers[d.gameID] == d {
		delete(p.dealers, d.gameID)
	}

	d.endShift()
	return true
}

// withDealer runs fn in the run loop of the game's dealer
func (p *PitBoss) withDealer(ctx context.Context, gameID string, fn func(d *Dealer)) error {
	for {
		d := p.dealer(gameID)
		err := d.exec(ctx, func() {
			fn(d)
		})

		if !errors.Is(err, errDealerClosed) {
			return err
		}
	}
}

// CreateGame seats the players in a new game that is waiting to start
func (p *PitBoss) CreateGame(ctx context.Context, gameType string, players []*playable.Player, opts playable.AdditionalData, timer *table.TimerConfig) (*table.GameState, error) {
	engine, err := p.registry.Get(gameType)
	if err != nil {
		return nil, err
	}

	seated := make([]*playable.Player, len(players))
	for i, player := range players {
		if player == nil {
			return nil, table.UserError(playable.ErrMissingUserID.Error())
		}

		seated[i] = &playable.Player{
			UserID:       player.UserID,
			DisplayName:  player.DisplayName,
			PlayerNumber: i + 1,
		}

		if seated[i].DisplayName == "" {
			seated[i].DisplayName = util.RandomName(rng.Crypto{})
		}
	}

	if opts == nil {
		opts = playable.AdditionalData{}
	}

	seed := p.seeder.Seed()

	// a dry run catches bad players and options before anything is saved
	if _, err := engine.Initialize(seated, opts, seed); err != nil {
		return nil, table.UserError(err.Error())
	}

	if timer == nil && p.DefaultTurnLimitSeconds > 0 {
		timer = &table.TimerConfig{TurnLimitSeconds: p.DefaultTurnLimitSeconds}
	}

	if timer != nil && timer.TurnLimitSeconds < 0 {
		return nil, table.UserError("turn limit cannot be negative")
	}

	state := &table.GameState{
		ID:       uuid.New().String(),
		GameType: gameType,
		Status:   table.StatusWaiting,
		Players:  seated,
		Options:  opts,
		Seed:     seed,
		Timer:    timer,
		Created:  p.now(),
	}

	if err := p.store.Set(ctx, state); err != nil {
		return nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"gameID":   state.ID,
		"gameType": gameType,
		"players":  len(seated),
	}).Info("game created")

	return state, nil
}

// StartGame deals a waiting game
func (p *PitBoss) StartGame(ctx context.Context, gameID string) (*table.GameState, error) {
	var state *table.GameState
	var err error

	if execErr := p.withDealer(ctx, gameID, func(d *Dealer) {
		state, err = d.startGame(ctx)
	}); execErr != nil {
		return nil, execErr
	}

	return state, err
}

// SubmitMove validates the move and saves the resulting state
// A rejected move returns a *playable.MoveError and leaves the game untouched
func (p *PitBoss) SubmitMove(ctx context.Context, gameID, actorID string, move *playable.Move) (*table.GameState, error) {
	if move == nil {
		return nil, playable.ErrUnknownMove
	}

	var state *table.GameState
	var err error

	if execErr := p.withDealer(ctx, gameID, func(d *Dealer) {
		state, err = d.submitMove(ctx, actorID, move)
	}); execErr != nil {
		return nil, execErr
	}

	return state, err
}

// CancelGame ends a game without a winner
func (p *PitBoss) CancelGame(ctx context.Context, gameID string) (*table.GameState, error) {
	var state *table.GameState
	var err error

	if execErr := p.withDealer(ctx, gameID, func(d *Dealer) {
		state, err = d.cancelGame(ctx)
	}); execErr != nil {
		return nil, execErr
	}

	return state, err
}

// GetGame returns the stored game
func (p *PitBoss) GetGame(ctx context.Context, gameID string) (*table.GameState, error) {
	return p.store.Get(ctx, gameID)
}

// Games returns the IDs of games with the status, oldest first
func (p *PitBoss) Games(ctx context.Context, status table.Status) ([]string, error) {
	lister, ok := p.store.(table.Lister)
	if !ok {
		return nil, ErrListingUnsupported
	}

	return lister.GamesByStatus(ctx, status)
}

// View returns the game as seen by the viewer
func (p *PitBoss) View(ctx context.Context, gameID, viewerID string) (*GameView, error) {
	state, err := p.store.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}

	engine, _ := p.registry.Get(state.GameType)
	return newGameView(state, engine, viewerID)
}

// Subscribe registers the client for updates to its game
// The client immediately receives the current state
func (p *PitBoss) Subscribe(ctx context.Context, client *Client) error {
	client.pitBoss = p

	p.lock.Lock()
	d := p.dealerLocked(client.gameID)
	d.AddClient(client)
	p.lock.Unlock()

	p.logger.WithField("client", client.String()).Debug("client connected")
	return d.exec(ctx, func() {
		d.sendInitialState(ctx, client)
	})
}

// Unsubscribe stops sending updates to the client
func (p *PitBoss) Unsubscribe(client *Client) {
	p.logger.WithField("client", client.String()).Debug("client disconnected")

	if client.dealer == nil {
		return
	}

	client.dealer.RemoveClient(client)
}

func encodeGameData(state *table.GameState, data playable.GameData) (*table.GameState, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("could not encode %s game data: %w", state.GameType, err)
	}

	next := state.Clone()
	next.GameData = b
	return next, nil
}
