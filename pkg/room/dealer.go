package room

import (
	"cardroom-server/pkg/playable"
	"cardroom-server/pkg/table"
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// errDealerClosed is returned when work is sent to a dealer that ended its shift
// The work was never run, so the caller can retry with a new dealer
var errDealerClosed = errors.New("dealer is closed")

// Dealer serializes every read-modify-write of a single game
type Dealer struct {
	gameID  string
	pitBoss *PitBoss
	logger  logrus.FieldLogger
	clients map[*Client]bool
	lock    sync.RWMutex

	logMessages []*playable.LogMessage

	execInRunLoop chan func()
	close         chan bool
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, gameID string) *Dealer {
	return &Dealer{
		gameID:        gameID,
		pitBoss:       pitBoss,
		logger:        pitBoss.logger.WithField("gameID", gameID),
		clients:       make(map[*Client]bool),
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
	}
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")
	for {
		select {
		case fn := <-d.execInRunLoop:
			fn()

			if d.pitBoss.release(d) {
				d.logger.Debug("terminating dealer run loop")
				return
			}
		case <-d.close:
			d.logger.Debug("terminating dealer run loop")
			return
		}
	}
}

// endShift stops the run loop
// Note: must only be called from the run loop, or after it has returned
func (d *Dealer) endShift() {
	close(d.close)
}

// exec runs fn in the run loop and waits for it to finish
func (d *Dealer) exec(ctx context.Context, fn func()) error {
	done := make(chan bool)
	wrapped := func() {
		fn()
		close(done)
	}

	select {
	case d.execInRunLoop <- wrapped:
	case <-d.close:
		return errDealerClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-d.close:
		// the loop never runs work after it closes
		select {
		case <-done:
			return nil
		default:
			return errDealerClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddClient adds a client
// Note: the PitBoss lock must be held
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	if nClients > 0 {
		return false
	}

	// wake the run loop so it can end its shift
	select {
	case d.execInRunLoop <- func() {}:
	default:
	}

	return true
}

// sendInitialState sends the game and recent log messages to a new client
// NOTE: must only be called from the run loop
func (d *Dealer) sendInitialState(ctx context.Context, client *Client) {
	state, err := d.pitBoss.store.Get(ctx, d.gameID)
	if err != nil {
		d.logger.WithError(err).Error("could not load game for new client")
		return
	}

	engine, _ := d.pitBoss.registry.Get(state.GameType)
	view, err := newGameView(state, engine, client.userID)
	if err != nil {
		d.logger.WithError(err).Error("could not get player view")
		return
	}

	client.Send(newGameResponse(view))
	if len(d.logMessages) > 0 {
		client.Send(newLogResponse(d.logMessages))
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameData(state *table.GameState, engine playable.Engine, logs []*playable.LogMessage) {
	d.addLogMessages(logs)

	for _, client := range d.Clients() {
		view, err := newGameView(state, engine, client.userID)
		if err != nil {
			d.logger.WithError(err).Error("could not get player view")
			continue
		}

		if !client.Send(newGameResponse(view)) {
			d.logger.WithField("client", client.String()).Warn("client send buffer is full")
			continue
		}

		if len(logs) > 0 {
			client.Send(newLogResponse(logs))
		}
	}
}

// startGame deals the game
// NOTE: must only be called from the run loop
func (d *Dealer) startGame(ctx context.Context) (*table.GameState, error) {
	state, err := d.pitBoss.store.Get(ctx, d.gameID)
	if err != nil {
		return nil, err
	}

	if state.Status != table.StatusWaiting {
		return nil, ErrGameStarted
	}

	engine, err := d.pitBoss.registry.Get(state.GameType)
	if err != nil {
		return nil, err
	}

	data, err := engine.Initialize(state.Players, state.Options, state.Seed)
	if err != nil {
		return nil, table.UserError(err.Error())
	}

	next, err := encodeGameData(state, data)
	if err != nil {
		return nil, err
	}

	now := d.pitBoss.now()
	next.Status = table.StatusInProgress
	next.CurrentTurn = engine.CurrentTurn(data)
	next.TurnStartedAt = now

	if err := d.pitBoss.store.Set(ctx, next); err != nil {
		return nil, err
	}

	d.logger.WithField("gameType", next.GameType).Info("game started")
	d.sendGameData(next, engine, playable.SimpleLogMessageSlice("", "%s has started", engine.Name()))
	return next, nil
}

// submitMove validates the move and saves the result
// NOTE: must only be called from the run loop
func (d *Dealer) submitMove(ctx context.Context, actorID string, move *playable.Move) (*table.GameState, error) {
	state, err := d.pitBoss.store.Get(ctx, d.gameID)
	if err != nil {
		return nil, err
	}

	engine, err := d.pitBoss.registry.Get(state.GameType)
	if err != nil {
		return nil, err
	}

	log := d.logger.WithFields(logrus.Fields{
		"actorID": actorID,
		"move":    move.String(),
	})

	validator := NewMoveValidator(engine)
	validator.now = d.pitBoss.now

	next, outcome, err := validator.Apply(state, move, actorID)
	if err != nil {
		if playable.IsMoveError(err) {
			MovesRejected.WithLabelValues(state.GameType, "invalid").Inc()
			log.WithError(err).Debug("move rejected")
		}

		return nil, err
	}

	if err := d.pitBoss.store.Set(ctx, next); err != nil {
		if errors.Is(err, table.ErrVersionConflict) {
			MovesRejected.WithLabelValues(state.GameType, "conflict").Inc()
		}

		return nil, err
	}

	MovesAccepted.WithLabelValues(state.GameType).Inc()
	log.Debug("move accepted")

	record := table.NewActionRecord(state, actorID, move, d.pitBoss.now())
	if err := d.pitBoss.ActionLog.Publish(ctx, record); err != nil {
		log.WithError(err).Error("could not publish action")
	}

	if outcome.GameOver {
		GamesFinished.WithLabelValues(next.GameType, string(next.Status)).Inc()
		log.WithField("winners", next.Winners).Info("game over")
	}

	d.sendGameData(next, engine, outcome.Log)
	return next, nil
}

// cancelGame archives a game that has not finished
// NOTE: must only be called from the run loop
func (d *Dealer) cancelGame(ctx context.Context) (*table.GameState, error) {
	state, err := d.pitBoss.store.Get(ctx, d.gameID)
	if err != nil {
		return nil, err
	}

	if state.Status.IsOver() {
		return nil, ErrGameOver
	}

	next := state.Clone()
	next.End(table.StatusCancelled, d.pitBoss.now())
	if err := d.pitBoss.store.Set(ctx, next); err != nil {
		return nil, err
	}

	GamesFinished.WithLabelValues(next.GameType, string(next.Status)).Inc()
	d.logger.Info("game cancelled")

	engine, _ := d.pitBoss.registry.Get(next.GameType)
	d.sendGameData(next, engine, playable.SimpleLogMessageSlice("", "the game was cancelled"))
	return next, nil
}
