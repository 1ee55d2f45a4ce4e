package swoop

import (
	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/playable"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// move types
const (
	MovePlay          = "PLAY"
	MovePickup        = "PICKUP"
	MoveSkip          = "SKIP"
	MoveContinueRound = "CONTINUE_ROUND"
)

const (
	minPlayers = 3
	maxPlayers = 8
)

// Engine runs the rules of swoop
type Engine struct {
	logger logrus.FieldLogger
}

// New returns a new swoop engine
func New(logger logrus.FieldLogger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Engine{logger: logger}
}

// Key returns "swoop"
func (e *Engine) Key() string {
	return "swoop"
}

// Name returns the display name
func (e *Engine) Name() string {
	return "Swoop"
}

// Rules returns a description of the rules
func (e *Engine) Rules() string {
	return `Everyone gets 11 cards in hand, 4 face up and 4 mystery cards face down under the face-up cards.
Play one to four cards of the same rank from anywhere, as long as they are not higher than the top of the pile. Aces are low.
10s and Jokers can always be played and swoop the pile out of the game. Four of a rank on top of the pile also swoops.
After a swoop you go again. A mystery card can only be played once the card above it is gone, and only by itself.
If you can't play, pick up the pile or skip. A card that beats the pile, including a mystery card, takes the pile with it.
The first player out of cards wins the round. Everyone else scores their cards: aces 1, 2–9 face value, face cards 10, 10s 25 and Jokers 50.
Once someone reaches the target score the lowest score wins.`
}

// Initialize deals the first round
func (e *Engine) Initialize(players []*playable.Player, additionalData playable.AdditionalData, seed int64) (playable.GameData, error) {
	if err := playable.ValidatePlayers(players, minPlayers, maxPlayers); err != nil {
		return nil, err
	}

	opts, err := NewOptions(additionalData)
	if err != nil {
		return nil, err
	}

	g := &GameData{
		Seed:    seed,
		Options: opts,
		Decks:   decksFor(len(players)),
		Players: make([]*Player, len(players)),
	}

	for i, p := range players {
		g.Players[i] = &Player{
			UserID:      p.UserID,
			RoundScores: []int{},
		}
	}

	g.deal()

	e.logger.WithFields(logrus.Fields{
		"seed":  seed,
		"decks": g.Decks,
	}).Debug("dealt swoop")

	return g, nil
}

// ValidateMove returns nil if the move can be made
func (e *Engine) ValidateMove(data playable.GameData, move *playable.Move, actorID string) error {
	g, err := gameData(data)
	if err != nil {
		return err
	}

	_, err = g.validate(move, actorID)
	return err
}

// ProcessMove applies the move to a copy of the data
func (e *Engine) ProcessMove(data playable.GameData, move *playable.Move, actorID string) (*playable.Outcome, error) {
	g, err := gameData(data)
	if err != nil {
		return nil, err
	}

	idx, err := g.validate(move, actorID)
	if err != nil {
		return nil, err
	}

	ng := g.clone()

	var logs []*playable.LogMessage
	switch move.Type {
	case MovePlay:
		logs = ng.play(idx, move.Cards)
	case MovePickup:
		logs = ng.pickup(idx, move.Cards, false)
	case MoveSkip:
		ng.SwoopTriggered = false
		ng.LastAction = &Action{PlayerID: actorID, Type: MoveSkip}
		ng.CurrentPlayer = ng.next(idx)
		logs = playable.SimpleLogMessageSlice(actorID, "{} skipped")
	case MoveContinueRound:
		ng.Round++
		ng.StartingPlayer = ng.next(ng.StartingPlayer)
		ng.deal()
		logs = playable.SimpleLogMessageSlice(ng.Players[ng.StartingPlayer].UserID, "Round %d started by {}", ng.Round+1)
	}

	e.logger.WithFields(logrus.Fields{
		"actorID": actorID,
		"move":    move.String(),
		"phase":   ng.Phase,
		"swoop":   ng.SwoopTriggered,
	}).Debug("processed move")

	return &playable.Outcome{
		Data:     ng,
		GameOver: ng.Phase == PhaseGameOver,
		Winners:  ng.winners(),
		Log:      logs,
	}, nil
}

// IsGameOver returns true once a player reaches the target score
func (e *Engine) IsGameOver(data playable.GameData) bool {
	g, err := gameData(data)
	if err != nil {
		return false
	}

	return g.Phase == PhaseGameOver
}

// Winners returns the players with the lowest score
func (e *Engine) Winners(data playable.GameData) []string {
	g, err := gameData(data)
	if err != nil {
		return nil
	}

	return g.winners()
}

// CurrentTurn returns the player to act
// Between rounds anyone may continue
func (e *Engine) CurrentTurn(data playable.GameData) string {
	g, err := gameData(data)
	if err != nil {
		return ""
	}

	return g.currentTurn()
}

// Status returns a summary of the game
func (e *Engine) Status(data playable.GameData) string {
	g, err := gameData(data)
	if err != nil {
		return ""
	}

	switch g.Phase {
	case PhasePlaying:
		if g.SwoopTriggered {
			return fmt.Sprintf("Swoop! %s goes again", g.currentTurn())
		}

		return fmt.Sprintf("Round %d: waiting for %s", g.Round+1, g.currentTurn())
	case PhaseRoundOver:
		return fmt.Sprintf("Round %d won by %s", g.Round+1, g.RoundWinnerID)
	}

	return fmt.Sprintf("Game over, won by %v", g.winners())
}

// View returns the game with hands and mystery cards hidden
func (e *Engine) View(data playable.GameData, viewerID string) interface{} {
	g, err := gameData(data)
	if err != nil {
		return nil
	}

	view := &View{
		Phase:          g.Phase,
		Round:          g.Round,
		CurrentTurn:    g.currentTurn(),
		Pile:           append([]*deck.Card{}, g.Pile...),
		RemovedCards:   len(g.RemovedCards),
		SetAside:       len(g.SetAside),
		SwoopTriggered: g.SwoopTriggered,
		RoundWinnerID:  g.RoundWinnerID,
		Players:        make([]*PlayerView, len(g.Players)),
		Hand:           deck.Hand{},
	}

	if g.LastAction != nil {
		action := *g.LastAction
		view.LastAction = &action
	}

	for i, p := range g.Players {
		mystery := make([]bool, len(p.Mystery))
		for j, card := range p.Mystery {
			mystery[j] = card != nil
		}

		view.Players[i] = &PlayerView{
			UserID:      p.UserID,
			CardsInHand: len(p.Hand),
			FaceUp:      append([]*deck.Card{}, p.FaceUp...),
			Mystery:     mystery,
			Score:       p.Score,
			RoundScores: append([]int{}, p.RoundScores...),
		}

		if p.UserID == viewerID {
			view.Hand = p.Hand.Clone()
		}
	}

	return view
}

// DecodeData decodes stored game data
func (e *Engine) DecodeData(b []byte) (playable.GameData, error) {
	var g GameData
	if err := json.Unmarshal(b, &g); err != nil {
		return nil, err
	}

	if len(g.Players) < minPlayers {
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

// deal shuffles the shoe for the round and deals mystery, face-up and hand cards around the table
func (g *GameData) deal() {
	d := deck.New(deck.WithDecks(g.Decks), deck.WithJokers(2), deck.WithValuer(Value))
	d.Shuffle(g.Seed + int64(g.Round))
	if !d.CanDraw(len(g.Players) * (mysterySlots + faceUpSlots + handSize)) {
		panic(fmt.Sprintf("%d decks cannot be dealt to %d players", g.Decks, len(g.Players)))
	}

	for _, p := range g.Players {
		p.Hand = make(deck.Hand, 0, handSize)
		p.FaceUp = make([]*deck.Card, faceUpSlots)
		p.Mystery = make([]*deck.Card, mysterySlots)
	}

	draw := func() *deck.Card {
		card, _ := d.Draw()
		return card
	}

	for slot := 0; slot < mysterySlots; slot++ {
		for _, p := range g.Players {
			p.Mystery[slot] = draw()
		}
	}

	for slot := 0; slot < faceUpSlots; slot++ {
		for _, p := range g.Players {
			p.FaceUp[slot] = draw()
		}
	}

	for i := 0; i < handSize; i++ {
		for _, p := range g.Players {
			p.Hand = append(p.Hand, draw())
		}
	}

	for _, p := range g.Players {
		sort.Sort(p.Hand)
	}

	g.SetAside = append([]*deck.Card{}, d.Cards...)
	g.Pile = []*deck.Card{}
	g.RemovedCards = []*deck.Card{}
	g.SwoopTriggered = false
	g.LastAction = nil
	g.RoundWinnerID = ""
	g.Phase = PhasePlaying
	g.CurrentPlayer = g.StartingPlayer
}

func (g *GameData) validate(move *playable.Move, actorID string) (int, error) {
	if move == nil {
		return -1, playable.ErrUnknownMove
	}

	idx := g.playerIndex(actorID)
	if idx == -1 {
		return -1, playable.ErrNotPlayer
	}

	if g.Phase == PhaseGameOver {
		return -1, playable.ErrGameIsOver
	}

	switch move.Type {
	case MovePlay, MovePickup, MoveSkip:
		if g.Phase != PhasePlaying {
			return -1, ErrNotPlaying
		}

		if idx != g.CurrentPlayer {
			return -1, playable.ErrNotPlayersTurn
		}
	case MoveContinueRound:
		if g.Phase != PhaseRoundOver {
			return -1, ErrRoundNotOver
		}

		return idx, nil
	default:
		return -1, playable.ErrUnknownMove
	}

	p := g.Players[idx]
	switch move.Type {
	case MovePlay:
		return idx, g.validatePlay(p, move.Cards)
	case MovePickup:
		return idx, g.validatePickup(p, move.Cards)
	}

	return idx, nil
}

// locateAll finds every card of a play and checks the shape of the play
func (g *GameData) locateAll(p *Player, ids []string) ([]location, error) {
	if len(ids) == 0 || len(ids) > maxPlay {
		return nil, ErrPlayCount
	}

	locs := make([]location, len(ids))
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		if seen[id] {
			return nil, ErrDuplicateCard
		}

		seen[id] = true

		loc, ok := p.locate(id)
		if !ok {
			return nil, ErrCardNotOwned
		}

		if i > 0 && loc.card.Rank != locs[0].card.Rank {
			return nil, ErrMixedRanks
		}

		locs[i] = loc
	}

	return locs, nil
}

func (g *GameData) validatePlay(p *Player, ids []string) error {
	locs, err := g.locateAll(p, ids)
	if err != nil {
		return err
	}

	for _, loc := range locs {
		if loc.zone != zoneMystery {
			continue
		}

		if len(locs) > 1 {
			return ErrMysteryAlone
		}

		if p.FaceUp[loc.slot] != nil {
			return ErrMysteryCovered
		}

		// a flipped mystery card is never rejected, it either plays or takes the pile
		return nil
	}

	return g.canPlay(locs[0].card, len(locs))
}

// canPlay checks n cards of the same rank against the pile
func (g *GameData) canPlay(card *deck.Card, n int) error {
	top := g.TopCard()
	if top == nil || IsSpecial(card) {
		return nil
	}

	if Value(card) > Value(top) {
		return ErrPlayTooHigh
	}

	run := n
	if card.Rank == top.Rank {
		run += g.topRun()
	}

	if run > swoopRun {
		return ErrTooManyOfRank
	}

	return nil
}

func (g *GameData) validatePickup(p *Player, ids []string) error {
	if len(g.Pile) == 0 {
		return ErrEmptyPile
	}

	if len(ids) == 0 {
		return nil
	}

	locs, err := g.locateAll(p, ids)
	if err != nil {
		return err
	}

	for _, loc := range locs {
		if loc.zone == zoneMystery {
			return ErrMysteryPickup
		}
	}

	// only cards that could not be played may be taken along with the pile
	if g.canPlay(locs[0].card, len(locs)) != ErrPlayTooHigh {
		return ErrPickupDoesNotBeat
	}

	return nil
}

func (g *GameData) play(idx int, ids []string) []*playable.LogMessage {
	p := g.Players[idx]

	locs, err := g.locateAll(p, ids)
	if err != nil {
		panic(fmt.Sprintf("validated play could not be located: %v", err))
	}

	cards := make([]*deck.Card, len(locs))
	for i, loc := range locs {
		cards[i] = loc.card
	}

	flipped := locs[0].zone == zoneMystery
	if flipped && g.canPlay(cards[0], 1) != nil {
		return g.pickup(idx, ids, true)
	}

	for _, loc := range locs {
		p.remove(loc)
	}

	g.Pile = append(g.Pile, cards...)
	g.LastAction = &Action{PlayerID: p.UserID, Type: MovePlay, Cards: cards, Flipped: flipped}

	logs := []*playable.LogMessage{playable.CardLogMessage(p.UserID, cards, "{} played %d card(s)", len(cards))}

	if g.shouldSwoop(cards[0]) {
		g.RemovedCards = append(g.RemovedCards, g.Pile...)
		g.Pile = []*deck.Card{}
		g.SwoopTriggered = true
		logs = append(logs, playable.SimpleLogMessage(p.UserID, "{} swooped the pile"))
	} else {
		g.SwoopTriggered = false
		g.CurrentPlayer = g.next(idx)
	}

	if p.CardCount() == 0 {
		logs = append(logs, g.endRound(idx)...)
	}

	return logs
}

// shouldSwoop returns true after a special card, or when the top four cards share a rank
func (g *GameData) shouldSwoop(played *deck.Card) bool {
	return IsSpecial(played) || g.topRun() >= swoopRun
}

// pickup moves the pile and the attempted cards into the player's hand
func (g *GameData) pickup(idx int, ids []string, flipped bool) []*playable.LogMessage {
	p := g.Players[idx]

	var cards []*deck.Card
	for _, id := range ids {
		loc, _ := p.locate(id)
		p.remove(loc)
		cards = append(cards, loc.card)
	}

	taken := len(g.Pile)
	p.Hand = append(p.Hand, g.Pile...)
	p.Hand = append(p.Hand, cards...)
	sort.Sort(p.Hand)

	g.Pile = []*deck.Card{}
	g.SwoopTriggered = false
	g.LastAction = &Action{PlayerID: p.UserID, Type: MovePickup, Cards: cards, Flipped: flipped}
	g.CurrentPlayer = g.next(idx)

	if flipped {
		return []*playable.LogMessage{playable.CardLogMessage(p.UserID, cards, "{} flipped a mystery card and picked up %d card(s)", taken)}
	}

	return playable.SimpleLogMessageSlice(p.UserID, "{} picked up %d card(s)", taken)
}

func (g *GameData) endRound(winner int) []*playable.LogMessage {
	g.RoundWinnerID = g.Players[winner].UserID
	g.SwoopTriggered = false

	logs := []*playable.LogMessage{playable.SimpleLogMessage(g.RoundWinnerID, "{} won the round")}

	gameOver := false
	for _, p := range g.Players {
		points := 0
		for _, card := range p.Cards() {
			points += Points(card)
		}

		p.Score += points
		p.RoundScores = append(p.RoundScores, points)
		if p.Score >= g.Options.TargetScore {
			gameOver = true
		}

		if points > 0 {
			logs = append(logs, playable.SimpleLogMessage(p.UserID, "{} was caught with %d point(s)", points))
		}
	}

	if gameOver {
		g.Phase = PhaseGameOver
		return append(logs, playable.SimpleLogMessage("", "The game is over"))
	}

	g.Phase = PhaseRoundOver
	return logs
}

func (g *GameData) currentTurn() string {
	if g.Phase != PhasePlaying {
		return ""
	}

	return g.Players[g.CurrentPlayer].UserID
}

func (g *GameData) winners() []string {
	if g.Phase != PhaseGameOver {
		return nil
	}

	best := g.Players[0].Score
	for _, p := range g.Players[1:] {
		if p.Score < best {
			best = p.Score
		}
	}

	var winners []string
	for _, p := range g.Players {
		if p.Score == best {
			winners = append(winners, p.UserID)
		}
	}

	return winners
}
