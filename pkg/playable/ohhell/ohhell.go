package ohhell

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
	MoveBid           = "BID"
	MovePlayCard      = "PLAY_CARD"
	MoveContinueRound = "CONTINUE_ROUND"
)

const (
	deckSize      = 52
	minPlayers    = 3
	maxPlayers    = 7
	exactBidBonus = 10
)

// Engine runs the rules of Oh Hell
type Engine struct {
	logger logrus.FieldLogger
}

// New returns a new Oh Hell engine
func New(logger logrus.FieldLogger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Engine{logger: logger}
}

// Key returns "oh-hell"
func (e *Engine) Key() string {
	return "oh-hell"
}

// Name returns the display name
func (e *Engine) Name() string {
	return "Oh Hell"
}

// Rules returns a description of the rules
func (e *Engine) Rules() string {
	return `Hands start at the max hand size, shrink by one each round down to a single card, then grow back.
After the deal the next card sets trump. If the deck runs out there is no trump that round.
Starting left of the dealer each player bids the number of tricks they will take. The dealer may not bid so that the bids add up to the cards dealt.
Follow suit if you can. Trump beats every other suit, otherwise the highest card of the suit led wins.
Trump cannot be led until it has been played in an earlier trick, unless you hold nothing but trump.
Making your bid exactly scores 10 plus the bid. The highest score after the last round wins.`
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
		Seed:     seed,
		Options:  opts,
		HandSize: opts.handSize(len(players)),
		Dealer:   len(players) - 1,
		Players:  make([]*Player, len(players)),
	}

	for i, p := range players {
		g.Players[i] = &Player{
			UserID:      p.UserID,
			RoundScores: []int{},
		}
	}

	g.deal()

	e.logger.WithFields(logrus.Fields{
		"seed":     seed,
		"handSize": g.HandSize,
	}).Debug("dealt oh hell")

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
	case MoveBid:
		logs = ng.bid(idx, *move.Bid)
	case MovePlayCard:
		logs = ng.playCard(idx, ng.Players[idx].Hand.FindByID(move.Cards[0]))
	case MoveContinueRound:
		ng.Round++
		ng.Dealer = ng.next(ng.Dealer)
		ng.deal()
		logs = playable.SimpleLogMessageSlice(ng.Players[ng.Dealer].UserID, "{} deals round %d", ng.Round+1)
	}

	e.logger.WithFields(logrus.Fields{
		"actorID": actorID,
		"move":    move.String(),
		"phase":   ng.Phase,
		"round":   ng.Round,
	}).Debug("processed move")

	return &playable.Outcome{
		Data:     ng,
		GameOver: ng.Phase == PhaseGameOver,
		Winners:  ng.winners(),
		Log:      logs,
	}, nil
}

// IsGameOver returns true after the final round is scored
func (e *Engine) IsGameOver(data playable.GameData) bool {
	g, err := gameData(data)
	if err != nil {
		return false
	}

	return g.Phase == PhaseGameOver
}

// Winners returns the players with the highest score
func (e *Engine) Winners(data playable.GameData) []string {
	g, err := gameData(data)
	if err != nil {
		return nil
	}

	return g.winners()
}

// CurrentTurn returns the player who must bid or play
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

	round := fmt.Sprintf("Round %d of %d", g.Round+1, g.TotalRounds())
	switch g.Phase {
	case PhaseBidding:
		return fmt.Sprintf("%s: waiting for %s to bid", round, g.currentTurn())
	case PhasePlaying:
		return fmt.Sprintf("%s: waiting for %s to play", round, g.currentTurn())
	case PhaseRoundOver:
		return fmt.Sprintf("%s is over", round)
	}

	return fmt.Sprintf("Game over, won by %v", g.winners())
}

// View returns the game with everyone else's hand hidden
func (e *Engine) View(data playable.GameData, viewerID string) interface{} {
	g, err := gameData(data)
	if err != nil {
		return nil
	}

	view := &View{
		Phase:          g.Phase,
		Round:          g.Round,
		TotalRounds:    g.TotalRounds(),
		CardsThisRound: g.CardsThisRound,
		DealerID:       g.Players[g.Dealer].UserID,
		CurrentTurn:    g.currentTurn(),
		TrumpCard:      g.TrumpCard,
		TrumpBroken:    g.TrumpBroken,
		LastTrick:      g.LastTrick.clone(),
		Players:        make([]*PlayerView, len(g.Players)),
		Hand:           deck.Hand{},
	}

	if g.Trick != nil {
		view.Trick = append([]*PlayedCard{}, g.Trick.Cards...)
	}

	for i, p := range g.Players {
		np := p.clone()
		view.Players[i] = &PlayerView{
			UserID:      np.UserID,
			CardsInHand: len(np.Hand),
			Bid:         np.Bid,
			TricksWon:   np.TricksWon,
			Score:       np.Score,
			RoundScores: np.RoundScores,
		}

		if p.UserID == viewerID {
			view.Hand = np.Hand
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

func totalRounds(handSize int) int {
	return 2*handSize - 1
}

// cardsInRound counts down from the hand size to one and back up again
func cardsInRound(handSize, round int) int {
	d := handSize - 1 - round
	if d < 0 {
		d = -d
	}

	return d + 1
}

// RoundScore returns the points for a round
func RoundScore(bid, tricksWon int, variant ScoringVariant) int {
	if bid == tricksWon {
		return exactBidBonus + bid
	}

	if variant == ScoringPartial {
		return tricksWon
	}

	return 0
}

// deal shuffles a fresh deck for the round and deals one card at a time starting left of the dealer
func (g *GameData) deal() {
	n := len(g.Players)
	g.CardsThisRound = cardsInRound(g.HandSize, g.Round)

	d := deck.New()
	d.Shuffle(g.Seed + int64(g.Round))
	if !d.CanDraw(n * g.CardsThisRound) {
		panic(fmt.Sprintf("hand size %d is too large for %d players", g.HandSize, n))
	}

	for _, p := range g.Players {
		p.Hand = make(deck.Hand, 0, g.CardsThisRound)
		p.Bid = nil
		p.TricksWon = 0
	}

	for i := 0; i < g.CardsThisRound; i++ {
		for j := 1; j <= n; j++ {
			p := g.Players[(g.Dealer+j)%n]
			card, _ := d.Draw()
			p.Hand = append(p.Hand, card)
		}
	}

	for _, p := range g.Players {
		sort.Sort(p.Hand)
	}

	g.TrumpCard = nil
	if d.CardsLeft() > 0 {
		g.TrumpCard, _ = d.Draw()
	}

	g.Undealt = append([]*deck.Card{}, d.Cards...)
	g.Discards = []*deck.Card{}
	g.Trick = nil
	g.LastTrick = nil
	g.TrumpBroken = false
	g.Phase = PhaseBidding
	g.CurrentPlayer = g.next(g.Dealer)
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
	case MoveBid:
		return idx, g.validateBid(idx, move.Bid)
	case MovePlayCard:
		return idx, g.validatePlayCard(idx, move)
	case MoveContinueRound:
		if g.Phase != PhaseRoundOver {
			return -1, ErrRoundNotOver
		}

		return idx, nil
	}

	return -1, playable.ErrUnknownMove
}

func (g *GameData) validateBid(idx int, bid *int) error {
	if g.Phase != PhaseBidding {
		return ErrNotBidding
	}

	if idx != g.CurrentPlayer {
		return playable.ErrNotPlayersTurn
	}

	if bid == nil {
		return ErrMissingBid
	}

	if *bid < 0 || *bid > g.CardsThisRound {
		return playable.NewMoveError("bid must be between 0 and %d", g.CardsThisRound)
	}

	if idx == g.Dealer && g.sumOfBids()+*bid == g.CardsThisRound {
		return ErrDealerBid
	}

	return nil
}

func (g *GameData) validatePlayCard(idx int, move *playable.Move) error {
	if g.Phase != PhasePlaying {
		return ErrNotPlaying
	}

	if idx != g.CurrentPlayer {
		return playable.ErrNotPlayersTurn
	}

	id, ok := move.Card()
	if !ok {
		return ErrMissingCard
	}

	p := g.Players[idx]
	card := p.Hand.FindByID(id)
	if card == nil {
		return ErrCardNotInHand
	}

	return g.canPlayCard(p, card)
}

// canPlayCard checks the lead and follow suit restrictions
func (g *GameData) canPlayCard(p *Player, card *deck.Card) error {
	trump := g.TrumpSuit()

	leadSuit := g.Trick.LeadSuit()
	if leadSuit == "" {
		if trump == "" || card.Suit != trump || g.TrumpBroken || g.Options.TrumpLeadPolicy == TrumpAnytime {
			return nil
		}

		for _, c := range p.Hand {
			if c.Suit != trump {
				return ErrTrumpNotBroken
			}
		}

		return nil
	}

	if card.Suit != leadSuit && p.Hand.HasSuit(leadSuit) {
		return ErrFollowSuit
	}

	return nil
}

func (g *GameData) bid(idx, bid int) []*playable.LogMessage {
	p := g.Players[idx]
	p.Bid = &bid

	logs := playable.SimpleLogMessageSlice(p.UserID, "{} bid %d", bid)

	if idx == g.Dealer {
		g.Phase = PhasePlaying
		g.CurrentPlayer = g.next(g.Dealer)
		g.Trick = &Trick{Leader: g.CurrentPlayer, Cards: []*PlayedCard{}}
		return logs
	}

	g.CurrentPlayer = g.next(idx)
	return logs
}

func (g *GameData) playCard(idx int, card *deck.Card) []*playable.LogMessage {
	p := g.Players[idx]
	p.Hand = p.Hand.Without(card.ID)
	g.Trick.Cards = append(g.Trick.Cards, &PlayedCard{PlayerID: p.UserID, Card: card})

	logs := []*playable.LogMessage{playable.CardLogMessage(p.UserID, []*deck.Card{card}, "{} played a card")}

	if len(g.Trick.Cards) < len(g.Players) {
		g.CurrentPlayer = g.next(idx)
		return logs
	}

	return append(logs, g.completeTrick()...)
}

func (g *GameData) completeTrick() []*playable.LogMessage {
	trump := g.TrumpSuit()
	winning := g.Trick.Cards[TrickWinner(g.Trick.Cards, trump)]
	winner := g.playerIndex(winning.PlayerID)
	g.Players[winner].TricksWon++

	for _, pc := range g.Trick.Cards {
		g.Discards = append(g.Discards, pc.Card)
		if trump != "" && pc.Card.Suit == trump {
			g.TrumpBroken = true
		}
	}

	g.LastTrick = &CompletedTrick{
		Cards:    g.Trick.Cards,
		WinnerID: winning.PlayerID,
	}

	g.Trick = &Trick{Leader: winner, Cards: []*PlayedCard{}}
	g.CurrentPlayer = winner

	logs := []*playable.LogMessage{playable.CardLogMessage(winning.PlayerID, []*deck.Card{winning.Card}, "{} won the trick")}

	if len(g.Players[winner].Hand) == 0 {
		logs = append(logs, g.endRound()...)
	}

	return logs
}

// TrickWinner returns the index of the winning card
// Trump beats everything else, otherwise the highest card of the lead suit wins
func TrickWinner(cards []*PlayedCard, trump deck.Suit) int {
	best := 0
	for i := 1; i < len(cards); i++ {
		c := cards[i].Card
		b := cards[best].Card
		if (trump != "" && c.Suit == trump && b.Suit != trump) || (c.Suit == b.Suit && c.Value > b.Value) {
			best = i
		}
	}

	return best
}

func (g *GameData) endRound() []*playable.LogMessage {
	logs := make([]*playable.LogMessage, 0, len(g.Players)+1)
	for _, p := range g.Players {
		score := RoundScore(*p.Bid, p.TricksWon, g.Options.ScoringVariant)
		p.Score += score
		p.RoundScores = append(p.RoundScores, score)
		logs = append(logs, playable.SimpleLogMessage(p.UserID, "{} bid %d, took %d and scored %d", *p.Bid, p.TricksWon, score))
	}

	g.Trick = nil

	if g.Round >= g.TotalRounds()-1 {
		g.Phase = PhaseGameOver
		return append(logs, playable.SimpleLogMessage("", "The game is over"))
	}

	g.Phase = PhaseRoundOver
	return logs
}

func (g *GameData) currentTurn() string {
	switch g.Phase {
	case PhaseBidding, PhasePlaying:
		return g.Players[g.CurrentPlayer].UserID
	}

	return ""
}

func (g *GameData) winners() []string {
	if g.Phase != PhaseGameOver {
		return nil
	}

	best := g.Players[0].Score
	for _, p := range g.Players[1:] {
		if p.Score > best {
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
