package ohhell

import (
	"cardroom-server/pkg/playable"
	"fmt"
)

// ScoringVariant determines how a missed bid is scored
type ScoringVariant string

// scoring variants
const (
	// ScoringStandard scores nothing for a missed bid
	ScoringStandard ScoringVariant = "standard"
	// ScoringPartial scores one point per trick for a missed bid
	ScoringPartial ScoringVariant = "partial"
)

// TrumpLeadPolicy determines when trump may be led
type TrumpLeadPolicy string

// trump lead policies
const (
	// TrumpBroken allows leading trump once trump was played in an earlier trick,
	// or when the player holds nothing but trump
	TrumpBroken TrumpLeadPolicy = "broken"
	// TrumpAnytime allows leading trump at any time
	TrumpAnytime TrumpLeadPolicy = "anytime"
)

// Options are options for creating a new game of Oh Hell
type Options struct {
	MaxHandSize     int             `json:"maxHandSize"`
	ScoringVariant  ScoringVariant  `json:"scoringVariant"`
	TrumpLeadPolicy TrumpLeadPolicy `json:"trumpLeadPolicy"`
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		MaxHandSize:     10,
		ScoringVariant:  ScoringStandard,
		TrumpLeadPolicy: TrumpBroken,
	}
}

// NewOptions builds options from the additional data supplied when the game is created
func NewOptions(additionalData playable.AdditionalData) (Options, error) {
	opts := DefaultOptions()

	if n, ok := additionalData.GetInt("maxHandSize"); ok {
		opts.MaxHandSize = n
	}

	if s, ok := additionalData.GetString("scoringVariant"); ok {
		opts.ScoringVariant = ScoringVariant(s)
	}

	if s, ok := additionalData.GetString("trumpLeadPolicy"); ok {
		opts.TrumpLeadPolicy = TrumpLeadPolicy(s)
	}

	if err := opts.validate(); err != nil {
		return Options{}, err
	}

	return opts, nil
}

func (o Options) validate() error {
	if o.MaxHandSize < 1 {
		return ErrInvalidHandSize
	}

	switch o.ScoringVariant {
	case ScoringStandard, ScoringPartial:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidScoringVariant, o.ScoringVariant)
	}

	switch o.TrumpLeadPolicy {
	case TrumpBroken, TrumpAnytime:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidTrumpLeadPolicy, o.TrumpLeadPolicy)
	}

	return nil
}

// handSize returns the largest hand that can be dealt to every player
func (o Options) handSize(players int) int {
	max := deckSize / players
	if o.MaxHandSize < max {
		return o.MaxHandSize
	}

	return max
}
