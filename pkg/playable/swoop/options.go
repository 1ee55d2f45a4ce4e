package swoop

import "cardroom-server/pkg/playable"

// Options are options for creating a new game of swoop
type Options struct {
	// TargetScore ends the game once any player's score reaches it
	TargetScore int `json:"targetScore"`
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		TargetScore: 500,
	}
}

// NewOptions builds options from the additional data supplied when the game is created
func NewOptions(additionalData playable.AdditionalData) (Options, error) {
	opts := DefaultOptions()
	if n, ok := additionalData.GetInt("targetScore"); ok {
		opts.TargetScore = n
	}

	if opts.TargetScore <= 0 {
		return Options{}, ErrInvalidTargetScore
	}

	return opts, nil
}
