package ohhell

import (
	"cardroom-server/pkg/playable"
	"errors"
)

// ErrNotBidding is returned when a bid is made outside of the bidding phase
var ErrNotBidding = playable.NewMoveError("bidding is over")

// ErrNotPlaying is returned when a card is played outside of the playing phase
var ErrNotPlaying = playable.NewMoveError("cards cannot be played right now")

// ErrRoundNotOver is returned when the next round is requested too early
var ErrRoundNotOver = playable.NewMoveError("the round is not over")

// ErrMissingBid is returned when a BID move has no bid
var ErrMissingBid = playable.NewMoveError("a bid is required")

// ErrMissingCard is returned when a PLAY_CARD move does not have exactly one card
var ErrMissingCard = playable.NewMoveError("exactly one card must be played")

// ErrCardNotInHand happens when the player tries to play a card they don't have
var ErrCardNotInHand = playable.NewMoveError("card is not in player's hand")

// ErrDealerBid is returned when the dealer's bid would make the bids add up to the cards dealt
var ErrDealerBid = playable.NewMoveError("dealer cannot bid so the total matches the number of cards")

// ErrFollowSuit happens when a player has a card of the lead suit and plays an off-suit card
var ErrFollowSuit = playable.NewMoveError("player must follow suit")

// ErrTrumpNotBroken happens when trump is led before it has been played in a trick
var ErrTrumpNotBroken = playable.NewMoveError("trump cannot be led until it has been broken")

// ErrInvalidHandSize is returned for a max hand size that cannot be dealt
var ErrInvalidHandSize = errors.New("max hand size must be at least 1")

// ErrInvalidScoringVariant is returned for an unknown scoring variant
var ErrInvalidScoringVariant = errors.New("unknown scoring variant")

// ErrInvalidTrumpLeadPolicy is returned for an unknown trump lead policy
var ErrInvalidTrumpLeadPolicy = errors.New("unknown trump lead policy")
