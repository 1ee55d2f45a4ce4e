package swoop

import (
	"cardroom-server/pkg/playable"
	"errors"
)

// ErrNotPlaying is returned when a card move is made between rounds
var ErrNotPlaying = playable.NewMoveError("the round is over")

// ErrRoundNotOver is returned when the next round is requested too early
var ErrRoundNotOver = playable.NewMoveError("the round is not over")

// ErrPlayCount is returned when a play does not have 1–4 cards
var ErrPlayCount = playable.NewMoveError("play between one and four cards")

// ErrCardNotOwned is returned when a card is not in any of the player's zones
var ErrCardNotOwned = playable.NewMoveError("card is not yours to play")

// ErrDuplicateCard is returned when the same card appears twice in a move
var ErrDuplicateCard = playable.NewMoveError("the same card cannot be played twice")

// ErrMixedRanks is returned when the cards played are not all the same rank
var ErrMixedRanks = playable.NewMoveError("all cards played must be the same rank")

// ErrMysteryAlone is returned when a mystery card is combined with other cards
var ErrMysteryAlone = playable.NewMoveError("a mystery card must be played by itself")

// ErrMysteryCovered is returned when a mystery card is played while its face-up card is still there
var ErrMysteryCovered = playable.NewMoveError("the face-up card above the mystery card must be played first")

// ErrMysteryPickup is returned when a mystery card is used in a pickup
var ErrMysteryPickup = playable.NewMoveError("mystery cards cannot be picked up")

// ErrPlayTooHigh is returned when a card beats the top of the pile
var ErrPlayTooHigh = playable.NewMoveError("card is higher than the pile, pick up instead")

// ErrTooManyOfRank is returned when a play would put more than four of a rank on the pile
var ErrTooManyOfRank = playable.NewMoveError("no more than four of a rank can be on the pile")

// ErrPickupDoesNotBeat is returned when cards picked up with the pile could have been played
var ErrPickupDoesNotBeat = playable.NewMoveError("only cards higher than the pile can be picked up with it")

// ErrEmptyPile is returned when the player tries to pick up an empty pile
var ErrEmptyPile = playable.NewMoveError("there is nothing to pick up")

// ErrInvalidTargetScore is returned for a target score that is not positive
var ErrInvalidTargetScore = errors.New("target score must be greater than zero")
