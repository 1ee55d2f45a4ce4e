package war

import "cardroom-server/pkg/playable"

// ErrAcknowledgeResult is returned when a card is played before the war result is acknowledged
var ErrAcknowledgeResult = playable.NewMoveError("the war result must be acknowledged first")

// ErrNoResultToAcknowledge is returned when there is no war result pending
var ErrNoResultToAcknowledge = playable.NewMoveError("there is no war result to acknowledge")

// ErrNoCardsToPlay should only happen if the game data is corrupt
var ErrNoCardsToPlay = playable.NewMoveError("player has no cards to play")
