package playable

import "fmt"

// Player is a seated player in a game
// Players are owned by the service and read-only to an engine
type Player struct {
	UserID       string `json:"userId"`
	DisplayName  string `json:"displayName"`
	PlayerNumber int    `json:"playerNumber"`
}

// UserIDs returns the user IDs of the players in order
func UserIDs(players []*Player) []string {
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.UserID
	}

	return ids
}

// ValidatePlayers ensures the player list is usable by an engine
func ValidatePlayers(players []*Player, min, max int) error {
	if len(players) < min || len(players) > max {
		return PlayerCountError{Min: min, Max: max, Got: len(players)}
	}

	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if p == nil || p.UserID == "" {
			return ErrMissingUserID
		}

		if seen[p.UserID] {
			return fmt.Errorf("duplicate player: %s", p.UserID)
		}

		seen[p.UserID] = true
	}

	return nil
}
