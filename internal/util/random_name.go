package util

import (
	"cardroom-server/internal/rng"
	"fmt"
)

var adjectives = []string{
	"Lucky", "Sly", "Bold", "Quiet", "Grinning", "Steady", "Reckless", "Patient", "Cunning", "Happy", "Wily",
	"Red", "Blue", "Green", "Golden", "Purple", "Fuzzy", "Smiling", "Tall", "Grand", "Dealing", "Shuffling",
}

var animals = []string{
	"Dog", "Cat", "Mouse", "Alligator", "Shark", "Hippo", "Giraffe", "Lion", "Tiger", "Bear", "Otter",
	"Dolphin", "Hedgehog", "Lizard", "Owl", "Fox", "Wolf", "Panda", "Raccoon", "Badger", "Weasel",
}

// RandomName returns a display name by combining an adjective with an animal
func RandomName(g rng.Generator) string {
	adjectivesIndex := g.Intn(len(adjectives))
	animalsIndex := g.Intn(len(animals))

	return fmt.Sprintf("%s %s", adjectives[adjectivesIndex], animals[animalsIndex])
}
