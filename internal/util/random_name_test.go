package util

import (
	"cardroom-server/internal/rng"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sequence []int

func (s *sequence) Intn(n int) int {
	v := (*s)[0] % n
	*s = (*s)[1:]
	return v
}

func TestRandomName(t *testing.T) {
	assert.Equal(t, "Lucky Dog", RandomName(&sequence{0, 0}))
	assert.Equal(t, "Sly Cat", RandomName(&sequence{1, 1}))
	assert.Equal(t, "Shuffling Weasel", RandomName(&sequence{len(adjectives) - 1, len(animals) - 1}))

	name := RandomName(rng.NewSeeded(4))
	assert.Equal(t, name, RandomName(rng.NewSeeded(4)))
}
