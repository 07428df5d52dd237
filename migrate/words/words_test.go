package words

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPickMatchesTagShape mirrors §8 scenario 6: generating migration
// index 0 must yield words that satisfy ^0000_[a-z]+_[a-z]+$ once
// formatted by the caller.
func TestPickMatchesTagShape(t *testing.T) {
	adj, noun := Pick(1700000000, 0)
	tag := "0000_" + adj + "_" + noun
	assert.Regexp(t, regexp.MustCompile(`^0000_[a-z]+_[a-z]+$`), tag)
}

func TestPickIsDeterministic(t *testing.T) {
	a1, n1 := Pick(1700000000, 3)
	a2, n2 := Pick(1700000000, 3)
	assert.Equal(t, a1, a2)
	assert.Equal(t, n1, n2)
}

func TestPickVariesByIndex(t *testing.T) {
	a0, n0 := Pick(1700000000, 0)
	a1, n1 := Pick(1700000000, 1)
	assert.False(t, a0 == a1 && n0 == n1)
}
