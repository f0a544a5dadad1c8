package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitListPreservesOrderAndDuplicates(t *testing.T) {
	assert.Equal(t,
		[]string{"peanut", "lactose intolerance", "peanut"},
		splitList("peanut, lactose intolerance ,peanut"))
}

func TestSplitListEmpty(t *testing.T) {
	out := splitList("")
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestJoinListDropsBlanks(t *testing.T) {
	assert.Equal(t, "peanut,soy", joinList([]string{" peanut ", "", "soy", "   "}))
}

func TestSplitJoinRoundTrip(t *testing.T) {
	in := []string{"peanut", "tree nut", "shellfish"}
	assert.Equal(t, in, splitList(joinList(in)))
}
