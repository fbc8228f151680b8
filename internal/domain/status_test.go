package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatusCanonicalises(t *testing.T) {
	cases := map[string]Status{
		"pending":          StatusPending,
		"Pending":          StatusPending,
		"INTERESTED":       StatusInterested,
		"not interested":   StatusNotInterested,
		" Talk to Later ":  StatusTalkToLater,
	}
	for raw, want := range cases {
		got, ok := ParseStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
		assert.False(t, got.Custom(), raw)
	}
}

func TestParseStatusCustomPassthrough(t *testing.T) {
	got, ok := ParseStatus("Callback Friday")
	assert.True(t, ok)
	assert.Equal(t, Status("Callback Friday"), got)
	assert.True(t, got.Custom())
	assert.True(t, got.Terminal())
}

func TestParseStatusEmptyInvalid(t *testing.T) {
	_, ok := ParseStatus("   ")
	assert.False(t, ok)
}

func TestTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, Status("").Terminal())
	assert.True(t, StatusInterested.Terminal())
	assert.True(t, StatusNotInterested.Terminal())
	assert.True(t, StatusTalkToLater.Terminal())
}

func TestLeadOwnership(t *testing.T) {
	agent := "a1"
	l := &Lead{AgentID: &agent}
	assert.True(t, l.OwnedBy("a1"))
	assert.False(t, l.OwnedBy("a2"))
	assert.False(t, (&Lead{}).OwnedBy("a1"))
	assert.True(t, l.Assigned())
}
