package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalActionable(t *testing.T) {
	assert.True(t, SignalBuy.Actionable())
	assert.True(t, SignalSell.Actionable())
	assert.False(t, SignalHold.Actionable())
	assert.False(t, Signal("").Actionable())
}
