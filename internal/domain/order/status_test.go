package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_TransitionGraph(t *testing.T) {
	all := []Status{StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled}

	legal := map[Status][]Status{
		StatusPending:   {StatusPreparing, StatusCancelled},
		StatusPreparing: {StatusReady},
		StatusReady:     {StatusDelivered},
		StatusDelivered: {},
		StatusCancelled: {},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, next := range legal[from] {
				if next == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusPreparing.Terminal())
	assert.False(t, StatusReady.Terminal())
	assert.False(t, Status("bogus").Terminal())
}

func TestStatus_Cancellable(t *testing.T) {
	assert.True(t, StatusPending.Cancellable())
	assert.False(t, StatusPreparing.Cancellable())
	assert.False(t, StatusReady.Cancellable())
	assert.False(t, StatusDelivered.Cancellable())
	assert.False(t, StatusCancelled.Cancellable())
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status("shipped").Valid())
	assert.False(t, Status("").Valid())
}
