package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPlaced, StatusShipped},
		{StatusPlaced, StatusCancelled},
		{StatusShipped, StatusDelivered},
		{StatusShipped, StatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	forbidden := []struct{ from, to Status }{
		{StatusPlaced, StatusDelivered}, // no skipping shipment
		{StatusDelivered, StatusCancelled},
		{StatusCancelled, StatusPlaced},
		{StatusDelivered, StatusPlaced},
		{Status("UNKNOWN"), StatusShipped},
	}
	for _, tc := range forbidden {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
