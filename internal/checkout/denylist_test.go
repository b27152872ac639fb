package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeniedPaymentRef(t *testing.T) {
	tests := map[string]struct {
		ref    string
		denied bool
	}{
		"repeated digits":        {"11111111", true},
		"repeated letters":       {"xxxxxxxx", true},
		"test token":             {"TEST", true},
		"test token lowercase":   {"test", true},
		"demo token":             {"demo", true},
		"dummy token":            {"DUMMY", true},
		"padded token":           {"  TEST  ", true},
		"ascending digits":       {"1234567890", true},
		"too short":              {"ab1", true},
		"empty":                  {"", true},
		"plausible reference":    {"TXN-8842-AC31", false},
		"mixed digits":           {"84421973", false},
		"short but varied":       {"8X1Q", false},
		"contains but not equal": {"TEST-8842", false},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.denied, DeniedPaymentRef(tc.ref))
		})
	}
}
