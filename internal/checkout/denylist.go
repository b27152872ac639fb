package checkout

import "strings"

// Known placeholder references. Cheap test-data filter, not payment
// verification.
var denylist = map[string]struct{}{
	"TEST":       {},
	"TESTING":    {},
	"DEMO":       {},
	"SAMPLE":     {},
	"DUMMY":      {},
	"NONE":       {},
	"N/A":        {},
	"1234567890": {},
	"0123456789": {},
}

// DeniedPaymentRef reports whether the claimed reference is an obvious
// placeholder: a denylisted token, a repeated single character (covers
// "11111111", "xxxxxxxx"), or too short to be a real transaction id.
func DeniedPaymentRef(ref string) bool {
	r := strings.ToUpper(strings.TrimSpace(ref))
	if len(r) < 4 {
		return true
	}
	if _, ok := denylist[r]; ok {
		return true
	}
	repeated := true
	for i := 1; i < len(r); i++ {
		if r[i] != r[0] {
			repeated = false
			break
		}
	}
	return repeated
}
