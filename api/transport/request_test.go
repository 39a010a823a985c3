package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentDayAcceptsNumberOrString(t *testing.T) {
	tests := map[string]*string{
		`{"first_payment_day": 15}`:           strPtr("15"),
		`{"first_payment_day": "15"}`:         strPtr("15"),
		`{"first_payment_day": "2026-11-15"}`: strPtr("2026-11-15"),
		`{"first_payment_day": "15/11/26"}`:   strPtr("15/11/26"),
		`{"first_payment_day": null}`:         nil,
		`{}`:                                  nil,
	}
	for body, want := range tests {
		t.Run(body, func(t *testing.T) {
			var req ContractRequest
			require.NoError(t, json.Unmarshal([]byte(body), &req))
			assert.Equal(t, want, req.FirstPaymentDay.Ptr())
		})
	}
}

func TestPaymentDayRejectsOtherTypes(t *testing.T) {
	var req ContractRequest
	assert.Error(t, json.Unmarshal([]byte(`{"first_payment_day": true}`), &req))
}

func strPtr(s string) *string { return &s }
