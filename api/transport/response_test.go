package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	full := NewPage([]string{"a", "b"}, 2, 2, 0)
	assert.Equal(t, Page{Limit: 2, Offset: 0, Count: 2, More: true}, full.Meta)

	partial := NewPage([]string{"a"}, 1, 50, 10)
	assert.Equal(t, Page{Limit: 50, Offset: 10, Count: 1}, partial.Meta)
}

func TestErrorEnvelopeOmitsEmptyFields(t *testing.T) {
	out, err := json.Marshal(NewError("NOT_FOUND", "contract not found", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","code":"NOT_FOUND","error":"contract not found"}`, string(out))
}
