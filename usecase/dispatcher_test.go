package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/contracts/domain"
)

func TestDispatcherRoutesCommands(t *testing.T) {
	d := NewDispatcher()
	d.RegisterCommand("echo", func(_ context.Context, payload interface{}) (interface{}, error) {
		return payload, nil
	})
	d.RegisterCommand("contract.confirm_signature", func(context.Context, interface{}) (interface{}, error) {
		return nil, nil
	})

	out, err := d.ExecuteCommand(context.Background(), "echo", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", out)
	assert.Equal(t, []string{"contract.confirm_signature", "echo"}, d.Commands())
}

func TestDispatcherUnknownCommand(t *testing.T) {
	_, err := NewDispatcher().ExecuteCommand(context.Background(), "missing", nil)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInternal))
}

func TestDispatcherRejectsDuplicateRegistration(t *testing.T) {
	d := NewDispatcher()
	noop := func(context.Context, interface{}) (interface{}, error) { return nil, nil }
	d.RegisterCommand("echo", noop)
	assert.Panics(t, func() { d.RegisterCommand("echo", noop) })
}
