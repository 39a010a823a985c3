package signature

import (
	"context"
	"encoding/hex"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/usecase"
	"github.com/fastygo/contracts/usecase/contract"
)

const secret = "s3cr3t"

type memoryEvents struct {
	mu     sync.Mutex
	seen   map[string]bool
	forgot []string
}

func (m *memoryEvents) MarkProcessed(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[id] {
		return false, nil
	}
	m.seen[id] = true
	return true, nil
}

func (m *memoryEvents) Forget(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, id)
	m.forgot = append(m.forgot, id)
	return nil
}

type fixture struct {
	uc     *UseCase
	events *memoryEvents
	calls  []contract.ConfirmSignaturePayload
	err    error
}

func newFixture() *fixture {
	f := &fixture{events: &memoryEvents{seen: map[string]bool{}}}
	d := usecase.NewDispatcher()
	d.RegisterCommand(contract.CommandConfirmSignature, func(_ context.Context, payload interface{}) (interface{}, error) {
		p := payload.(contract.ConfirmSignaturePayload)
		f.calls = append(f.calls, p)
		if f.err != nil {
			return nil, f.err
		}
		return &domain.Contract{ID: "ctr-for-" + p.DocumentID, Status: domain.ContractSigned}, nil
	})
	f.uc = New(secret, f.events, d, nil)
	return f
}

func sign(body string) string {
	return hex.EncodeToString(Sign([]byte(secret), []byte(body)))
}

func TestVerify(t *testing.T) {
	uc := New(secret, nil, usecase.NewDispatcher(), nil)
	body := []byte(`{"event_id":"e1"}`)
	good := sign(string(body))

	assert.NoError(t, uc.Verify(body, good))
	assert.NoError(t, uc.Verify(body, "sha256="+good))

	tests := map[string]string{
		"empty":     "",
		"not hex":   "zz",
		"wrong mac": sign(`{"event_id":"e2"}`),
	}
	for name, sig := range tests {
		t.Run(name, func(t *testing.T) {
			err := uc.Verify(body, sig)
			assert.ErrorIs(t, err, domain.ErrInvalidSignature)
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
		})
	}

	assert.ErrorIs(t, New("", nil, nil, nil).Verify(body, good), domain.ErrInvalidSignature)
}

func TestHandleSignedEvent(t *testing.T) {
	f := newFixture()
	body := `{"event_id":"evt-1","event_type":"document.signed","document_id":"doc-9"}`

	res, err := f.uc.Handle(context.Background(), []byte(body), sign(body))
	require.NoError(t, err)
	assert.Equal(t, OutcomeProcessed, res.Outcome)
	assert.Equal(t, "ctr-for-doc-9", res.ContractID)
	require.Len(t, f.calls, 1)
	assert.Equal(t, contract.ConfirmSignaturePayload{EventID: "evt-1", DocumentID: "doc-9"}, f.calls[0])

	again, err := f.uc.Handle(context.Background(), []byte(body), sign(body))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, again.Outcome)
	assert.Len(t, f.calls, 1)
}

func TestHandleIgnoresOtherEvents(t *testing.T) {
	f := newFixture()
	body := `{"event_id":"evt-2","event_type":"document.viewed","document_id":"doc-9"}`

	res, err := f.uc.Handle(context.Background(), []byte(body), sign(body))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, res.Outcome)
	assert.Empty(t, f.calls)
	assert.Empty(t, f.events.seen)
}

func TestHandleRejectsBadSignatureWithoutSideEffects(t *testing.T) {
	f := newFixture()
	body := `{"event_id":"evt-3","event_type":"document.completed","document_id":"doc-9"}`

	_, err := f.uc.Handle(context.Background(), []byte(body), sign("tampered"))
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
	assert.Empty(t, f.calls)
	assert.Empty(t, f.events.seen)
}

func TestHandleReleasesEventOnFailure(t *testing.T) {
	f := newFixture()
	f.err = domain.ErrContractNotFound
	body := `{"event_id":"evt-4","event_type":"document.completed","document_id":"doc-unknown"}`

	_, err := f.uc.Handle(context.Background(), []byte(body), sign(body))
	assert.ErrorIs(t, err, domain.ErrContractNotFound)
	assert.Equal(t, []string{"evt-4"}, f.events.forgot)

	f.err = nil
	res, err := f.uc.Handle(context.Background(), []byte(body), sign(body))
	require.NoError(t, err)
	assert.Equal(t, OutcomeProcessed, res.Outcome, "a failed delivery can be retried")
}

func TestHandleMalformedPayload(t *testing.T) {
	f := newFixture()

	body := `not json`
	_, err := f.uc.Handle(context.Background(), []byte(body), sign(body))
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	body = `{"event_type":"document.signed","document_id":"doc-1"}`
	_, err = f.uc.Handle(context.Background(), []byte(body), sign(body))
	assert.Equal(t, "event_id", domain.ErrorDetails(err)["field"])

	body = `{"event_id":"evt-5","event_type":"document.signed"}`
	_, err = f.uc.Handle(context.Background(), []byte(body), sign(body))
	assert.Equal(t, "document_id", domain.ErrorDetails(err)["field"])
}
