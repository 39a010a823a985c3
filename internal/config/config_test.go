package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/contracts/internal/pricing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"DATABASE_URL", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_SSLMODE",
		"SERVER_HOST", "SERVER_PORT", "MAX_RETRY_ATTEMPTS",
		"CONTRACT_TIERS", "CONTRACT_TIER_KEYWORDS", "SIGNATURE_WEBHOOK_DEDUP_TTL",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://contracts:pw@localhost:5432/contracts?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, pricing.DefaultTable(), cfg.Contracts.Tiers)
	assert.Equal(t, []string{"software"}, cfg.Contracts.TierKeywords)
	assert.Equal(t, 72*time.Hour, cfg.Webhook.DedupTTL)
	assert.Equal(t, 5, cfg.Outbox.MaxRetry)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CONTRACT_TIERS", "Basic:1000:10; Plus:2000:20")
	t.Setenv("CONTRACT_TIER_KEYWORDS", "software, sistema ,")
	t.Setenv("OUTBOX_DRAIN_INTERVAL", "15")
	t.Setenv("TRACKING_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Len(t, cfg.Contracts.Tiers, 2)
	assert.Equal(t, "Plus", cfg.Contracts.Tiers[1].Name)
	assert.Equal(t, []string{"software", "sistema"}, cfg.Contracts.TierKeywords)
	assert.Equal(t, 15*time.Second, cfg.Outbox.DrainInterval)
	assert.Equal(t, 2*time.Second, cfg.Tracking.Timeout)
}

func TestLoadRejectsBadTierTable(t *testing.T) {
	t.Setenv("CONTRACT_TIERS", "Basic:abc:10")
	_, err := Load()
	assert.Error(t, err)
}
