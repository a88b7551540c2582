package warmup

import (
	"context"
	"testing"
	"time"

	"github.com/baditaflorin/go_slot_normalizer/internal/adapters/logger"
	"github.com/baditaflorin/go_slot_normalizer/internal/adapters/normalizer"
	"github.com/baditaflorin/go_slot_normalizer/internal/core/domain"
	"github.com/baditaflorin/go_slot_normalizer/internal/core/slot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flipping struct{}

// Canonicalize appends a marker on every call, so nothing is stable.
func (flipping) Canonicalize(_ domain.Domain, s, v string, _ []domain.Substitution) (string, string) {
	return s, v + "!"
}

func TestWarmUpReportsStableTable(t *testing.T) {
	tn := normalizer.NewTimeNormalizer()
	text := normalizer.NewTextNormalizer(tn)
	canon, err := slot.NewCanonicalizer(slot.DefaultConfig(), logger.NewNopLogger(), text, tn)
	require.NoError(t, err)

	m := NewManager(logger.NewNopLogger(), WarmupConfig{Concurrency: 2, Iterations: 2, Duration: time.Minute})
	m.RegisterNormalizer(text)
	m.RegisterCanonicalizer(canon)

	report := m.WarmUp(context.Background())
	assert.Equal(t, len(slot.GoldenCases()), report.Cases)
	assert.Empty(t, report.Unstable)
}

func TestWarmUpFlagsUnstableCanonicalizer(t *testing.T) {
	m := NewManager(logger.NewNopLogger(), WarmupConfig{Concurrency: 1, Iterations: 1})
	m.RegisterCanonicalizer(flipping{})

	report := m.WarmUp(context.Background())
	assert.Len(t, report.Unstable, report.Cases)
}

func TestWarmUpStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewManager(logger.NewNopLogger(), DefaultWarmupConfig())
	m.RegisterNormalizer(normalizer.NewTextNormalizer(nil))
	report := m.WarmUp(ctx)
	assert.Empty(t, report.Unstable)
	assert.Less(t, report.Duration, time.Minute)
}
