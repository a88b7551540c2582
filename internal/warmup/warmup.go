package warmup

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/baditaflorin/go_slot_normalizer/internal/core/domain"
	"github.com/baditaflorin/go_slot_normalizer/internal/core/slot"
	"github.com/baditaflorin/go_slot_normalizer/internal/ports"
)

// WarmupConfig defines configuration for warming up the system
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of passes over the sample data per routine
	Iterations int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency: runtime.NumCPU(),
		Iterations:  20,
		Duration:    5 * time.Second,
		ForceGC:     true,
	}
}

// Report summarizes a warmup run.
type Report struct {
	// Cases is the number of golden annotations checked.
	Cases int
	// Unstable lists golden annotations whose canonical value changes when
	// canonicalized a second time.
	Unstable []domain.SlotValue
	Duration time.Duration
}

// Manager handles system warmup operations
type Manager struct {
	logger         ports.Logger
	normalizers    []ports.Normalizer
	canonicalizers []ports.Canonicalizer
	config         WarmupConfig
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config WarmupConfig) *Manager {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	if config.Iterations <= 0 {
		config.Iterations = 1
	}
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterNormalizer adds a normalizer to be warmed up
func (wm *Manager) RegisterNormalizer(norm ports.Normalizer) {
	wm.normalizers = append(wm.normalizers, norm)
}

// RegisterCanonicalizer adds a canonicalizer to be warmed up and checked
func (wm *Manager) RegisterCanonicalizer(c ports.Canonicalizer) {
	wm.canonicalizers = append(wm.canonicalizers, c)
}

// WarmUp runs the warmup process for all registered components
func (wm *Manager) WarmUp(ctx context.Context) Report {
	startTime := time.Now()
	wm.logger.Info("Starting system warmup",
		"components", len(wm.normalizers)+len(wm.canonicalizers),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	warmupCtx := ctx
	if wm.config.Duration > 0 {
		var cancel context.CancelFunc
		warmupCtx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	}

	wm.warmUpNormalizers(warmupCtx)
	report := wm.checkCanonicalizers()
	wm.warmUpCanonicalizers(warmupCtx)

	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	for _, sv := range report.Unstable {
		wm.logger.Warn("Correction is not a fixed point",
			"domain", sv.Domain.String(),
			"slot", sv.Slot,
			"value", sv.Value,
		)
	}

	report.Duration = time.Since(startTime)
	wm.logger.Info("System warmup completed",
		"duration", report.Duration,
		"cases", report.Cases,
		"unstable", len(report.Unstable),
	)
	return report
}

// warmUpNormalizers runs sample utterances through every normalizer
func (wm *Manager) warmUpNormalizers(ctx context.Context) {
	if len(wm.normalizers) == 0 {
		return
	}

	wm.logger.Debug("Warming up normalizers", "count", len(wm.normalizers))

	wm.parallel(ctx, func() {
		for _, normalizer := range wm.normalizers {
			for _, u := range sampleUtterances {
				_ = normalizer.Normalize(u.text, nil, u.domain)
			}
		}
	})
}

// warmUpCanonicalizers replays the golden annotations concurrently
func (wm *Manager) warmUpCanonicalizers(ctx context.Context) {
	if len(wm.canonicalizers) == 0 {
		return
	}

	wm.logger.Debug("Warming up canonicalizers", "count", len(wm.canonicalizers))

	cases := slot.GoldenCases()
	wm.parallel(ctx, func() {
		for _, c := range wm.canonicalizers {
			for _, gc := range cases {
				_, _ = c.Canonicalize(gc.Domain, gc.Slot, gc.Value, nil)
			}
		}
	})
}

// checkCanonicalizers verifies each golden annotation is stable under a
// second canonicalization with the same domain and slot.
func (wm *Manager) checkCanonicalizers() Report {
	cases := slot.GoldenCases()
	report := Report{Cases: len(cases)}
	for _, c := range wm.canonicalizers {
		for _, gc := range cases {
			_, once := c.Canonicalize(gc.Domain, gc.Slot, gc.Value, nil)
			_, twice := c.Canonicalize(gc.Domain, gc.Slot, once, nil)
			if once != twice {
				report.Unstable = append(report.Unstable, gc)
			}
		}
	}
	return report
}

// parallel runs fn Iterations times on each of Concurrency goroutines,
// stopping early when ctx is done.
func (wm *Manager) parallel(ctx context.Context, fn func()) {
	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < wm.config.Iterations; j++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				fn()
			}
		}()
	}
	wg.Wait()
}

type sample struct {
	text   string
	domain domain.Domain
}

var sampleUtterances = []sample{
	{"I need a Guesthouse in the north/east; free parking please", domain.Hotel},
	{"I'd like to leave after 5:45 pm and arrive by 9am", domain.Train},
	{"Can you book a B&B for 3 people? I don’t mind the price.", domain.Hotel},
	{"The postcode is c.b 25, 9 a.q and the phone is 0-122-336-5664", domain.Attraction},
	{"Dr. J.Smith will call you back", domain.People},
	{"A table for 2 at 7:30pm; we 're flexible", domain.Restaurant},
}
