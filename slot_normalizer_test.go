package slotnormalizer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageLevelHelpers(t *testing.T) {
	assert.Equal(t, "09:00", NormalizeTime("9am"))
	assert.Equal(t, "21:00", NormalizeTime("9pm"))
	assert.Equal(t, "14:30", NormalizeTime("2:30pm"))
	assert.Equal(t, "09:45", NormalizeTime("9:45"))

	assert.Equal(t, "a guest house in the north and east", NormalizeText("A Guesthouse in the north/east", nil, Unspecified))

	s, v := Canonicalize(Hotel, "area", "cen", nil)
	assert.Equal(t, "area", s)
	assert.Equal(t, "centre", v)

	s, v = Canonicalize(Hotel, "price range", "moderately", nil)
	assert.Equal(t, "pricerange", s)
	assert.Equal(t, "moderate", v)

	s, v = Canonicalize(Taxi, "leave at", "1.00", nil)
	assert.Equal(t, "leaveat", s)
	assert.Equal(t, "01:00", v)
}

func TestNewWithOptions(t *testing.T) {
	n, err := New(
		WithoutLogging(),
		WithNotMentionedPolicy(NotMentionedKeep),
		WithSlotNameMapping(map[string]string{"pricerange": "price"}),
		WithSubstitutions([]Substitution{{From: "center", To: "centre"}}),
	)
	require.NoError(t, err)
	defer n.Close()

	_, v := n.Canonicalize(Hotel, "area", "not mentioned", nil)
	assert.Equal(t, "not mentioned", v)

	s, v := n.Canonicalize(Restaurant, "price range", "inexpensive", nil)
	assert.Equal(t, "price", s)
	assert.Equal(t, "cheap", v)

	assert.Equal(t, "the centre of town", n.Normalize("The center of town"))

	// Per-call substitutions run after the configured ones.
	out := n.NormalizeWith("the center", []Substitution{{From: "centre", To: "middle"}}, Unspecified)
	assert.Equal(t, "the middle", out)
}

func TestCanonicalizeSlotValue(t *testing.T) {
	n, err := New(WithoutLogging())
	require.NoError(t, err)

	r := n.CanonicalizeSlotValue(SlotValue{Domain: Train, Slot: "day", Value: "doesnt care"}, nil)
	assert.Equal(t, Result{Slot: "day", Value: DontCare}, r)
}

func TestNormalizerConcurrentUse(t *testing.T) {
	n, err := New(WithoutLogging())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				s, v := n.Canonicalize(Hotel, "Price Range", "Moderately", nil)
				assert.Equal(t, "pricerange", s)
				assert.Equal(t, "moderate", v)
			}
		}()
	}
	wg.Wait()
}

func TestParseDomainReexport(t *testing.T) {
	d, ok := ParseDomain("restaurant")
	assert.True(t, ok)
	assert.Equal(t, Restaurant, d)
}

func TestNewWithDefaultLogger(t *testing.T) {
	n, err := New()
	require.NoError(t, err)
	assert.Equal(t, "09:00", n.NormalizeTime("9am"))
	assert.NoError(t, n.Close())
}
