package slot

import (
	"testing"

	"github.com/baditaflorin/go_slot_normalizer/internal/adapters/logger"
	"github.com/baditaflorin/go_slot_normalizer/internal/adapters/normalizer"
	"github.com/baditaflorin/go_slot_normalizer/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapMapper map[string]string

func (m mapMapper) Lookup(slot string) (string, bool) {
	v, ok := m[slot]
	return v, ok
}

func newTestCanonicalizer(t *testing.T, cfg Config) *Canonicalizer {
	t.Helper()
	tn := normalizer.NewTimeNormalizer()
	c, err := NewCanonicalizer(cfg, logger.NewNopLogger(), normalizer.NewTextNormalizer(tn), tn)
	require.NoError(t, err)
	return c
}

func TestCanonicalize(t *testing.T) {
	c := newTestCanonicalizer(t, DefaultConfig())

	tests := []struct {
		name      string
		d         domain.Domain
		slot      string
		value     string
		wantSlot  string
		wantValue string
	}{
		{"hotel area abbreviation", domain.Hotel, "area", "cen", "area", "centre"},
		{"hotel price range renamed", domain.Hotel, "price range", "moderately", "pricerange", "moderate"},
		{"hotel pricerange any", domain.Hotel, "pricerange", "any", "pricerange", DontCare},
		{"taxi leave at with period", domain.Taxi, "leave at", "1.00", "leaveat", "01:00"},
		{"taxi camel case slot", domain.Taxi, "leaveAt", "21:4", "leaveat", "21:04"},
		{"taxi arrive by", domain.Taxi, "arrive by", "1530", "arriveby", "15:30"},
		{"train arrive by hour", domain.Train, "arriveBy", "1", "arriveby", "01:00"},
		{"train leave at pm", domain.Train, "leave at", "after 5:45 pm", "leaveat", "after 17:45"},
		{"train leave at dropped", domain.Train, "leaveat", "Afternoon", "leaveat", ""},
		{"hotel type guesthouse", domain.Hotel, "type", "Guesthouse", "type", "guest house"},
		{"hotel type outside vocabulary", domain.Hotel, "type", "hostel", "type", ""},
		{"restaurant area outside vocabulary", domain.Restaurant, "area", "cambridge", "area", ""},
		{"restaurant area fix", domain.Restaurant, "area", "City Centre", "area", "centre"},
		{"restaurant time", domain.Restaurant, "time", "1330", "time", "13:30"},
		{"restaurant time from utterance", domain.Restaurant, "time", "2:00", "time", "02:00"},
		{"attraction type", domain.Attraction, "type", "musuem", "type", "museum"},
		{"attraction swimming pool", domain.Attraction, "type", "swimmingpool", "type", "swimming pool"},
		{"hotel stars", domain.Hotel, "stars", "four stars", "stars", "4"},
		{"unknown slot passes through", domain.Hotel, "wifi", "Maybe", "wifi", "maybe"},
		{"unknown domain passes through", domain.Police, "area", "cen", "area", "cen"},
		{"people keep name periods", domain.People, "name", "J.Smith", "name", "j.smith"},
		{"empty value", domain.Hotel, "area", "  ", "area", ""},
		{"empty value keeps slot name", domain.Hotel, "price range", "", "price range", ""},
		{"not mentioned keeps slot name", domain.Taxi, "leave at", "not mentioned", "leave at", ""},
		{"taxi arrive by with period", domain.Taxi, "arrive by", "1.30", "arriveby", "01:30"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			slot, value := c.Canonicalize(tc.d, tc.slot, tc.value, nil)
			assert.Equal(t, tc.wantSlot, slot)
			assert.Equal(t, tc.wantValue, value)
		})
	}
}

func TestCanonicalizeIndifferentEverywhere(t *testing.T) {
	c := newTestCanonicalizer(t, DefaultConfig())

	slots := []domain.SlotValue{
		{Domain: domain.Hotel, Slot: "type"},
		{Domain: domain.Hotel, Slot: "area"},
		{Domain: domain.Restaurant, Slot: "area"},
		{Domain: domain.Taxi, Slot: "leave at"},
		{Domain: domain.Train, Slot: "day"},
		{Domain: domain.Unspecified, Slot: "anything"},
	}
	spellings := []string{"doesnt care", "Doesn't care", "dont care", "do nt care", "don't care", "does not care"}

	for _, sv := range slots {
		for _, s := range spellings {
			_, value := c.Canonicalize(sv.Domain, sv.Slot, s, nil)
			assert.Equal(t, DontCare, value, "%s/%s/%s", sv.Domain, sv.Slot, s)
		}
	}
}

func TestCanonicalizeNotMentioned(t *testing.T) {
	drop := newTestCanonicalizer(t, DefaultConfig())
	keep := newTestCanonicalizer(t, Config{Policy: domain.NotMentionedKeep})

	for _, d := range []domain.Domain{domain.Hotel, domain.Restaurant, domain.Taxi, domain.Train, domain.Unspecified} {
		_, value := drop.Canonicalize(d, "area", "Not Mentioned", nil)
		assert.Equal(t, "", value, d.String())

		_, value = keep.Canonicalize(d, "area", "not mentioned", nil)
		assert.Equal(t, NotMentioned, value, d.String())
	}

	// The closed vocabulary does not apply to the kept literal.
	_, value := keep.Canonicalize(domain.Hotel, "type", "not mentioned", nil)
	assert.Equal(t, NotMentioned, value)
}

func TestCanonicalizeSlotNameMapping(t *testing.T) {
	c := newTestCanonicalizer(t, Config{
		Mapper: mapMapper{"leaveat": "leave", "car type": "car", "empty": ""},
	})

	slot, value := c.Canonicalize(domain.Taxi, "leave at", "9:30", nil)
	assert.Equal(t, "leave", slot)
	assert.Equal(t, "09:30", value)

	slot, _ = c.Canonicalize(domain.Taxi, "Car Type", "toyota", nil)
	assert.Equal(t, "car", slot)

	slot, _ = c.Canonicalize(domain.Taxi, "empty", "x", nil)
	assert.Equal(t, "empty", slot)

	// Unfilled slots are not renamed by the table, so the mapping misses them.
	for _, v := range []string{"", "not mentioned"} {
		slot, value = c.Canonicalize(domain.Taxi, "leave at", v, nil)
		assert.Equal(t, "leave at", slot, v)
		assert.Equal(t, "", value, v)
	}
}

func TestCanonicalizeSubstitutions(t *testing.T) {
	c := newTestCanonicalizer(t, DefaultConfig())
	subs := []domain.Substitution{{From: "center", To: "centre"}}

	_, value := c.Canonicalize(domain.Restaurant, "area", "the center", subs)
	assert.Equal(t, "", value)

	_, value = c.Canonicalize(domain.Attraction, "area", "center", subs)
	assert.Equal(t, "centre", value)
}

func TestGoldenCasesAreFixedPoints(t *testing.T) {
	c := newTestCanonicalizer(t, DefaultConfig())

	cases := GoldenCases()
	require.NotEmpty(t, cases)

	for _, gc := range cases {
		_, once := c.Canonicalize(gc.Domain, gc.Slot, gc.Value, nil)
		_, twice := c.Canonicalize(gc.Domain, gc.Slot, once, nil)
		assert.Equal(t, once, twice, "%s/%s/%q", gc.Domain, gc.Slot, gc.Value)
	}
}

func TestGoldenCasesStableOrder(t *testing.T) {
	assert.Equal(t, GoldenCases(), GoldenCases())
}

func TestNewCanonicalizerValidates(t *testing.T) {
	tn := normalizer.NewTimeNormalizer()
	_, err := NewCanonicalizer(Config{Policy: domain.NotMentionedPolicy(7)}, logger.NewNopLogger(), normalizer.NewTextNormalizer(tn), tn)
	assert.Error(t, err)

	_, err = NewCanonicalizer(DefaultConfig(), logger.NewNopLogger(), nil, tn)
	assert.Error(t, err)
}
