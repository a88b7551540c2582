package lineprocessor

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/baditaflorin/go_slot_normalizer/internal/adapters/logger"
	"github.com/baditaflorin/go_slot_normalizer/internal/adapters/normalizer"
	"github.com/baditaflorin/go_slot_normalizer/internal/core/domain"
	"github.com/baditaflorin/go_slot_normalizer/internal/core/slot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestProcessor(t *testing.T, cfg ProcessingConfig) *Processor {
	t.Helper()
	tn := normalizer.NewTimeNormalizer()
	text := normalizer.NewTextNormalizer(tn)
	canon, err := slot.NewCanonicalizer(slot.DefaultConfig(), logger.NewNopLogger(), text, tn)
	require.NoError(t, err)
	return NewProcessor(logger.NewNopLogger(), text, canon, cfg)
}

func outputLines(t *testing.T, out string) []gjson.Result {
	t.Helper()
	var lines []gjson.Result
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		require.True(t, gjson.Valid(sc.Text()), sc.Text())
		lines = append(lines, gjson.Parse(sc.Text()))
	}
	return lines
}

func TestProcessMixedRecords(t *testing.T) {
	p := newTestProcessor(t, ProcessingConfig{Workers: 2, BatchSize: 3})

	input := strings.Join([]string{
		`{"text":"I want a Guesthouse/B&B","turn":3}`,
		`{"domain":"hotel","slot":"price range","value":"moderately"}`,
		``,
		`not json`,
		`{"foo":1}`,
		`{"domain":"taxi","slot":"leave at","value":"1.00","id":"x"}`,
		`[1,2]`,
		`{"domain":"restaurant","text":"The center","substitutions":[{"from":"center","to":"centre"}]}`,
	}, "\n")

	var out bytes.Buffer
	summary, err := p.Process(context.Background(), strings.NewReader(input), &out)
	require.NoError(t, err)

	assert.Equal(t, 8, summary.Lines)
	assert.Equal(t, 2, summary.Utterances)
	assert.Equal(t, 2, summary.Annotations)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Errors, 3)
	assert.Equal(t, 4, summary.Errors[0].Line)
	assert.Equal(t, 5, summary.Errors[1].Line)
	assert.Equal(t, 7, summary.Errors[2].Line)
	assert.ErrorIs(t, summary.Errors[1], errNoFields)

	lines := outputLines(t, out.String())
	require.Len(t, lines, 4)

	assert.Equal(t, "i want a guest house and bed and breakfast", lines[0].Get("text").String())
	assert.Equal(t, int64(3), lines[0].Get("turn").Int())

	assert.Equal(t, "pricerange", lines[1].Get("slot").String())
	assert.Equal(t, "moderate", lines[1].Get("value").String())
	assert.Equal(t, "hotel", lines[1].Get("domain").String())

	assert.Equal(t, "leaveat", lines[2].Get("slot").String())
	assert.Equal(t, "01:00", lines[2].Get("value").String())
	assert.Equal(t, "x", lines[2].Get("id").String())

	assert.Equal(t, "the centre", lines[3].Get("text").String())
}

func TestProcessPreservesOrder(t *testing.T) {
	p := newTestProcessor(t, ProcessingConfig{Workers: 4, BatchSize: 7})

	var in strings.Builder
	for i := 0; i < 250; i++ {
		fmt.Fprintf(&in, "{\"text\":\"Line %d at 9pm\"}\n", i)
	}

	var out bytes.Buffer
	summary, err := p.Process(context.Background(), strings.NewReader(in.String()), &out)
	require.NoError(t, err)
	assert.Equal(t, 250, summary.Utterances)
	assert.Empty(t, summary.Errors)

	lines := outputLines(t, out.String())
	require.Len(t, lines, 250)
	for i, l := range lines {
		assert.Equal(t, fmt.Sprintf("line %d at 21:00", i), l.Get("text").String())
	}
}

func TestProcessConfigSubstitutions(t *testing.T) {
	p := newTestProcessor(t, ProcessingConfig{
		Substitutions: []domain.Substitution{{From: "center", To: "centre"}},
	})

	var out bytes.Buffer
	_, err := p.Process(context.Background(),
		strings.NewReader(`{"domain":"attraction","slot":"area","value":"Center"}`), &out)
	require.NoError(t, err)

	lines := outputLines(t, out.String())
	require.Len(t, lines, 1)
	assert.Equal(t, "centre", lines[0].Get("value").String())
}

func TestProcessCancelled(t *testing.T) {
	p := newTestProcessor(t, ProcessingConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Process(ctx, strings.NewReader(`{"text":"hi"}`), &bytes.Buffer{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestProcessLineTooLong(t *testing.T) {
	p := newTestProcessor(t, ProcessingConfig{MaxLineSize: 16})

	_, err := p.Process(context.Background(),
		strings.NewReader(`{"text":"this record is far too long"}`), &bytes.Buffer{})
	assert.ErrorIs(t, err, bufio.ErrTooLong)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestProcessWriteError(t *testing.T) {
	p := newTestProcessor(t, ProcessingConfig{})
	_, err := p.Process(context.Background(), strings.NewReader(`{"text":"hi"}`), failingWriter{})
	assert.Error(t, err)
}
