package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/baditaflorin/go_slot_normalizer/internal/config"
	"github.com/baditaflorin/go_slot_normalizer/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMappingMergesInlineEntries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "names.yaml"), []byte(`
slot_names:
  leaveat: leave
  trainid: id
substitutions:
  - from: center
    to: centre
`), 0o600))

	cfg := &config.Config{
		MappingFile:   "names.yaml",
		SlotNames:     map[string]string{"trainid": "train id"},
		Substitutions: []domain.Substitution{{From: "centre", To: "middle"}},
	}
	m, err := LoadMapping(cfg, dir)
	require.NoError(t, err)

	assert.Equal(t, "leave", m.SlotNames["leaveat"])
	assert.Equal(t, "train id", m.SlotNames["trainid"])
	assert.Equal(t, []domain.Substitution{
		{From: "center", To: "centre"},
		{From: "centre", To: "middle"},
	}, m.Substitutions)
}

func TestLoadMappingMissingFile(t *testing.T) {
	_, err := LoadMapping(&config.Config{MappingFile: "missing.yaml"}, t.TempDir())
	assert.Error(t, err)
}

func TestNewNormalizerFromConfig(t *testing.T) {
	cfg, err := config.Load(nil, "")
	require.NoError(t, err)
	cfg.NotMentioned = "keep"

	lg, err := NewLogger(config.LogConfig{File: filepath.Join(t.TempDir(), "app.log")})
	require.NoError(t, err)
	defer lg.Close()

	m := &Mapping{SlotNames: map[string]string{"arriveby": "arrive"}}
	n, err := NewNormalizer(cfg, m, lg)
	require.NoError(t, err)

	s, v := n.Canonicalize(domain.Train, "arrive by", "9am", nil)
	assert.Equal(t, "arrive", s)
	assert.Equal(t, "09:00", v)

	s, v = n.Canonicalize(domain.Train, "arrive by", "not mentioned", nil)
	assert.Equal(t, "arrive by", s)
	assert.Equal(t, "not mentioned", v)

	bp, err := NewBatchProcessor(cfg, m, lg)
	require.NoError(t, err)
	assert.NotNil(t, bp)
}

func TestShippedConfig(t *testing.T) {
	path := filepath.Join("..", "..", "configs", "slotnorm.yaml")
	cfg, err := config.Load(nil, path)
	require.NoError(t, err)

	m, err := LoadMapping(cfg, filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, "arrive", m.SlotNames["arriveby"])
	assert.Equal(t, []domain.Substitution{{From: "center", To: "centre"}}, m.Substitutions)
}

func TestMergeMappingWithoutFile(t *testing.T) {
	cfg := &config.Config{SlotNames: map[string]string{"duration": "time"}}
	m := MergeMapping(cfg, nil)
	assert.Equal(t, map[string]string{"duration": "time"}, m.SlotNames)
	assert.Empty(t, m.Substitutions)
	assert.Equal(t, "", MappingPath(cfg, "/etc/slotnorm"))

	cfg.MappingFile = "names.yaml"
	assert.Equal(t, filepath.Join("/etc/slotnorm", "names.yaml"), MappingPath(cfg, "/etc/slotnorm"))
}
