package pipeline

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/named/internal/backend/cpu"
	"github.com/born-ml/named/internal/experiment"
	"github.com/born-ml/named/internal/named"
	"github.com/born-ml/named/internal/names"
	"github.com/born-ml/named/internal/serialization"
	"github.com/born-ml/named/internal/tensor"
	"github.com/born-ml/named/internal/tokenizer"
)

func testConfig() experiment.ModelConfig {
	return experiment.ModelConfig{
		VocabSize:  16,
		EmbedDim:   8,
		NumHeads:   2,
		MaxLength:  6,
		Labels:     []string{"noun", "verb", "other"},
		LeakySlope: 0.01,
	}
}

func newTagger(t *testing.T, backend tensor.Backend, seed int64) *Tagger {
	t.Helper()
	tagger, err := NewTagger(testConfig(), backend, rand.New(rand.NewSource(seed)), nil)
	require.NoError(t, err)
	return tagger
}

func newBatch(t *testing.T, ops named.Ops, texts ...string) *Batch {
	t.Helper()
	batch, err := NewBatch(ops, tokenizer.NewHash(16), texts, 16, 6)
	require.NoError(t, err)
	return batch
}

func TestNewBatch(t *testing.T) {
	ops := named.NamedOps(named.EngineOps(cpu.New()))
	batch := newBatch(t, ops, "the cat sat", "a dog")

	assert.Equal(t, 2, batch.Size())
	assert.Equal(t, []int{3, 2}, batch.Lengths)
	assert.Equal(t, []string{AxisLength, AxisBatch}, []string(batch.IDs.Names()))
	assert.Equal(t, tensor.Shape{3, 2}, batch.IDs.Shape())
	require.Len(t, batch.Tokens[1], 2)

	// Column 1 holds the second text followed by padding.
	ids := batch.IDs.Raw().AsInt32()
	assert.Equal(t, batch.Tokens[1][0], ids[1])
	assert.Equal(t, batch.Tokens[1][1], ids[3])
	assert.Equal(t, PadID, ids[5])
}

func TestNewBatch_Truncates(t *testing.T) {
	ops := named.NamedOps(named.EngineOps(cpu.New()))
	batch, err := NewBatch(ops, tokenizer.NewHash(16), []string{"a b c d e f g h"}, 16, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, batch.Lengths)
	assert.Equal(t, tensor.Shape{4, 1}, batch.IDs.Shape())
}

func TestNewBatch_PositionalOps(t *testing.T) {
	_, err := NewBatch(named.EngineOps(cpu.New()), tokenizer.NewHash(16), []string{"a b"}, 16, 4)
	require.Error(t, err)
	assert.True(t, names.IsNameError(err))
}

func TestForward(t *testing.T) {
	backend := cpu.New()
	ops := named.NamedOps(named.EngineOps(backend))
	tagger := newTagger(t, backend, 1234)
	batch := newBatch(t, ops, "the cat sat", "a dog")

	out, err := tagger.Forward(ops, batch)
	require.NoError(t, err)

	assert.Equal(t, []string{AxisLength, AxisBatch, AxisLabel}, []string(out.Logits.Names()))
	assert.Equal(t, tensor.Shape{3, 2, 3}, out.Logits.Shape())
	assert.Equal(t, []string{AxisBatch, AxisLength, AxisLength + named.SelfAttentionKeySuffix}, []string(out.Weights.Names()))
	assert.Equal(t, tensor.Shape{2, 3, 3}, out.Weights.Shape())
	assert.Equal(t, []string{AxisBatch, AxisLabel}, []string(out.Sentence.Names()))
	assert.Equal(t, tensor.Shape{2, 3}, out.Sentence.Shape())

	// Sentence logits are the logits of each text's last real token.
	logits := out.Logits.Raw().AsFloat32()
	sentence := out.Sentence.Raw().AsFloat32()
	for b, n := range batch.Lengths {
		for k := 0; k < 3; k++ {
			assert.Equal(t, logits[((n-1)*2+b)*3+k], sentence[b*3+k])
		}
	}
}

func TestForward_Reproducible(t *testing.T) {
	backend := cpu.New()
	ops := named.NamedOps(named.EngineOps(backend))
	batch := newBatch(t, ops, "one two three four")

	first, err := newTagger(t, backend, 7).Forward(ops, batch)
	require.NoError(t, err)
	second, err := newTagger(t, backend, 7).Forward(ops, batch)
	require.NoError(t, err)
	assert.Equal(t, first.Logits.Raw().AsFloat32(), second.Logits.Raw().AsFloat32())
}

func TestForward_Activated(t *testing.T) {
	require.NoError(t, named.Activate())
	t.Cleanup(func() { _ = named.Deactivate() })

	ops := named.Default().Current()
	tagger := newTagger(t, ops.Backend(), 1234)
	out, err := tagger.Forward(ops, newBatch(t, ops, "x y", "z"))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2, 3}, out.Logits.Shape())
}

func TestForward_PositionalOpsFail(t *testing.T) {
	backend := cpu.New()
	tagger := newTagger(t, backend, 1234)
	batch := newBatch(t, named.NamedOps(named.EngineOps(backend)), "the cat sat", "a dog")

	_, err := tagger.Forward(named.EngineOps(backend), batch)
	assert.Error(t, err)
}

func TestForward_TooLong(t *testing.T) {
	backend := cpu.New()
	ops := named.NamedOps(named.EngineOps(backend))
	tagger := newTagger(t, backend, 1234)
	batch, err := NewBatch(ops, tokenizer.NewHash(16), []string{"a b c d e f g h"}, 16, 0)
	require.NoError(t, err)

	_, err = tagger.Forward(ops, batch)
	assert.ErrorContains(t, err, "exceeds position table")

	// Truncating to the position table makes the same text fit.
	assert.Equal(t, 6, tagger.MaxLength())
	batch, err = NewBatch(ops, tokenizer.NewHash(16), []string{"a b c d e f g h"}, 16, tagger.MaxLength())
	require.NoError(t, err)
	out, err := tagger.Forward(ops, batch)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{6, 1, 3}, out.Logits.Shape())
}

func TestPredict(t *testing.T) {
	backend := cpu.New()
	ops := named.NamedOps(named.EngineOps(backend))
	tagger := newTagger(t, backend, 1234)
	batch := newBatch(t, ops, "the cat sat", "a dog")

	preds, err := tagger.Predict(ops, batch)
	require.NoError(t, err)
	require.Len(t, preds, 2)
	require.Len(t, preds[0], 3)
	require.Len(t, preds[1], 2)
	for b, row := range preds {
		for i, p := range row {
			assert.Contains(t, tagger.Labels(), p.Label)
			assert.Equal(t, batch.Tokens[b][i], p.Token)
		}
	}
}

func TestNewTagger_InvalidHeads(t *testing.T) {
	cfg := testConfig()
	cfg.NumHeads = 3
	_, err := NewTagger(cfg, cpu.New(), rand.New(rand.NewSource(1)), nil)
	assert.Error(t, err)
}

func TestArgmax(t *testing.T) {
	assert.Equal(t, 2, argmax([]float32{0.1, -1, 3, 2}))
	assert.Equal(t, 0, argmax([]float32{5}))
}

func TestTagger_SaveLoad(t *testing.T) {
	backend := cpu.New()
	ops := named.NamedOps(named.EngineOps(backend))
	batch := newBatch(t, ops, "the cat sat")
	path := filepath.Join(t.TempDir(), CheckpointFileName)

	saved := newTagger(t, backend, 1)
	require.Len(t, saved.Parameters(), 12)
	require.NoError(t, saved.Save(path, map[string]string{"seed": "1"}))

	loaded := newTagger(t, backend, 2)
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, names.Of(AxisLabel, AxisFeature), loaded.Head.Weight().AxisNames())

	want, err := saved.Forward(ops, batch)
	require.NoError(t, err)
	got, err := loaded.Forward(ops, batch)
	require.NoError(t, err)
	assert.Equal(t, want.Logits.Raw().AsFloat32(), got.Logits.Raw().AsFloat32())

	assert.Error(t, loaded.Load(filepath.Join(t.TempDir(), "missing.safetensors")))
}

func TestTagger_LoadLeavesTaggerOnError(t *testing.T) {
	backend := cpu.New()
	saved := newTagger(t, backend, 1)

	bad, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2})
	require.NoError(t, err)
	entries := make([]serialization.Entry, 0, len(saved.Parameters()))
	for k, p := range saved.Parameters() {
		entry := serialization.Entry{Name: k, Tensor: p.Tensor(), Names: p.AxisNames()}
		if k == "head.weight" {
			entry = serialization.Entry{Name: k, Tensor: bad}
		}
		entries = append(entries, entry)
	}
	path := filepath.Join(t.TempDir(), CheckpointFileName)
	require.NoError(t, serialization.Save(path, entries, nil))

	loaded := newTagger(t, backend, 2)
	before := map[string][]byte{}
	for k, p := range loaded.Parameters() {
		before[k] = append([]byte(nil), p.Tensor().Bytes()...)
	}

	require.Error(t, loaded.Load(path))
	for k, p := range loaded.Parameters() {
		assert.Equal(t, before[k], p.Tensor().Bytes(), k)
	}
	assert.Equal(t, names.Of(AxisLabel, AxisFeature), loaded.Head.Weight().AxisNames())
}
