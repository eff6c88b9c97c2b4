package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		names   Names
		rank    int
		wantErr bool
	}{
		{"ok", Of("batch", "length"), 2, false},
		{"scalar", Of(), 0, false},
		{"too few", Of("batch"), 2, true},
		{"too many", Of("batch", "length", "repr"), 2, true},
		{"duplicate", Of("batch", "batch"), 2, true},
		{"empty", Of("batch", ""), 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.names, tt.rank)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsNameError(err), "want NameError, got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRename(t *testing.T) {
	seq := Of("batch", "length", "repr")

	out, err := Rename(seq, map[string]string{"repr": "hidden"})
	require.NoError(t, err)
	assert.Equal(t, Of("batch", "length", "hidden"), out)
	assert.Equal(t, Of("batch", "length", "repr"), seq, "input must not change")

	swapped, err := Rename(seq, map[string]string{"batch": "length", "length": "batch"})
	require.NoError(t, err)
	assert.Equal(t, Of("length", "batch", "repr"), swapped)

	_, err = Rename(seq, map[string]string{"missing": "x"})
	assert.True(t, IsNameError(err))

	_, err = Rename(seq, map[string]string{"repr": "batch"})
	assert.True(t, IsNameError(err), "collision must fail")
}

func TestNames_Helpers(t *testing.T) {
	seq := Of("x", "y", "z")

	assert.Equal(t, 1, seq.Index("y"))
	assert.Equal(t, -1, seq.Index("w"))
	assert.True(t, seq.Contains("z"))
	assert.Equal(t, Of("x", "z"), seq.Without("y"))
	assert.Equal(t, Of("x", "y", "w", "v"), seq.ReplaceAt(2, "w", "v"))
	assert.Equal(t, Of("y", "z"), seq.ReplaceAt(0))
	assert.Equal(t, Of("x", "y", "z", "t"), seq.Append("t"))
	assert.True(t, seq.SameSet(Of("z", "x", "y")))
	assert.False(t, seq.SameSet(Of("z", "x", "w")))
	assert.True(t, seq.Equal(Of("x", "y", "z")))
	assert.Equal(t, "(x, y, z)", seq.String())
}

func TestAlign(t *testing.T) {
	a := Of("batch", "length", "repr")
	b := Of("repr", "extra", "batch")

	perm, err := Align(a, b, []string{"batch", "repr"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, perm)
	assert.Equal(t, Of("batch", "repr", "extra"), b.Permute(perm))

	_, err = Align(a, b, []string{"length"})
	require.Error(t, err)
	assert.True(t, IsAlignmentError(err))

	_, err = Align(a, b, []string{"extra"})
	assert.True(t, IsAlignmentError(err))
}

func TestMatching(t *testing.T) {
	assert.Equal(t, Of("batch", "repr"), Matching(Of("batch", "length", "repr"), Of("repr", "batch")))
	assert.Empty(t, Matching(Of("a"), Of("b")))
}

func TestPermutation(t *testing.T) {
	perm, err := Permutation(Of("dim", "batch"), Of("batch", "dim"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, perm)
	assert.False(t, IsIdentity(perm))

	identity, err := Permutation(Of("a", "b"), Of("a", "b"))
	require.NoError(t, err)
	assert.True(t, IsIdentity(identity))

	_, err = Permutation(Of("batch_first"), Of("batch_second"))
	assert.True(t, IsAlignmentError(err))
}

func TestErrorKinds(t *testing.T) {
	err := StateErrorf("activate", "already %s", "patched")
	assert.True(t, IsStateError(err))
	assert.False(t, IsNameError(err))
	assert.Equal(t, "activate: state error: already patched", err.Error())
}
