// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.
package fmindex

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countAndLocate(t *testing.T, idx *Index[byte], pattern string) (uint64, []uint64) {
	t.Helper()
	cur, err := idx.Search([]byte(pattern))
	require.NoError(t, err)
	count := cur.Count()
	if count == 0 {
		return 0, nil
	}
	positions, err := cur.Locate()
	require.NoError(t, err)
	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })
	return count, positions
}

func TestScenarioMississippi(t *testing.T) {
	conv := NewRange[byte]('a', 'z')
	idx, err := Build([]byte("mississippi"), conv, 0)
	require.NoError(t, err)

	count, pos := countAndLocate(t, idx, "i")
	assert.Equal(t, uint64(4), count)
	assert.Equal(t, []uint64{1, 4, 7, 10}, pos)

	count, pos = countAndLocate(t, idx, "iss")
	assert.Equal(t, uint64(2), count)
	assert.Equal(t, []uint64{1, 4}, pos)

	count, pos = countAndLocate(t, idx, "ss")
	assert.Equal(t, uint64(2), count)
	assert.Equal(t, []uint64{2, 5}, pos)

	count, pos = countAndLocate(t, idx, "ppi")
	assert.Equal(t, uint64(1), count)
	assert.Equal(t, []uint64{8}, pos)

	count, _ = countAndLocate(t, idx, "z")
	assert.Equal(t, uint64(0), count)

	count, _ = countAndLocate(t, idx, "pps")
	assert.Equal(t, uint64(0), count)
}

func TestScenarioEmbeddedSentinel(t *testing.T) {
	conv := NewRange[byte]('a', 'z')
	idx, err := Build([]byte("miss\x00issippi\x00"), conv, 0)
	require.NoError(t, err)

	count, _ := countAndLocate(t, idx, "\x00")
	assert.Equal(t, uint64(2), count)

	count, _ = countAndLocate(t, idx, "\x00i")
	assert.Equal(t, uint64(1), count)

	count, _ = countAndLocate(t, idx, "iss")
	assert.Equal(t, uint64(2), count)
}

func TestScenarioUTF32Japanese(t *testing.T) {
	conv := NewRange[rune]('あ', 'ん')
	text := []rune("みんなみんなきれいだな")
	idx, err := Build(text, conv, 0)
	require.NoError(t, err)

	locate := func(pattern string) (uint64, []uint64) {
		cur, err := idx.Search([]rune(pattern))
		require.NoError(t, err)
		count := cur.Count()
		positions, err := cur.Locate()
		require.NoError(t, err)
		sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })
		return count, positions
	}

	count, pos := locate("み")
	assert.Equal(t, uint64(2), count)
	assert.Equal(t, []uint64{0, 3}, pos)

	count, pos = locate("な")
	assert.Equal(t, uint64(3), count)
	assert.Equal(t, []uint64{2, 5, 10}, pos)
}

func TestLFOrbitAndFLMapping(t *testing.T) {
	conv := NewRange[byte]('a', 'z')
	idx, err := Build([]byte("mississippi"), conv, 0)
	require.NoError(t, err)

	var orbit []uint64
	i := uint64(0)
	for range int(idx.Len()) {
		i = idx.lfStep(i)
		orbit = append(orbit, i)
	}
	assert.Equal(t, []uint64{1, 6, 7, 2, 8, 10, 3, 9, 11, 4, 5, 0}, orbit)

	fl := make([]uint64, idx.Len())
	for i := range fl {
		fl[i] = idx.flStep(uint64(i))
	}
	assert.Equal(t, []uint64{5, 0, 7, 10, 11, 4, 1, 6, 2, 3, 8, 9}, fl)
}

func TestLFFLAreInverses(t *testing.T) {
	conv := NewRange[byte](' ', 'z')
	idx, err := Build([]byte("the quick brown fox jumps over the lazy dog"), conv, 1)
	require.NoError(t, err)

	for i := uint64(0); i < idx.Len(); i++ {
		assert.Equal(t, i, idx.flStep(idx.lfStep(i)), "FL(LF(%d)) must equal %d", i, i)
		assert.Equal(t, i, idx.lfStep(idx.flStep(i)), "LF(FL(%d)) must equal %d", i, i)
	}
}

func TestBWTCycleVisitsEveryRowOnce(t *testing.T) {
	conv := NewRange[byte]('a', 'z')
	idx, err := Build([]byte("abracadabra"), conv, 0)
	require.NoError(t, err)

	seen := make(map[uint64]bool)
	i := uint64(0)
	for range int(idx.Len()) {
		i = idx.lfStep(i)
		seen[i] = true
	}
	assert.Len(t, seen, int(idx.Len()))
	assert.Equal(t, uint64(0), i, "the cycle returns to its start after n steps")
}

func TestLoremIpsumIteration(t *testing.T) {
	conv := NewRange[byte](' ', 'z')
	text := "lorem ipsum dolor sit amet consectetur adipiscing elit"
	idx, err := Build([]byte(text), conv, 1)
	require.NoError(t, err)

	cur, err := idx.Search([]byte("sit "))
	require.NoError(t, err)
	require.Equal(t, uint64(1), cur.Count())

	fwd, err := cur.IterForward()
	require.NoError(t, err)
	forward := fwd.Take(8)
	assert.Equal(t, "sit amet", string(forward))

	bwd, err := cur.IterBackward()
	require.NoError(t, err)
	backward := bwd.Take(6)
	for i, j := 0, len(backward)-1; i < j; i, j = i+1, j-1 {
		backward[i], backward[j] = backward[j], backward[i]
	}
	assert.Equal(t, "dolor ", string(backward))
}

func TestCountMatchesNaiveScan(t *testing.T) {
	conv := NewRange[byte]('a', 'z')
	texts := []string{
		"mississippi",
		"abracadabra",
		"banana",
		"aaaaaaaaaaaaaaaaaaaa",
	}
	patterns := []string{"a", "b", "an", "ana", "miss", "ra", "aa"}

	for _, text := range texts {
		idx, err := Build([]byte(text), conv, 0)
		require.NoError(t, err)
		for _, p := range patterns {
			cur, err := idx.Search([]byte(p))
			require.NoError(t, err)
			var want uint64
			for i := 0; i+len(p) <= len(text); i++ {
				if strings.HasPrefix(text[i:], p) {
					want++
				}
			}
			assert.Equal(t, want, cur.Count(), "count(%q) in %q", p, text)
		}
	}
}

func TestExtendComposesAssociatively(t *testing.T) {
	conv := NewRange[byte]('a', 'z')
	idx, err := Build([]byte("abracadabra"), conv, 0)
	require.NoError(t, err)

	direct, err := idx.Search([]byte("cadabra"))
	require.NoError(t, err)

	step1, err := idx.Search([]byte("abra"))
	require.NoError(t, err)
	composed, err := step1.Extend([]byte("cad"))
	require.NoError(t, err)

	assert.Equal(t, direct.Count(), composed.Count())
}

func TestAlphabetMismatchFailsSearchWithoutPoisoningIndex(t *testing.T) {
	conv := NewRange[byte]('a', 'z')
	idx, err := Build([]byte("mississippi"), conv, 0)
	require.NoError(t, err)

	_, err = idx.Search([]byte{'Z'})
	assert.ErrorIs(t, err, ErrAlphabetMismatch)

	cur, err := idx.Search([]byte("i"))
	require.NoError(t, err)
	assert.Equal(t, uint64(4), cur.Count())
}

func TestBuildCountOnlyRejectsLocate(t *testing.T) {
	conv := NewRange[byte]('a', 'z')
	idx, err := BuildCountOnly([]byte("mississippi"), conv)
	require.NoError(t, err)

	cur, err := idx.Search([]byte("i"))
	require.NoError(t, err)
	assert.Equal(t, uint64(4), cur.Count())

	_, err = cur.Locate()
	assert.ErrorIs(t, err, ErrNoPositionSupport)
}

func TestEmptyAlphabetRejected(t *testing.T) {
	_, err := Build([]byte{}, emptyConverter{}, 0)
	assert.ErrorIs(t, err, ErrEmptyAlphabet)
}

// emptyConverter reports an alphabet size of zero, exercising the
// construction-precondition error kind (spec section 7, kind 3).
type emptyConverter struct{}

func (emptyConverter) Convert(byte) (uint64, bool) { return 0, false }
func (emptyConverter) ConvertInv(uint64) byte      { return 0 }
func (emptyConverter) Len() uint64                 { return 0 }

func TestSerializationRoundTrip(t *testing.T) {
	conv := NewRange[byte]('a', 'z')
	idx, err := Build([]byte("mississippi"), conv, 1)
	require.NoError(t, err)

	data, err := idx.MarshalBinary()
	require.NoError(t, err)

	restored, err := UnmarshalIndex[byte](data, conv)
	require.NoError(t, err)

	for _, pattern := range []string{"i", "iss", "ss", "ppi", "z"} {
		want, wantPos := countAndLocate(t, idx, pattern)
		cur, err := restored.Search([]byte(pattern))
		require.NoError(t, err)
		assert.Equal(t, want, cur.Count())
		if want > 0 {
			gotPos, err := cur.Locate()
			require.NoError(t, err)
			sort.Slice(gotPos, func(i, j int) bool { return gotPos[i] < gotPos[j] })
			assert.Equal(t, wantPos, gotPos)
		}
	}
	assert.Equal(t, idx.Len(), restored.Len())
}

func TestUnmarshalRejectsMismatchedConverterParams(t *testing.T) {
	// 'A'..'Z' and 'a'..'z' are both 26 symbols, so Range('A','Z') and
	// Range('a','z') have the same Len() but a different mapping; the
	// stored variant tag and lo/hi parameters must catch this, not just
	// the alphabet size.
	idx, err := Build([]byte("mississippi"), NewRange[byte]('a', 'z'), 0)
	require.NoError(t, err)

	data, err := idx.MarshalBinary()
	require.NoError(t, err)

	_, err = UnmarshalIndex[byte](data, NewRange[byte]('A', 'Z'))
	assert.Error(t, err)
}

func TestUnmarshalRejectsMismatchedConverterVariant(t *testing.T) {
	// Identity[byte](27) and Range('a','z') also share Len() == 27 but are
	// different variants entirely.
	idx, err := Build([]byte("mississippi"), NewRange[byte]('a', 'z'), 0)
	require.NoError(t, err)

	data, err := idx.MarshalBinary()
	require.NoError(t, err)

	_, err = UnmarshalIndex[byte](data, NewIdentity[byte](27))
	assert.Error(t, err)
}

func TestLevel0LocateIndependentOfLevelOnCorrectness(t *testing.T) {
	conv := NewRange[byte]('a', 'z')
	text := []byte("mississippi")

	var results [][]uint64
	for level := uint(0); level <= 3; level++ {
		idx, err := Build(text, conv, level)
		require.NoError(t, err)
		_, pos := countAndLocate(t, idx, "i")
		results = append(results, pos)
	}
	for i := 1; i < len(results); i++ {
		assert.Equal(t, results[0], results[i], "locate must agree across sampling levels")
	}
}
