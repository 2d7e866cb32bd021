// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.
package fmindex

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// Index is an immutable FM-index over a text of symbols T. It owns a
// character-start table, a wavelet matrix over the BWT, the converter used
// to build it, and an optional sampled suffix array. A nil SSA means the
// index was built count-only: Search and Count still work, Locate returns
// ErrNoPositionSupport. See spec section 3.
type Index[T any] struct {
	conv   Converter[T]
	cTable []uint64 // len sigma+1
	wm     *waveletMatrix
	ssa    *sampledSuffixArray // nil => count-only
	n      uint64
}

// BuildCountOnly builds an index that supports Search, Count, and both
// iterators but not Locate. Use this when the caller never needs absolute
// positions and wants to skip the SSA's memory cost entirely.
func BuildCountOnly[T any](text []T, conv Converter[T]) (*Index[T], error) {
	return build(text, conv, nil)
}

// Build builds an index with a sampled suffix array at the given level,
// enabling Locate. Level 0 samples every row (fastest locate, most
// memory); each increment halves memory and doubles the worst-case number
// of LF hops Locate performs.
func Build[T any](text []T, conv Converter[T], level uint) (*Index[T], error) {
	return build(text, conv, &level)
}

func build[T any](text []T, conv Converter[T], level *uint) (*Index[T], error) {
	sigma := conv.Len()
	if sigma == 0 {
		return nil, ErrEmptyAlphabet
	}

	codes := make([]uint64, 0, len(text)+1)
	for _, sym := range text {
		code, ok := conv.Convert(sym)
		if !ok {
			return nil, ErrAlphabetMismatch
		}
		codes = append(codes, code)
	}
	if len(codes) == 0 || codes[len(codes)-1] != 0 {
		codes = append(codes, 0)
	}
	n := len(codes)

	freq := make([]uint64, sigma)
	for _, c := range codes {
		freq[c]++
	}
	cTable := make([]uint64, sigma+1)
	var total uint64
	for c, f := range freq {
		cTable[c] = total
		total += f
	}
	cTable[sigma] = total

	sa := sais(codes, int(sigma))

	l := make([]uint64, n)
	for i, pos := range sa {
		if pos == 0 {
			l[i] = 0
		} else {
			l[i] = codes[pos-1]
		}
	}
	wm := buildWaveletMatrix(l, sigma)

	var ssa *sampledSuffixArray
	if level != nil {
		ssa = buildSampledSuffixArray(sa, *level)
	}

	return &Index[T]{conv: conv, cTable: cTable, wm: wm, ssa: ssa, n: uint64(n)}, nil
}

// Len returns the length of the indexed text, including the sentinel.
func (idx *Index[T]) Len() uint64 {
	return idx.n
}

// Size estimates the index's heap footprint in bytes, for capacity
// planning. It adds the wavelet matrix's footprint and, when present, the
// sampled suffix array's.
func (idx *Index[T]) Size() int {
	size := idx.wm.heapSize() + len(idx.cTable)*8
	size += idx.ssa.heapSize()
	return size
}

// HasPositionSupport reports whether the index was built with a sampled
// suffix array, i.e. whether Locate can succeed.
func (idx *Index[T]) HasPositionSupport() bool {
	return idx.ssa != nil
}

// sigma returns the dense alphabet size this index was built over.
func (idx *Index[T]) sigma() uint64 {
	return uint64(len(idx.cTable) - 1)
}

// getL returns the BWT character (dense code) at row i.
func (idx *Index[T]) getL(i uint64) uint64 {
	return idx.wm.Access(int(i))
}

// getF returns the dense code c such that C[c] <= i < C[c+1], i.e. the
// character stored in the first column at row i.
func (idx *Index[T]) getF(i uint64) uint64 {
	// cTable is non-decreasing with cTable[0] = 0 and cTable[sigma] = n;
	// find the last c with cTable[c] <= i.
	c := sort.Search(len(idx.cTable), func(c int) bool {
		return idx.cTable[c] > i
	})
	return uint64(c - 1)
}

// lfStep reads L[i] itself and applies the LF mapping: the row whose first
// column holds the character that preceded row i's suffix in the text.
// Used by iteration and by locate, where the character isn't already
// known.
func (idx *Index[T]) lfStep(i uint64) uint64 {
	c := idx.getL(i)
	return idx.lfWith(c, i)
}

// lfWith applies the LF mapping for an already-known character c, without
// reading L[i]. This is the form backward search uses to extend a pattern:
// the character being searched for is known in advance.
func (idx *Index[T]) lfWith(c, i uint64) uint64 {
	return idx.cTable[c] + uint64(idx.wm.Rank(c, int(i)))
}

// flStep applies the FL mapping, the inverse of lfStep.
func (idx *Index[T]) flStep(i uint64) uint64 {
	c := idx.getF(i)
	return idx.flWith(c, i)
}

// flWith applies the FL mapping for an already-known character c.
func (idx *Index[T]) flWith(c, i uint64) uint64 {
	pos := idx.wm.Select(c, int(i-idx.cTable[c]))
	return uint64(pos)
}

// locateRow recovers SA[row] by walking lfStep until the sampled suffix
// array yields a stored sample, then adding the number of hops taken.
func (idx *Index[T]) locateRow(row uint64) (uint64, error) {
	if idx.ssa == nil {
		return 0, ErrNoPositionSupport
	}
	var steps uint64
	k := row
	for {
		if v, ok := idx.ssa.Get(int(k)); ok {
			return (uint64(v) + steps) % idx.n, nil
		}
		k = idx.lfStep(k)
		steps++
	}
}

// Search returns the cursor for pattern: the cursor over every row of the
// text, extended by backward search over pattern. An empty pattern leaves
// the range at [0, n).
func (idx *Index[T]) Search(pattern []T) (*Cursor[T], error) {
	return newCursor(idx).Extend(pattern)
}

const serializationMagic = "fmix"
const serializationVersion = 1

// converterDescriptorOf reports the stored (tag, params) pair describing
// conv, if it is one of the built-in Identity/Range variants; otherwise the
// custom-converter tag with no params (see converterTagCustom).
func converterDescriptorOf[T any](conv Converter[T]) (byte, []uint64) {
	if d, ok := any(conv).(converterDescriptor); ok {
		return d.describeConverter()
	}
	return converterTagCustom, nil
}

func uint64SliceEqual(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MarshalBinary serializes the index to a stable, self-describing byte
// stream: converter variant and parameters, the C table, the wavelet
// matrix, and the sampled suffix array (or its absence). It performs no I/O
// itself; the caller decides where the bytes go. See spec section 6.
func (idx *Index[T]) MarshalBinary() ([]byte, error) {
	var buf []byte
	buf = append(buf, serializationMagic...)
	buf = appendUvarint(buf, serializationVersion)

	convTag, convParams := converterDescriptorOf[T](idx.conv)
	buf = append(buf, convTag)
	buf = appendUvarint(buf, uint64(len(convParams)))
	for _, p := range convParams {
		buf = appendUvarint(buf, p)
	}

	buf = appendUvarint(buf, idx.n)
	buf = appendUvarint(buf, idx.sigma())

	buf = appendUvarint(buf, uint64(len(idx.cTable)))
	for _, c := range idx.cTable {
		buf = appendUvarint(buf, c)
	}

	buf = marshalWaveletMatrix(buf, idx.wm)

	if idx.ssa == nil {
		buf = append(buf, 0)
	} else {
		buf = append(buf, 1)
		buf = marshalSSA(buf, idx.ssa)
	}
	return buf, nil
}

// UnmarshalIndex deserializes an index produced by MarshalBinary, wiring it
// to the supplied converter. The converter must match the one the index
// was built with: for the built-in Identity/Range variants, the serialized
// variant tag and parameters (size, or lo/hi) are cross-checked against
// conv's own, not just the alphabet size — two converters that happen to
// share a Len() but differ in their actual symbol mapping (e.g. Range('a',
// 'z') vs. a hypothetical Range('A', 'Z')) are rejected rather than
// silently decoding garbage. A caller-supplied converter that isn't one of
// the built-ins can only be cross-checked by alphabet size, since it has no
// recoverable parameters.
func UnmarshalIndex[T any](data []byte, conv Converter[T]) (*Index[T], error) {
	r := &byteReader{data: data}
	magic, err := r.take(4)
	if err != nil {
		return nil, err
	}
	if string(magic) != serializationMagic {
		return nil, fmt.Errorf("fmindex: bad magic header %q", magic)
	}
	version, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	if version != serializationVersion {
		return nil, fmt.Errorf("fmindex: unsupported format version %d", version)
	}

	storedConvTag, err := r.byte()
	if err != nil {
		return nil, err
	}
	numConvParams, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	storedConvParams := make([]uint64, numConvParams)
	for i := range storedConvParams {
		storedConvParams[i], err = r.uvarint()
		if err != nil {
			return nil, err
		}
	}
	wantConvTag, wantConvParams := converterDescriptorOf[T](conv)
	if wantConvTag != storedConvTag || !uint64SliceEqual(wantConvParams, storedConvParams) {
		return nil, fmt.Errorf("fmindex: converter does not match serialized index (variant tag %d with params %v, want tag %d with params %v)", storedConvTag, storedConvParams, wantConvTag, wantConvParams)
	}

	n, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	sigma, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	if sigma != conv.Len() {
		return nil, fmt.Errorf("fmindex: converter alphabet size %d does not match serialized index %d", conv.Len(), sigma)
	}

	cLen, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	cTable := make([]uint64, cLen)
	for i := range cTable {
		cTable[i], err = r.uvarint()
		if err != nil {
			return nil, err
		}
	}

	wm, err := unmarshalWaveletMatrix(r)
	if err != nil {
		return nil, err
	}

	hasSSA, err := r.byte()
	if err != nil {
		return nil, err
	}
	var ssa *sampledSuffixArray
	if hasSSA == 1 {
		ssa, err = unmarshalSSA(r)
		if err != nil {
			return nil, err
		}
	}

	return &Index[T]{conv: conv, cTable: cTable, wm: wm, ssa: ssa, n: n}, nil
}

// byteReader is a minimal cursor over a []byte for UnmarshalIndex, reading
// the same primitives MarshalBinary writes.
type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("fmindex: truncated index data")
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *byteReader) byte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *byteReader) uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, fmt.Errorf("fmindex: malformed varint in index data")
	}
	r.pos += n
	return v, nil
}

func appendUvarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

func marshalBitVector(buf []byte, bv *bitVector) []byte {
	buf = appendUvarint(buf, uint64(bv.n))
	buf = appendUvarint(buf, uint64(len(bv.words)))
	for _, w := range bv.words {
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], w)
		buf = append(buf, tmp[:]...)
	}
	return buf
}

func unmarshalBitVector(r *byteReader) (*bitVector, error) {
	n, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	numWords, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	words := make([]uint64, numWords)
	for i := range words {
		b, err := r.take(8)
		if err != nil {
			return nil, err
		}
		words[i] = binary.LittleEndian.Uint64(b)
	}
	builder := &bitVectorBuilder{words: words, n: int(n)}
	return builder.Build(), nil
}

func marshalWaveletMatrix(buf []byte, wm *waveletMatrix) []byte {
	buf = appendUvarint(buf, uint64(wm.n))
	buf = appendUvarint(buf, uint64(wm.height))
	for l := 0; l < wm.height; l++ {
		buf = appendUvarint(buf, uint64(wm.zeros[l]))
		buf = marshalBitVector(buf, wm.levels[l])
	}
	return buf
}

func unmarshalWaveletMatrix(r *byteReader) (*waveletMatrix, error) {
	n, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	height, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	wm := &waveletMatrix{n: int(n), height: int(height), levels: make([]*bitVector, height), zeros: make([]int, height)}
	for l := 0; l < int(height); l++ {
		z, err := r.uvarint()
		if err != nil {
			return nil, err
		}
		wm.zeros[l] = int(z)
		bv, err := unmarshalBitVector(r)
		if err != nil {
			return nil, err
		}
		wm.levels[l] = bv
	}
	return wm, nil
}

func marshalSSA(buf []byte, s *sampledSuffixArray) []byte {
	buf = appendUvarint(buf, uint64(s.level))
	buf = marshalBitVector(buf, s.present)
	buf = appendUvarint(buf, uint64(len(s.values)))
	for _, v := range s.values {
		buf = appendUvarint(buf, uint64(v))
	}
	return buf
}

func unmarshalSSA(r *byteReader) (*sampledSuffixArray, error) {
	level, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	present, err := unmarshalBitVector(r)
	if err != nil {
		return nil, err
	}
	numValues, err := r.uvarint()
	if err != nil {
		return nil, err
	}
	values := make([]int, numValues)
	for i := range values {
		v, err := r.uvarint()
		if err != nil {
			return nil, err
		}
		values[i] = int(v)
	}
	return &sampledSuffixArray{level: uint(level), present: present, values: values}, nil
}
