// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.
package fmindex

import "math/bits"

// waveletMatrix is a succinct sequence of codes in [0, sigma) supporting
// Access, Rank, and Select in O(height). See spec section 4.C.
type waveletMatrix struct {
	height int
	levels []*bitVector
	zeros  []int // zeros[l] = number of 0 bits at level l
	n      int
}

// log2Ceil returns ceil(log2(sigma)), with the convention log2Ceil(0) = 0
// and log2Ceil(1) = 0 (an alphabet of size <= 1 needs no bits to encode).
func log2Ceil(sigma uint64) int {
	if sigma <= 1 {
		return 0
	}
	return bits.Len64(sigma - 1)
}

// buildWaveletMatrix builds a wavelet matrix over codes, each of which must
// be in [0, sigma).
func buildWaveletMatrix(codes []uint64, sigma uint64) *waveletMatrix {
	n := len(codes)
	height := log2Ceil(sigma)
	wm := &waveletMatrix{height: height, n: n, levels: make([]*bitVector, height), zeros: make([]int, height)}

	cur := make([]uint64, n)
	copy(cur, codes)
	for l := 0; l < height; l++ {
		shift := uint(height - 1 - l)
		builder := newBitVectorBuilder(n)
		zerosCount := 0
		for i, v := range cur {
			if (v>>shift)&1 == 1 {
				builder.Set(i)
			} else {
				zerosCount++
			}
		}
		bv := builder.Build()
		wm.levels[l] = bv
		wm.zeros[l] = zerosCount

		// Stable partition: all zero-bit elements precede all one-bit
		// elements in the next level's sequence.
		next := make([]uint64, n)
		zi, oi := 0, zerosCount
		for _, v := range cur {
			if (v>>shift)&1 == 1 {
				next[oi] = v
				oi++
			} else {
				next[zi] = v
				zi++
			}
		}
		cur = next
	}
	return wm
}

// Len returns the length of the underlying sequence.
func (wm *waveletMatrix) Len() int {
	return wm.n
}

// Access returns the code stored at position i.
func (wm *waveletMatrix) Access(i int) uint64 {
	var code uint64
	pos := i
	for l := 0; l < wm.height; l++ {
		bv := wm.levels[l]
		b := bv.Get(pos)
		code = (code << 1) | b
		if b == 0 {
			pos = bv.Rank0(pos)
		} else {
			pos = wm.zeros[l] + bv.Rank1(pos)
		}
	}
	return code
}

// Rank returns the number of occurrences of code c in positions [0, i).
func (wm *waveletMatrix) Rank(c uint64, i int) int {
	start, pos := 0, i
	for l := 0; l < wm.height; l++ {
		bv := wm.levels[l]
		b := (c >> uint(wm.height-1-l)) & 1
		if b == 0 {
			start = bv.Rank0(start)
			pos = bv.Rank0(pos)
		} else {
			start = wm.zeros[l] + bv.Rank1(start)
			pos = wm.zeros[l] + bv.Rank1(pos)
		}
	}
	return pos - start
}

// Select returns the position of the (k+1)-th (0-indexed k) occurrence of
// code c, or -1 if there is no such occurrence.
func (wm *waveletMatrix) Select(c uint64, k int) int {
	if k < 0 || k >= wm.Rank(c, wm.n) {
		return -1
	}
	// start is where c's run begins in the last level's ordering.
	start := 0
	for l := 0; l < wm.height; l++ {
		if (c>>uint(wm.height-1-l))&1 == 0 {
			start = wm.levels[l].Rank0(start)
		} else {
			start = wm.zeros[l] + wm.levels[l].Rank1(start)
		}
	}
	pos := start + k
	for l := wm.height - 1; l >= 0; l-- {
		bv := wm.levels[l]
		b := (c >> uint(wm.height-1-l)) & 1
		if b == 0 {
			pos = bv.Select0(pos)
		} else {
			pos = bv.Select1(pos - wm.zeros[l])
		}
		if pos < 0 {
			return -1
		}
	}
	return pos
}

// heapSize estimates the heap footprint in bytes, for Index.Size.
func (wm *waveletMatrix) heapSize() int {
	total := 0
	for _, bv := range wm.levels {
		total += len(bv.words)*8 + len(bv.rank0)*8
	}
	total += len(wm.zeros) * 8
	return total
}
