// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.
package fmindex

// sais constructs the suffix array of text (a sequence of dense codes) in
// O(n) time using induced sorting. sigma is the number of distinct codes
// that may appear in text, i.e. every element of text is in [0, sigma).
//
// Adapted from the teacher's int32-specialized SA-IS (see DESIGN.md):
// codes are uint64 and bucket arithmetic no longer offsets by a minimum
// character, because here the alphabet is always already dense from 0 and
// its size is always known up front from the converter, so the teacher's
// unknown-alphabet fallback path is not needed.
func sais(text []uint64, sigma int) []int {
	if len(text) == 0 {
		return []int{}
	}
	if len(text) == 1 {
		return []int{0}
	}
	return induceSort(text, sigma)
}

func induceSort(text []uint64, sigma int) []int {
	n := len(text)
	sa := make([]int, n)
	freq := make([]int, sigma)
	bucket := make([]int, sigma)
	frequency(text, freq)

	numLMS := insertLMS(text, sa, freq, bucket)
	if numLMS > 1 {
		induceSubL(text, sa, freq, bucket)
		induceSubS(text, sa, freq, bucket)

		// After the two passes above, the last numLMS entries of sa hold
		// the LMS positions in fully sorted (lexicographic) order.
		summary := sa[n-numLMS:]
		maxName := summarise(text, sa, summary, numLMS)

		summarySA := sa[:numLMS]
		if maxName < numLMS {
			// Some LMS substrings repeat: summarise left occurrence-order
			// names in summary; recurse on the reduced problem, then map
			// the reduced suffix array's ranks back to text positions.
			sub := make([]uint64, numLMS)
			for i, name := range summary {
				sub[i] = uint64(name)
			}
			subSA := sais(sub, maxName+1)
			copy(summarySA, subSA)
			unmap(text, sa, summarySA, summary)
		} else {
			// Every LMS substring is distinct: summary already holds
			// sorted text positions, nothing to recurse on.
			copy(summarySA, summary)
			clear(sa[numLMS:])
		}
		expand(text, sa, summarySA, freq, bucket)
	}
	induceL(text, sa, freq, bucket)
	induceS(text, sa, freq, bucket)
	return sa
}

func frequency(text []uint64, freq []int) {
	clear(freq)
	for _, v := range text {
		freq[v]++
	}
}

// bucketStart computes the starting position of each character's bucket.
func bucketStart(freq, bucket []int) {
	var offset int
	for i, n := range freq {
		if n > 0 {
			bucket[i] = offset
			offset += n
		}
	}
}

// bucketEnd computes the last occupied position of each character's bucket.
func bucketEnd(freq, bucket []int) {
	var offset int
	for i, n := range freq {
		if n > 0 {
			offset += n
			bucket[i] = offset - 1
		}
	}
}

// insertLMS places each LMS position into the tail of its character's
// bucket, scanning right to left. Returns the number of LMS positions
// found.
func insertLMS(text []uint64, sa, freq, bucket []int) int {
	bucketEnd(freq, bucket)
	var l, r uint64
	var numLMS, lastLMS int
	S := false
	for i := len(text) - 1; i >= 0; i-- {
		l, r = text[i], l
		if l < r {
			S = true
		} else if l > r && S {
			S = false
			j := int(r)
			b := bucket[j]
			bucket[j] = b - 1
			sa[b] = i + 1
			lastLMS = b
			numLMS++
		}
	}
	if numLMS > 1 {
		sa[lastLMS] = 0
	}
	return numLMS
}

// induceSubL induces L-type suffixes left to right, used while deriving the
// reduced (summary) problem.
func induceSubL(text []uint64, sa, freq, bucket []int) {
	bucketStart(freq, bucket)
	var (
		k, j     int    = len(text) - 1, 0
		l, r     uint64 = text[k-1], text[k]
		lastChar        = text[len(text)-1]
		b               = bucket[lastChar]
	)
	if l < r {
		k = -k
	}
	bucket[lastChar] = b + 1
	sa[b] = k

	for i := 0; i < len(sa); i++ {
		if sa[i] == 0 {
			continue
		}
		j = sa[i]
		if j < 0 {
			sa[i] = -j
			continue
		}
		sa[i] = 0
		k = j - 1
		l, r = text[k-1], text[k]
		if l < r {
			k = -k
		}
		b = bucket[r]
		bucket[r] = b + 1
		sa[b] = k
	}
}

// induceSubS induces S-type suffixes right to left, used while deriving the
// reduced (summary) problem.
func induceSubS(text []uint64, sa, freq, bucket []int) {
	bucketEnd(freq, bucket)
	var (
		j, b, k int
		l, r    uint64
		top     = len(sa)
	)
	for i := len(sa) - 1; i >= 0; i-- {
		j = sa[i]
		if j == 0 {
			continue
		}
		sa[i] = 0
		if j < 0 {
			top--
			sa[top] = -j
			continue
		}
		k = j - 1
		l, r = text[k-1], text[k]
		if l > r {
			k = -k
		}
		b = bucket[r]
		bucket[r] = b - 1
		sa[b] = k
	}
}

// induceL induces the final L-type suffixes left to right.
func induceL(text []uint64, sa, freq, bucket []int) {
	bucketStart(freq, bucket)
	var (
		k, j     int    = len(text) - 1, 0
		l, r     uint64 = text[k-1], text[k]
		lastChar        = text[len(text)-1]
		b               = bucket[lastChar]
	)
	if l < r {
		k = -k
	}
	bucket[lastChar] = b + 1
	sa[b] = k

	for i := 0; i < len(sa); i++ {
		j = sa[i]
		if j <= 0 {
			continue
		}
		k = j - 1
		r = text[k]
		if k > 0 {
			if l = text[k-1]; l < r {
				k = -k
			}
		}
		b = bucket[r]
		bucket[r] = b + 1
		sa[b] = k
	}
}

// induceS induces the final S-type suffixes right to left.
func induceS(text []uint64, sa, freq, bucket []int) {
	bucketEnd(freq, bucket)
	var (
		j, k, b int
		l, r    uint64
	)
	for i := len(sa) - 1; i >= 0; i-- {
		j = sa[i]
		if j >= 0 {
			continue
		}
		j = -j
		sa[i] = j
		k = j - 1
		r = text[k]
		if k > 0 {
			if l = text[k-1]; l <= r {
				k = -k
			}
		}
		b = bucket[r]
		bucket[r] = b - 1
		sa[b] = k
	}
}

// unmap maps the reduced suffix array's ranks back to original text
// positions, using a fresh right-to-left LMS scan of text; lms is scratch
// space of length len(summarySA).
func unmap(text []uint64, sa, summarySA, lms []int) {
	j := len(lms)
	var l, r uint64
	S := false
	for i := len(text) - 1; i >= 0; i-- {
		l, r = text[i], l
		if l < r {
			S = true
		} else if l > r && S {
			S = false
			j--
			lms[j] = i + 1
		}
	}
	for i := 0; i < len(lms); i++ {
		j = summarySA[i]
		sa[i] = lms[j]
		lms[j] = 0
	}
}

// lengthLMS computes the length of each LMS substring and stores it at
// sa[pos/2], keyed by the substring's starting position pos.
func lengthLMS(text []uint64, sa []int) {
	var l, r uint64
	prev := len(text) - 1
	S := false
	for i := len(text) - 1; i >= 0; i-- {
		l, r = text[i], l
		if l < r {
			S = true
		} else if l > r && S {
			S = false
			sa[(i+1)/2] = prev - i
			prev = i
		}
	}
}

func equalLMS(text []uint64, l, r, lLen, rLen int) bool {
	if lLen != rLen {
		return false
	}
	for lLen > 0 {
		if text[l] != text[r] {
			return false
		}
		l++
		r++
		lLen--
	}
	return true
}

// summarise builds the reduced (summary) string from the sorted LMS
// positions in summary (computed by induceSubL/induceSubS), assigning each
// a name equal to its rank among distinct LMS substrings. On return,
// summary holds those names keyed by occurrence order (ready to serve as
// the reduced string) when the result is < numLMS; otherwise summary still
// holds the sorted text positions and the caller skips recursion. Returns
// the largest name assigned.
func summarise(text []uint64, sa, summary []int, numLMS int) int {
	lengthLMS(text, sa)
	posLMS := summary
	name, maxName := 1, 1
	prevLen := sa[posLMS[0]/2]
	sa[posLMS[0]/2] = name
	for i := 1; i < len(posLMS); i++ {
		prev := posLMS[i-1]
		curr := posLMS[i]
		if !equalLMS(text, prev, curr, prevLen, sa[curr/2]) {
			name++
			maxName++
		}
		prevLen = sa[curr/2]
		sa[curr/2] = name
	}
	if maxName >= numLMS {
		return maxName
	}
	var j int
	for i := 0; i < len(sa)/2; i++ {
		curr := sa[i]
		if curr <= 0 {
			continue
		}
		sa[i], summary[j] = 0, curr
		j++
	}
	return maxName
}

// expand places the final LMS suffixes (summarySA, sorted text positions)
// into their buckets, scanning right to left.
func expand(text []uint64, sa, summarySA, freq, bucket []int) {
	frequency(text, freq)
	bucketEnd(freq, bucket)
	var lmsIdx, b, j int
	for i := len(summarySA) - 1; i >= 0; i-- {
		lmsIdx = summarySA[i]
		summarySA[i] = 0
		j = int(text[lmsIdx])
		b = bucket[j]
		sa[b] = lmsIdx
		bucket[j] = b - 1
	}
}
