// Copyright (c) 2025 Nikita Kamenev
// Licensed under the MIT License. See LICENSE file in the project root for details.
package fmindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeConverter(t *testing.T) {
	conv := NewRange[byte]('a', 'z')

	assert.Equal(t, uint64(27), conv.Len())

	code, ok := conv.Convert('a')
	assert.True(t, ok)
	assert.Equal(t, uint64(1), code)

	code, ok = conv.Convert('z')
	assert.True(t, ok)
	assert.Equal(t, uint64(26), code)

	code, ok = conv.Convert(0)
	assert.True(t, ok, "the zero value is always accepted as the sentinel")
	assert.Equal(t, uint64(0), code)

	_, ok = conv.Convert('A')
	assert.False(t, ok, "symbols outside [lo, hi] are rejected")

	assert.Equal(t, byte('a'), conv.ConvertInv(1))
	assert.Equal(t, byte(0), conv.ConvertInv(0))
}

func TestIdentityConverter(t *testing.T) {
	conv := NewIdentity[uint16](300)

	code, ok := conv.Convert(299)
	assert.True(t, ok)
	assert.Equal(t, uint64(299), code)

	_, ok = conv.Convert(300)
	assert.False(t, ok)

	assert.Equal(t, uint16(42), conv.ConvertInv(42))
	assert.Equal(t, uint64(300), conv.Len())
}
