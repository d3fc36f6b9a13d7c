package framing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
)

func TestPack(t *testing.T) {
	t.Run("Success_Layout", func(t *testing.T) {
		bits, err := Pack("A")
		require.NoError(t, err)

		expected := []byte{
			0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, // length 1
			0, 1, 0, 0, 0, 0, 0, 1, // 'A' = 0x41
		}
		assert.Equal(t, expected, bits)
		assert.Len(t, bits, BitsNeeded(1))
	})

	t.Run("Success_MaxPayload", func(t *testing.T) {
		bits, err := Pack(strings.Repeat("a", MaxPayload))
		require.NoError(t, err)
		assert.Len(t, bits, 16+MaxPayload*8)
		for _, b := range bits[:16] {
			assert.Equal(t, byte(1), b)
		}
	})

	t.Run("Error_Empty", func(t *testing.T) {
		_, err := Pack("")
		assert.ErrorIs(t, err, fingerprintDomain.ErrEmptyPayload)
	})

	t.Run("Error_TooLong", func(t *testing.T) {
		_, err := Pack(strings.Repeat("a", MaxPayload+1))
		assert.ErrorIs(t, err, fingerprintDomain.ErrCapacity)
	})
}

func TestUnpack(t *testing.T) {
	token := "q83vEjRWeJCrze8SNFZ4kA=="

	t.Run("Success_RoundTrip", func(t *testing.T) {
		bits, err := Pack(token)
		require.NoError(t, err)

		got, err := Unpack(NewSliceSource(bits), len(bits))
		require.NoError(t, err)
		assert.Equal(t, token, got)
	})

	t.Run("Success_TrailingBitsIgnored", func(t *testing.T) {
		bits, err := Pack(token)
		require.NoError(t, err)
		bits = append(bits, 1, 0, 1, 1, 0, 1)

		got, err := Unpack(NewSliceSource(bits), len(bits))
		require.NoError(t, err)
		assert.Equal(t, token, got)
	})

	t.Run("Success_LazySource", func(t *testing.T) {
		bits, err := Pack(token)
		require.NoError(t, err)

		reads := 0
		src := SourceFunc(func() (byte, bool) {
			if reads >= len(bits) {
				return 0, false
			}
			reads++
			return bits[reads-1], true
		})

		got, err := Unpack(src, 1<<20)
		require.NoError(t, err)
		assert.Equal(t, token, got)
		assert.Equal(t, len(bits), reads)
	})

	t.Run("Error_ShortPrefix", func(t *testing.T) {
		_, err := Unpack(NewSliceSource(make([]byte, 10)), 10)
		assert.ErrorIs(t, err, fingerprintDomain.ErrFraming)
	})

	t.Run("Error_ZeroLength", func(t *testing.T) {
		_, err := Unpack(NewSliceSource(make([]byte, 64)), 64)
		assert.ErrorIs(t, err, fingerprintDomain.ErrFraming)
	})

	t.Run("Error_LengthExceedsCapacity", func(t *testing.T) {
		bits, err := Pack(token)
		require.NoError(t, err)

		_, err = Unpack(NewSliceSource(bits), len(bits)-1)
		assert.ErrorIs(t, err, fingerprintDomain.ErrFraming)
	})

	t.Run("Error_SourceRunsDry", func(t *testing.T) {
		bits, err := Pack(token)
		require.NoError(t, err)

		_, err = Unpack(NewSliceSource(bits[:len(bits)-3]), 1<<20)
		assert.ErrorIs(t, err, fingerprintDomain.ErrFraming)
	})

	t.Run("Error_NonASCII", func(t *testing.T) {
		bits := appendBits(nil, 1, LengthBits)
		bits = appendBits(bits, 0xC3, 8)

		_, err := Unpack(NewSliceSource(bits), len(bits))
		assert.ErrorIs(t, err, fingerprintDomain.ErrDecode)
	})
}

func TestSliceSource(t *testing.T) {
	src := NewSliceSource([]byte{1, 0, 3})

	b, ok := src.Next()
	assert.True(t, ok)
	assert.Equal(t, byte(1), b)
	b, ok = src.Next()
	assert.True(t, ok)
	assert.Equal(t, byte(0), b)
	b, ok = src.Next()
	assert.True(t, ok)
	assert.Equal(t, byte(1), b)
	_, ok = src.Next()
	assert.False(t, ok)
}
