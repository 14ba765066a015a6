package checksum

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSum_KnownVector(t *testing.T) {
	// sha256 of the empty string is a fixed, well-known value.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Sum(nil))

	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		Sum([]byte("hello")))
}

func TestSum_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")
		first := Sum(data)
		second := Sum(data)

		if first != second {
			t.Fatalf("digest not deterministic: %s != %s", first, second)
		}
		if len(first) != 64 {
			t.Fatalf("digest length %d, want 64", len(first))
		}
		if first != strings.ToLower(first) {
			t.Fatalf("digest not lowercase: %s", first)
		}
	})
}

func TestSum_DiffersForDifferentContent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(t, "data")
		mutated := append(append([]byte{}, data...), 0x01)

		if Sum(data) == Sum(mutated) {
			t.Fatalf("distinct inputs produced identical digests")
		}
	})
}

func TestSumReader(t *testing.T) {
	data := []byte("some archive bytes")
	sum, err := SumReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Sum(data), sum)
}

func TestVerify(t *testing.T) {
	data := []byte("content")

	assert.NoError(t, Verify(data, Sum(data)))

	err := Verify(data, Sum([]byte("other content")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}
