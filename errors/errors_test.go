package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrDanglingReference,
		ErrDecoding,
		ErrSerialization,
		ErrInvalidSpan,
		ErrWrongPack,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				assert.True(t, Is(a, b))
			} else {
				assert.False(t, Is(a, b), "sentinel %d must not match sentinel %d", i, j)
			}
		}
	}
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(New("something else")))

	err := NewNotFound("entry %d missing", 42)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "entry 42 missing")

	wrapped := Wrap(err, "while resolving link parent")
	assert.True(t, IsNotFound(wrapped))
}

func TestIsDanglingReference(t *testing.T) {
	err := NewDanglingReference("link parent %d not in pack", 7)
	assert.True(t, IsDanglingReference(err))
	assert.False(t, IsNotFound(err))
}

func TestIsDecoding(t *testing.T) {
	err := NewDecoding("head index %d outside %d children", 99, 5)
	assert.True(t, IsDecoding(err))
	assert.Contains(t, err.Error(), "head index 99")
}

func TestIsSerialization(t *testing.T) {
	err := NewSerialization("unknown state key %q", "bogus")
	assert.True(t, IsSerialization(err))

	wrapped := Wrapf(err, "restoring entry %d", 3)
	assert.True(t, IsSerialization(wrapped))
}
