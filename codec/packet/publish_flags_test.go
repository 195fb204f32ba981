package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretPublishFlags(t *testing.T) {
	t.Run("all flags clear", func(t *testing.T) {
		dup, qos, retain, err := InterpretPublishFlags(0x30)
		require.NoError(t, err)
		assert.False(t, dup)
		assert.Equal(t, QoS0, qos)
		assert.False(t, retain)
	})

	t.Run("dup qos1 retain", func(t *testing.T) {
		dup, qos, retain, err := InterpretPublishFlags(0x3B)
		require.NoError(t, err)
		assert.True(t, dup)
		assert.Equal(t, QoS1, qos)
		assert.True(t, retain)
	})

	t.Run("qos2 no dup no retain", func(t *testing.T) {
		dup, qos, retain, err := InterpretPublishFlags(0x34)
		require.NoError(t, err)
		assert.False(t, dup)
		assert.Equal(t, QoS2, qos)
		assert.False(t, retain)
	})

	t.Run("qos value 3 is invalid", func(t *testing.T) {
		_, _, _, err := InterpretPublishFlags(0x36)
		assert.ErrorIs(t, err, ErrInvalidQoS)
	})

	t.Run("dup with qos0 is extracted, not rejected here", func(t *testing.T) {
		dup, qos, _, err := InterpretPublishFlags(0x38)
		require.NoError(t, err)
		assert.True(t, dup)
		assert.Equal(t, QoS0, qos)
	})
}
