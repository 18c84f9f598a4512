package security_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfadhilr/typerace/internal/security"
)

func TestValidateRoomCode(t *testing.T) {
	t.Run("accepts safe codes", func(t *testing.T) {
		for _, code := range []string{"AB12", "room-1", "my_room", "x"} {
			got, err := security.ValidateRoomCode(code)
			require.NoError(t, err, "code %q", code)
			assert.Equal(t, code, got)
		}
	})

	t.Run("trims whitespace", func(t *testing.T) {
		got, err := security.ValidateRoomCode("  AB12  ")
		require.NoError(t, err)
		assert.Equal(t, "AB12", got)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		for _, code := range []string{
			"",
			"   ",
			strings.Repeat("a", security.MaxRoomCodeLength+1),
			"room code",
			"room/1",
			"room<script>",
		} {
			_, err := security.ValidateRoomCode(code)
			assert.Error(t, err, "code %q", code)
		}
	})
}

func TestValidateName(t *testing.T) {
	t.Run("accepts real names", func(t *testing.T) {
		for _, name := range []string{"alice", "Bob Smith", "O'Brien", "José", "李明", "player_1", "J.R."} {
			got, err := security.ValidateName(name)
			require.NoError(t, err, "name %q", name)
			assert.Equal(t, name, got)
		}
	})

	t.Run("trims whitespace", func(t *testing.T) {
		got, err := security.ValidateName("  alice  ")
		require.NoError(t, err)
		assert.Equal(t, "alice", got)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		for _, name := range []string{
			"",
			"   ",
			strings.Repeat("a", security.MaxNameLength+1),
			"alice<script>",
			"alice\x00",
			"alice\nbob",
		} {
			_, err := security.ValidateName(name)
			assert.Error(t, err, "name %q", name)
		}
	})
}
