package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mfadhilr/typerace/internal/services"
)

func TestConnectionRegistry(t *testing.T) {
	t.Run("join and rooms", func(t *testing.T) {
		reg := services.NewConnectionRegistry()

		reg.Join("conn-1", "AB12")
		assert.Equal(t, []string{"AB12"}, reg.Rooms("conn-1"))
		assert.Empty(t, reg.Rooms("conn-2"))
	})

	t.Run("leave removes association", func(t *testing.T) {
		reg := services.NewConnectionRegistry()

		reg.Join("conn-1", "AB12")
		reg.Leave("conn-1", "AB12")
		assert.Empty(t, reg.Rooms("conn-1"))

		// Leaving twice is harmless.
		reg.Leave("conn-1", "AB12")
	})

	t.Run("drop removes every association", func(t *testing.T) {
		reg := services.NewConnectionRegistry()

		reg.Join("conn-1", "AB12")
		reg.Join("conn-1", "CD34")
		assert.Len(t, reg.Rooms("conn-1"), 2)

		reg.Drop("conn-1")
		assert.Empty(t, reg.Rooms("conn-1"))
	})
}
