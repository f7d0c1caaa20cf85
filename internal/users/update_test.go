package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSetEmpty(t *testing.T) {
	_, err := BuildSet(map[string]any{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	_, err = BuildSet(nil)
	assert.ErrorIs(t, err, ErrEmptyUpdate)
}

func TestBuildSetRejectsUnknownColumn(t *testing.T) {
	_, err := BuildSet(map[string]any{"user_id": float64(7)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_id")

	// Clearly dangerous columns are outside the allow-list too.
	_, err = BuildSet(map[string]any{"pass_hash": "x"})
	assert.Error(t, err)

	_, err = BuildSet(map[string]any{"api_allowed_functions": "ALL_FUNCTIONS"})
	assert.Error(t, err)
}

func TestBuildSetValidation(t *testing.T) {
	_, err := BuildSet(map[string]any{"active": "maybe"})
	assert.Error(t, err, "active must be Y or N")

	_, err = BuildSet(map[string]any{"hotkeys_active": "2"})
	assert.Error(t, err)

	_, err = BuildSet(map[string]any{"user_level": float64(12)})
	assert.Error(t, err, "level out of range")

	_, err = BuildSet(map[string]any{"user_level": float64(2.5)})
	assert.Error(t, err, "level must be integral")

	_, err = BuildSet(map[string]any{"full_name": float64(4)})
	assert.Error(t, err, "text fields reject non-strings")
}

func TestBuildSetNormalizes(t *testing.T) {
	set, err := BuildSet(map[string]any{
		"full_name":               "New Name",
		"active":                  "N",
		"user_level":              float64(4),
		"wrapup_seconds_override": "30",
	})
	require.NoError(t, err)
	require.Len(t, set, 4)

	// Deterministic, sorted column order.
	assert.Equal(t, "active", set[0].Column)
	assert.Equal(t, "full_name", set[1].Column)
	assert.Equal(t, "user_level", set[2].Column)
	assert.Equal(t, "wrapup_seconds_override", set[3].Column)

	assert.Equal(t, "N", set[0].Value)
	assert.Equal(t, "New Name", set[1].Value)
	assert.Equal(t, 4, set[2].Value)
	assert.Equal(t, 30, set[3].Value)
}
