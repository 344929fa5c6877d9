package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_TeamGenerateRequest(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		result, err := Validate(TeamGenerateSchema, map[string]interface{}{
			"sessionId":             "abc-123",
			"teamType":              "Professional",
			"additionalConstraints": "prefer two duelists",
		})

		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
	})

	t.Run("missing team type", func(t *testing.T) {
		result, err := Validate(TeamGenerateSchema, map[string]interface{}{
			"sessionId": "abc-123",
		})

		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.NotEmpty(t, result.GetErrorMessages())
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		result, err := Validate(TeamGenerateSchema, map[string]interface{}{
			"sessionId": "abc-123",
			"teamType":  "Professional",
			"extra":     true,
		})

		require.NoError(t, err)
		assert.False(t, result.Valid)
	})

	t.Run("notification override accepted", func(t *testing.T) {
		result, err := Validate(TeamGenerateSchema, map[string]interface{}{
			"sessionId": "abc-123",
			"teamType":  "Professional",
			"notification": map[string]interface{}{
				"channel":   "email",
				"recipient": "coach@example.com",
			},
		})

		require.NoError(t, err)
		assert.True(t, result.Valid)
	})

	t.Run("unknown notification channel rejected", func(t *testing.T) {
		result, err := Validate(TeamGenerateSchema, map[string]interface{}{
			"sessionId": "abc-123",
			"teamType":  "Professional",
			"notification": map[string]interface{}{
				"channel": "pager",
			},
		})

		require.NoError(t, err)
		assert.False(t, result.Valid)
	})

	t.Run("empty session id rejected", func(t *testing.T) {
		result, err := Validate(TeamGenerateSchema, map[string]interface{}{
			"sessionId": "",
			"teamType":  "Professional",
		})

		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.True(t, result.HasErrors("sessionId"))
	})
}

func TestValidate_NotificationOverride(t *testing.T) {
	result, err := Validate(NotificationSchema, map[string]interface{}{
		"channel":   "email",
		"recipient": "coach@example.com",
	})
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = Validate(NotificationSchema, map[string]interface{}{
		"channel": "pager",
	})
	require.NoError(t, err)
	assert.False(t, result.Valid)
}
