package vault

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authykit/authy-go/internal/invoke"
)

func TestDecodeResponse(t *testing.T) {
	t.Parallel()

	t.Run("empty stdout yields empty result", func(t *testing.T) {
		t.Parallel()
		result, err := decodeResponse(invoke.Result{})
		require.NoError(t, err)
		assert.Empty(t, result)

		result, err = decodeResponse(invoke.Result{Stdout: "  \n"})
		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("json object", func(t *testing.T) {
		t.Parallel()
		result, err := decodeResponse(invoke.Result{Stdout: `{"name":"db-url","value":"x","version":2}`})
		require.NoError(t, err)
		assert.Equal(t, "db-url", result["name"])
		assert.Equal(t, float64(2), result["version"])
	})

	t.Run("unparseable success output is a protocol violation", func(t *testing.T) {
		t.Parallel()
		_, err := decodeResponse(invoke.Result{Stdout: "vault unlocked!\n"})
		require.Error(t, err)

		var protoErr *ProtocolError
		require.True(t, errors.As(err, &protoErr))
		assert.Equal(t, "vault unlocked!\n", protoErr.Output)

		// Outside the domain taxonomy on purpose.
		var domainErr *Error
		assert.False(t, errors.As(err, &domainErr))
	})
}

func TestSecretFromResponse(t *testing.T) {
	t.Parallel()

	secret, err := secretFromResponse(map[string]any{
		"name":     "db-url",
		"value":    "postgres://localhost/mydb",
		"version":  float64(3),
		"created":  "2026-01-01T00:00:00Z",
		"modified": "2026-02-01T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, &Secret{
		Name:     "db-url",
		Value:    "postgres://localhost/mydb",
		Version:  3,
		Created:  "2026-01-01T00:00:00Z",
		Modified: "2026-02-01T00:00:00Z",
	}, secret)
}

func TestSecretFromResponse_MissingValue(t *testing.T) {
	t.Parallel()

	_, err := secretFromResponse(map[string]any{"name": "db-url"})
	var protoErr *ProtocolError
	assert.ErrorAs(t, err, &protoErr)
}

func TestSummariesFromResponse(t *testing.T) {
	t.Parallel()

	result := map[string]any{
		"secrets": []any{
			map[string]any{"name": "beta", "version": float64(2), "created": "2026-01-01T00:00:00Z"},
			map[string]any{"name": "alpha", "version": float64(1)},
			map[string]any{"version": float64(9)}, // nameless entries are skipped
			"not-an-object",
		},
	}

	summaries := summariesFromResponse(result)
	require.Len(t, summaries, 2)
	// Order preserved exactly as reported, no re-sorting.
	assert.Equal(t, "beta", summaries[0].Name)
	assert.Equal(t, 2, summaries[0].Version)
	assert.Equal(t, "alpha", summaries[1].Name)
}

func TestSummariesFromResponse_NoSecretsKey(t *testing.T) {
	t.Parallel()

	assert.Empty(t, summariesFromResponse(map[string]any{}))
	assert.Empty(t, summariesFromResponse(map[string]any{"secrets": "nope"}))
}
