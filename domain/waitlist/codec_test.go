package waitlist

import (
	"testing"
	"time"

	"github.com/launchline/go-waitlist-kit/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeEntries_RoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	entries := []models.WaitlistEntry{
		{
			ID:        "8b0a4f2e-7a1d-4c1b-9f3e-2d5a6b7c8d9e",
			Name:      "Asha Raman",
			Email:     "Asha@Example.com",
			Company:   "Launchline",
			Role:      "Engineer",
			CreatedAt: createdAt,
		},
		{
			ID:        "1c2d3e4f-5a6b-7c8d-9e0f-1a2b3c4d5e6f",
			Name:      "Noor Haddad",
			Email:     "noor@example.com",
			CreatedAt: createdAt.Add(-time.Hour),
		},
	}

	payload, err := encodeEntries(entries)
	require.NoError(t, err)

	decoded, err := decodeEntries(payload)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	assert.Equal(t, entries[0].ID, decoded[0].ID)
	assert.Equal(t, entries[0].Name, decoded[0].Name)
	assert.Equal(t, entries[0].Email, decoded[0].Email, "stored email keeps its casing")
	assert.Equal(t, entries[0].Company, decoded[0].Company)
	assert.Equal(t, entries[0].Role, decoded[0].Role)
	assert.True(t, decoded[0].CreatedAt.Equal(entries[0].CreatedAt))

	assert.Equal(t, entries[1].ID, decoded[1].ID)
	assert.Empty(t, decoded[1].Company)
	assert.Empty(t, decoded[1].Role)
}

func TestEncodeEntries_NilEncodesAsEmptyArray(t *testing.T) {
	payload, err := encodeEntries(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(payload))

	decoded, err := decodeEntries(payload)
	require.NoError(t, err)
	assert.NotNil(t, decoded)
	assert.Empty(t, decoded)
}

func TestEncodeEntries_OmitsAbsentOptionalFields(t *testing.T) {
	payload, err := encodeEntries([]models.WaitlistEntry{
		{
			ID:        "a",
			Name:      "Asha Raman",
			Email:     "asha@example.com",
			CreatedAt: time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	assert.NotContains(t, string(payload), `"company"`)
	assert.NotContains(t, string(payload), `"role"`)
}

func TestDecodeEntries_MalformedPayload(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{name: "truncated document", payload: `[{"id":"a","email":`},
		{name: "wrong top-level shape", payload: `{"id":"a"}`},
		{name: "number payload", payload: `7`},
		{name: "wrong field type", payload: `[{"id":42}]`},
		{name: "plain text", payload: `hello`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeEntries([]byte(tc.payload))
			assert.Error(t, err)
		})
	}
}
