package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestParseUUIDRoundTrip(t *testing.T) {
	id := uuid.New()
	parsed, err := parseUUID(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseUUIDRejectsGarbage(t *testing.T) {
	_, err := parseUUID("not-a-uuid")
	require.Error(t, err)
}
