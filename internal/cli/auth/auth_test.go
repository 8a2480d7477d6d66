package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyring_RoundTrip(t *testing.T) {
	keyring.MockInit()

	store := Keyring{}
	server := "http://localhost:5000"

	_, err := store.LoadSession(server)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, store.SaveSession(server, "realestate.sid=abc"))

	cookie, err := store.LoadSession(server)
	require.NoError(t, err)
	assert.Equal(t, "realestate.sid=abc", cookie)

	require.NoError(t, store.DeleteSession(server))
	require.NoError(t, store.DeleteSession(server), "deleting twice is fine")

	_, err = store.LoadSession(server)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}
