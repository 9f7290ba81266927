package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedKeyPrefersAPIKey(t *testing.T) {
	s := &Server{Params: Params{APIKey: []byte("deadbeef")}}
	assert.Equal(t, []byte("deadbeef"), s.sharedKey())
	assert.True(t, s.checkAPIKey("deadbeef"))
	assert.False(t, s.checkAPIKey("wrong"))
	assert.False(t, s.checkAPIKey(""))
}

func TestSharedKeyFromPassphrase(t *testing.T) {
	s := &Server{Params: Params{Passphrase: "hunter2"}}
	key := s.sharedKey()
	assert.Len(t, key, 32)
	assert.Equal(t, key, s.sharedKey())
}

func TestSharedKeyRandomIsStable(t *testing.T) {
	s := &Server{}
	assert.Equal(t, s.sharedKey(), s.sharedKey())
}

func TestTokenRoundTrip(t *testing.T) {
	key := []byte("demotoken")
	tkn := &token{Site: "example", Link: "https://example.org/dl/1"}

	signed, err := tkn.Encode(key)
	require.NoError(t, err)

	decoded, err := decodeToken(signed, key)
	require.NoError(t, err)
	assert.Equal(t, tkn.Site, decoded.Site)
	assert.Equal(t, tkn.Link, decoded.Link)

	_, err = decodeToken(signed, []byte("othertoken"))
	assert.Error(t, err)
}
