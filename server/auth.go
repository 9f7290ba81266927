package server

import (
	"crypto/sha1"
	"fmt"
	"math/rand"

	log "github.com/sirupsen/logrus"
)

// sharedKey is the key downloads are signed with. It is derived from the
// configured api key or passphrase; without either a random key is used, so
// download links stop working across restarts.
func (s *Server) sharedKey() []byte {
	switch {
	case s.Params.APIKey != nil:
		return s.Params.APIKey
	case s.Params.Passphrase != "":
		hash := sha1.Sum([]byte(s.Params.Passphrase))
		return []byte(fmt.Sprintf("%x", hash[0:16]))
	default:
		if s.randomKey == nil {
			b := make([]byte, 16)
			for i := range b {
				b[i] = byte(rand.Intn(256))
			}
			s.randomKey = []byte(fmt.Sprintf("%x", b))
		}
		return s.randomKey
	}
}

func (s *Server) checkAPIKey(inputKey string) bool {
	if inputKey == "" {
		return false
	}
	if inputKey == string(s.sharedKey()) {
		return true
	}
	log.Debugf("Incorrect api key, expected %x", s.sharedKey())
	return false
}
