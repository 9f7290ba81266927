package server

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// token identifies a download behind a rewritten link: the site that served
// the result and the link on that site.
type token struct {
	Site string `json:"site"`
	Link string `json:"link"`
}

func (t *token) Encode(key []byte) (string, error) {
	claims := jwt.MapClaims{
		"site": t.Site,
		"link": t.Link,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func decodeToken(tokenString string, key []byte) (*token, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid download token")
	}
	site, _ := claims["site"].(string)
	link, _ := claims["link"].(string)
	return &token{Site: site, Link: link}, nil
}
