package rest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
)

var ErrMissingCredentials = errors.New("API key, secret and passphrase are required")

const (
	HeaderAccessKey        = "CB-ACCESS-KEY"
	HeaderAccessSign       = "CB-ACCESS-SIGN"
	HeaderAccessTimestamp  = "CB-ACCESS-TIMESTAMP"
	HeaderAccessPassphrase = "CB-ACCESS-PASSPHRASE"
)

// Signer produces request signatures: base64(HMAC-SHA256(secret, timestamp + method + path + body))
// with the secret itself base64 encoded.
type Signer struct {
	key        string
	secret     []byte
	passphrase string
}

func NewSigner(key, secret, passphrase string) (*Signer, error) {
	if key == "" || secret == "" || passphrase == "" {
		return nil, ErrMissingCredentials
	}
	decoded, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("secret is not valid base64: %w", err)
	}
	return &Signer{key: key, secret: decoded, passphrase: passphrase}, nil
}

func (s *Signer) Key() string        { return s.key }
func (s *Signer) Passphrase() string { return s.passphrase }

func (s *Signer) Sign(timestamp, method, path, body string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(timestamp + method + path + body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Headers returns the authentication headers for one request
func (s *Signer) Headers(timestamp, method, path, body string) http.Header {
	header := http.Header{}
	header.Set(HeaderAccessKey, s.key)
	header.Set(HeaderAccessSign, s.Sign(timestamp, method, path, body))
	header.Set(HeaderAccessTimestamp, timestamp)
	header.Set(HeaderAccessPassphrase, s.passphrase)
	return header
}
