package http

import (
	"fmt"
	"net/http"
)

// RequestSigner attaches credentials to every outgoing request.
type RequestSigner interface {
	Sign(req *http.Request) error
}

// SignerFunc adapts a function to RequestSigner.
type SignerFunc func(req *http.Request) error

func (f SignerFunc) Sign(req *http.Request) error {
	return f(req)
}

// NoopSigner leaves requests untouched.
type NoopSigner struct{}

func (NoopSigner) Sign(*http.Request) error { return nil }

// BearerSigner sets an Authorization: Bearer header.
type BearerSigner struct {
	Token string
}

func (s BearerSigner) Sign(req *http.Request) error {
	if s.Token == "" {
		return fmt.Errorf("bearer token is empty")
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)
	return nil
}

// SignerFromToken returns a BearerSigner when a token is configured, otherwise a NoopSigner.
func SignerFromToken(token string) RequestSigner {
	if token == "" {
		return NoopSigner{}
	}
	return BearerSigner{Token: token}
}
