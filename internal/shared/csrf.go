package shared

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
)

const (
	// CSRFSessionKey stores the issued token in the session values.
	CSRFSessionKey = "csrf_token"
	// CSRFFormField is the hidden input every console form posts.
	CSRFFormField = "csrf_token"
	// CSRFHeader carries the token for requests that are not form posts.
	CSRFHeader = "X-CSRF-Token"
)

var (
	// ErrCSRFTokenMissing is returned when either side of the comparison is empty.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch is returned for a token the session did not issue.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// CSRFManager issues one token per session and checks it on unsafe requests.
type CSRFManager struct {
	secret []byte
}

// NewCSRFManager returns a manager signing tokens with secret.
func NewCSRFManager(secret string) *CSRFManager {
	return &CSRFManager{secret: []byte(secret)}
}

// Token returns the session's token, issuing one on first use. Issuing
// marks the session dirty so the token is stored on commit.
func (m *CSRFManager) Token(sess *Session) string {
	if sess == nil {
		return ""
	}
	if token := sess.Get(CSRFSessionKey); token != "" {
		return token
	}
	token := m.sign(sess.ID)
	sess.Set(CSRFSessionKey, token)
	return token
}

// Verify checks token against the one stored in sess.
func (m *CSRFManager) Verify(sess *Session, token string) error {
	if sess == nil || token == "" {
		return ErrCSRFTokenMissing
	}
	expected := sess.Get(CSRFSessionKey)
	if expected == "" {
		return ErrCSRFTokenMissing
	}
	if !hmac.Equal([]byte(expected), []byte(token)) {
		return ErrCSRFTokenMismatch
	}
	return nil
}

// TokenFromRequest reads the submitted token from the form, falling back to
// the CSRFHeader header.
func TokenFromRequest(r *http.Request) string {
	if token := r.PostFormValue(CSRFFormField); token != "" {
		return token
	}
	return r.Header.Get(CSRFHeader)
}

func (m *CSRFManager) sign(sessionID string) string {
	nonce := make([]byte, 16)
	_, _ = rand.Read(nonce)
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(sessionID))
	mac.Write(nonce)
	return base64.RawURLEncoding.EncodeToString(append(nonce, mac.Sum(nil)...))
}
