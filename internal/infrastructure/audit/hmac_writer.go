package audit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
)

// SignAuditEvent calculates the HMAC-SHA256 signature over the canonical
// JSON serialization of an audit event.
func SignAuditEvent(event models.AuditEvent, secret string) (string, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return "", err
	}

	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

// VerifyAuditEvent reports whether the signature matches the event under the
// given secret.
func VerifyAuditEvent(event models.AuditEvent, secret, signature string) bool {
	expected, err := SignAuditEvent(event, secret)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(signature))
}
