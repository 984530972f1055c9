package audit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
)

func TestSignAuditEvent_RoundTrip(t *testing.T) {
	event := models.NewAuditEvent(uuid.New(), constants.EventTypeLoginSuccess, "success", "user authenticated")

	signature, err := SignAuditEvent(*event, "topsecret")
	require.NoError(t, err)
	assert.NotEmpty(t, signature)

	assert.True(t, VerifyAuditEvent(*event, "topsecret", signature))
	assert.False(t, VerifyAuditEvent(*event, "wrongsecret", signature))
}

func TestSignAuditEvent_TamperDetection(t *testing.T) {
	event := models.NewAuditEvent(uuid.New(), constants.EventTypeTokenIssue, "success", "tokens issued")

	signature, err := SignAuditEvent(*event, "topsecret")
	require.NoError(t, err)

	event.Result = "failure"
	assert.False(t, VerifyAuditEvent(*event, "topsecret", signature))
}

func TestSignAuditEvent_Deterministic(t *testing.T) {
	event := models.NewAuditEvent(uuid.New(), constants.EventTypeTokenRefresh, "success", "rotated")

	first, err := SignAuditEvent(*event, "topsecret")
	require.NoError(t, err)
	second, err := SignAuditEvent(*event, "topsecret")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
