package service

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbenna1/ferriskey-sub000/pkg/utils"
)

// rfcSecret is the ASCII key "12345678901234567890" from the RFC 6238
// reference vectors, base32 encoded without padding.
var rfcSecret = utils.Base32Encode([]byte("12345678901234567890"))

func TestTotpService_GenerateCode(t *testing.T) {
	svc := NewTotpService()

	tests := []struct {
		name string
		at   int64
		want string
	}{
		{name: "first step", at: 59, want: "287082"},
		{name: "mid epoch", at: 1111111109, want: "081804"},
		{name: "step boundary", at: 1111111111, want: "050471"},
		{name: "large counter", at: 1234567890, want: "005924"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := svc.GenerateCode(rfcSecret, time.Unix(tt.at, 0))
			require.NoError(t, err)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestTotpService_GenerateCode_InvalidSecret(t *testing.T) {
	svc := NewTotpService()

	_, err := svc.GenerateCode("not-base32!!", time.Now())
	assert.Error(t, err)
}

func TestTotpService_Verify(t *testing.T) {
	svc := NewTotpService()
	now := time.Unix(1111111109, 0)

	t.Run("current step accepted", func(t *testing.T) {
		code, err := svc.GenerateCode(rfcSecret, now)
		require.NoError(t, err)
		assert.True(t, svc.Verify(rfcSecret, code, now))
	})

	t.Run("previous step accepted", func(t *testing.T) {
		code, err := svc.GenerateCode(rfcSecret, now.Add(-30*time.Second))
		require.NoError(t, err)
		assert.True(t, svc.Verify(rfcSecret, code, now))
	})

	t.Run("next step accepted", func(t *testing.T) {
		code, err := svc.GenerateCode(rfcSecret, now.Add(30*time.Second))
		require.NoError(t, err)
		assert.True(t, svc.Verify(rfcSecret, code, now))
	})

	t.Run("two steps back rejected", func(t *testing.T) {
		code, err := svc.GenerateCode(rfcSecret, now.Add(-60*time.Second))
		require.NoError(t, err)
		assert.False(t, svc.Verify(rfcSecret, code, now))
	})

	t.Run("wrong code rejected", func(t *testing.T) {
		assert.False(t, svc.Verify(rfcSecret, "000000", now))
	})

	t.Run("wrong length rejected", func(t *testing.T) {
		assert.False(t, svc.Verify(rfcSecret, "12345", now))
	})

	t.Run("malformed secret yields false", func(t *testing.T) {
		assert.False(t, svc.Verify("???", "123456", now))
	})
}

func TestTotpService_GenerateSecret(t *testing.T) {
	svc := NewTotpService()

	secret, err := svc.GenerateSecret()
	require.NoError(t, err)

	// 20 raw bytes encode to 32 base32 characters without padding.
	assert.Len(t, secret, 32)
	assert.False(t, strings.Contains(secret, "="))

	raw, err := utils.Base32Decode(secret)
	require.NoError(t, err)
	assert.Len(t, raw, 20)
}

func TestTotpService_OtpauthURI(t *testing.T) {
	svc := NewTotpService()

	uri := svc.OtpauthURI("SECRETVALUE", "https://idp.example.com/realms/master", "alice@example.com")

	// The label is the url-encoded account name alone, the issuer lives
	// in the query string.
	assert.True(t, strings.HasPrefix(uri, "otpauth://totp/alice@example.com?"))
	assert.Contains(t, uri, "secret=SECRETVALUE")
	assert.Contains(t, uri, "issuer="+url.QueryEscape("https://idp.example.com/realms/master"))
	assert.Contains(t, uri, "digits=6")
	assert.Contains(t, uri, "period=30")
	assert.Contains(t, uri, "algorithm=SHA1")
}
