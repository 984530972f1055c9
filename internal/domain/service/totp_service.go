// Package service 定义领域服务接口
// TOTP 领域服务 - 基于时间的一次性口令的生成与校验
package service

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"net/url"
	"time"

	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/utils"
)

// TotpService generates and verifies time-based one-time passwords.
// Secrets are exchanged as unpadded base32 strings compatible with common
// authenticator apps.
type TotpService interface {
	// GenerateSecret produces a fresh shared secret, base32 encoded
	// without padding.
	GenerateSecret() (string, error)

	// OtpauthURI builds the otpauth:// provisioning URI rendered as a QR
	// code during enrollment.
	OtpauthURI(secret, issuer, accountName string) string

	// GenerateCode computes the 6-digit code for the secret at the given
	// time.
	GenerateCode(secret string, at time.Time) (string, error)

	// Verify checks a submitted code against the secret, accepting one
	// counter step of clock skew on either side. A malformed secret or
	// code yields false rather than an error.
	Verify(secret, code string, at time.Time) bool
}

type totpService struct{}

// NewTotpService builds the TOTP service.
func NewTotpService() TotpService {
	return &totpService{}
}

func (s *totpService) GenerateSecret() (string, error) {
	raw, err := utils.RandBytes(constants.TotpSecretLength)
	if err != nil {
		return "", errors.ErrServerError("failed to generate otp secret").WithCause(err)
	}
	return utils.Base32Encode(raw), nil
}

func (s *totpService) OtpauthURI(secret, issuer, accountName string) string {
	label := url.PathEscape(accountName)
	query := url.Values{}
	query.Set("secret", secret)
	query.Set("issuer", issuer)
	query.Set("algorithm", "SHA1")
	query.Set("digits", fmt.Sprintf("%d", constants.TotpDigits))
	query.Set("period", fmt.Sprintf("%d", constants.TotpPeriod))
	return "otpauth://totp/" + label + "?" + query.Encode()
}

func (s *totpService) GenerateCode(secret string, at time.Time) (string, error) {
	key, err := utils.Base32Decode(secret)
	if err != nil {
		return "", errors.ErrInvalidOtpSecret().WithCause(err)
	}
	counter := uint64(at.Unix() / constants.TotpPeriod)
	return hotp(key, counter), nil
}

func (s *totpService) Verify(secret, code string, at time.Time) bool {
	if len(code) != constants.TotpDigits {
		return false
	}
	key, err := utils.Base32Decode(secret)
	if err != nil {
		return false
	}

	counter := at.Unix() / constants.TotpPeriod
	for skew := int64(-constants.TotpSkewSteps); skew <= constants.TotpSkewSteps; skew++ {
		step := counter + skew
		if step < 0 {
			continue
		}
		if hmac.Equal([]byte(hotp(key, uint64(step))), []byte(code)) {
			return true
		}
	}
	return false
}

// hotp computes the HMAC-SHA1 one-time password for a counter value with
// dynamic truncation: the low nibble of the last MAC byte selects a 4-byte
// window, which is masked to 31 bits and reduced mod 10^6.
func hotp(key []byte, counter uint64) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	value := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	return fmt.Sprintf("%06d", value%1000000)
}
