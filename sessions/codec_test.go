package sessions_test

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/go-social-publisher/internal/errors"
	"github.com/jrsteele09/go-social-publisher/sessions"
	"github.com/stretchr/testify/require"
)

const testSecret = "correct-horse-battery-staple"

func expiresAt(t time.Time) *int64 {
	s := sessions.Session{}
	s.ExpireAt(t)
	return s.ExpiresAt
}

func validSessions() map[string]sessions.Session {
	return map[string]sessions.Session{
		"twitter": {
			AccessToken:  "12345-abcdef",
			AccessSecret: "token-secret",
			Platform:     sessions.PlatformTwitter,
			UserID:       "12345",
		},
		"twitter without user": {
			AccessToken: "tok",
			Platform:    sessions.PlatformTwitter,
		},
		"linkedin": {
			AccessToken:  "li-token",
			RefreshToken: "li-refresh",
			Platform:     sessions.PlatformLinkedIn,
			UserID:       "abc123",
			ExpiresAt:    expiresAt(time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)),
		},
	}
}

func TestCodecRoundTrip(t *testing.T) {
	plain, err := sessions.NewCodec("")
	require.NoError(t, err)
	signed, err := sessions.NewCodec(testSecret, sessions.WithMaxAge(time.Hour))
	require.NoError(t, err)

	for _, codec := range []*sessions.Codec{plain, signed} {
		for name, s := range validSessions() {
			t.Run(name, func(t *testing.T) {
				value, err := codec.Encode(s)
				require.NoError(t, err)
				require.NotEmpty(t, value)

				decoded, err := codec.Decode(value)
				require.NoError(t, err)
				require.Equal(t, s, decoded)
			})
		}
	}
}

func TestPlainCodecIsCookieSafeJSON(t *testing.T) {
	codec, err := sessions.NewCodec("")
	require.NoError(t, err)
	require.False(t, codec.Signed())

	value, err := codec.Encode(sessions.Session{AccessToken: "tok", Platform: sessions.PlatformTwitter})
	require.NoError(t, err)
	require.NotContains(t, value, `"`)
	require.NotContains(t, value, ",")

	raw, err := url.QueryUnescape(value)
	require.NoError(t, err)
	require.JSONEq(t, `{"accessToken":"tok","platform":"twitter"}`, raw)
}

func TestDecodeInvalid(t *testing.T) {
	codec, err := sessions.NewCodec("")
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"not json", "hello-world"},
		{"truncated json", url.QueryEscape(`{"accessToken":"tok"`)},
		{"missing platform", url.QueryEscape(`{"accessToken":"tok"}`)},
		{"unknown platform", url.QueryEscape(`{"accessToken":"tok","platform":"myspace"}`)},
		{"missing access token", url.QueryEscape(`{"platform":"linkedin"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode(tt.value)
			require.ErrorIs(t, err, errors.ErrInvalidSession)
		})
	}
}

func TestEncodeRejectsInvalidSession(t *testing.T) {
	codec, err := sessions.NewCodec(testSecret)
	require.NoError(t, err)

	_, err = codec.Encode(sessions.Session{AccessToken: "tok"})
	require.ErrorIs(t, err, errors.ErrInvalidSession)
}

func TestSignedCodecRejectsTampering(t *testing.T) {
	codec, err := sessions.NewCodec(testSecret)
	require.NoError(t, err)
	require.True(t, codec.Signed())

	value, err := codec.Encode(sessions.Session{AccessToken: "tok", Platform: sessions.PlatformTwitter})
	require.NoError(t, err)

	parts := strings.Split(value, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = codec.Decode(tampered)
	require.ErrorIs(t, err, errors.ErrInvalidSession)
}

func TestSignedCodecRejectsOtherKeyAndPlainValues(t *testing.T) {
	codec, err := sessions.NewCodec(testSecret)
	require.NoError(t, err)
	other, err := sessions.NewCodec("another-secret")
	require.NoError(t, err)
	plain, err := sessions.NewCodec("")
	require.NoError(t, err)

	s := sessions.Session{AccessToken: "tok", Platform: sessions.PlatformLinkedIn}

	fromOther, err := other.Encode(s)
	require.NoError(t, err)
	_, err = codec.Decode(fromOther)
	require.ErrorIs(t, err, errors.ErrInvalidSession)

	fromPlain, err := plain.Encode(s)
	require.NoError(t, err)
	_, err = codec.Decode(fromPlain)
	require.ErrorIs(t, err, errors.ErrInvalidSession)
}

func TestSignedCodecExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	codec, err := sessions.NewCodec(testSecret,
		sessions.WithMaxAge(time.Hour),
		sessions.WithNowTime(func() time.Time { return clock }),
	)
	require.NoError(t, err)

	value, err := codec.Encode(sessions.Session{AccessToken: "tok", Platform: sessions.PlatformTwitter})
	require.NoError(t, err)

	clock = now.Add(59 * time.Minute)
	_, err = codec.Decode(value)
	require.NoError(t, err)

	clock = now.Add(2 * time.Hour)
	_, err = codec.Decode(value)
	require.ErrorIs(t, err, errors.ErrInvalidSession)
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	noExpiry := sessions.Session{AccessToken: "tok", Platform: sessions.PlatformTwitter}
	require.False(t, noExpiry.Expired(now))

	future := sessions.Session{AccessToken: "tok", Platform: sessions.PlatformLinkedIn, ExpiresAt: expiresAt(now.Add(time.Minute))}
	require.False(t, future.Expired(now))

	past := sessions.Session{AccessToken: "tok", Platform: sessions.PlatformLinkedIn, ExpiresAt: expiresAt(now.Add(-time.Minute))}
	require.True(t, past.Expired(now))

	expiry, ok := future.Expiry()
	require.True(t, ok)
	require.True(t, expiry.Equal(now.Add(time.Minute)))
}
