package tma_test

import (
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apexhub/core/tma"
)

const testBotToken = "110201543:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw"

func validInitData(t *testing.T, authDate time.Time) string {
	t.Helper()

	fields := url.Values{}
	fields.Set("user", `{"id":42,"first_name":"Alice","last_name":"Liddell","username":"alice"}`)
	fields.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	fields.Set("query_id", "AAHdF6IQAAAAANcW")

	return tma.Sign(fields, testBotToken)
}

func TestVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	raw := validInitData(t, time.Now())

	claims, err := tma.Verify(raw, testBotToken)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.TelegramID)
	assert.Equal(t, "Alice", claims.FirstName)
	assert.Equal(t, "Liddell", claims.LastName)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "Alice Liddell", claims.DisplayName())
}

func TestVerify_TamperedField(t *testing.T) {
	t.Parallel()

	raw := validInitData(t, time.Now())

	// Flip a single byte inside the signed user payload.
	tampered := strings.Replace(raw, "Alice", "Alise", 1)
	require.NotEqual(t, raw, tampered)

	_, err := tma.Verify(tampered, testBotToken)
	assert.ErrorIs(t, err, tma.ErrInvalidSignature)
}

func TestVerify_WrongBotToken(t *testing.T) {
	t.Parallel()

	raw := validInitData(t, time.Now())

	_, err := tma.Verify(raw, "999999:other-bot-token")
	assert.ErrorIs(t, err, tma.ErrInvalidSignature)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"empty input", ""},
		{"no hash field", "auth_date=1700000000&user=%7B%22id%22%3A42%7D"},
		{"hash not hex", "auth_date=1700000000&user=%7B%22id%22%3A42%7D&hash=zzzz"},
		{"invalid query encoding", "a=%zz&hash=00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tma.Verify(tt.raw, testBotToken)
			assert.ErrorIs(t, err, tma.ErrMalformedToken)
		})
	}
}

func TestVerify_MissingUser(t *testing.T) {
	t.Parallel()

	fields := url.Values{}
	fields.Set("auth_date", strconv.FormatInt(time.Now().Unix(), 10))
	raw := tma.Sign(fields, testBotToken)

	_, err := tma.Verify(raw, testBotToken)
	assert.ErrorIs(t, err, tma.ErrMalformedToken)
}

func TestVerify_Expiry(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	raw := validInitData(t, issued)

	t.Run("fresh token passes", func(t *testing.T) {
		t.Parallel()

		now := func() time.Time { return issued.Add(30 * time.Minute) }
		_, err := tma.Verify(raw, testBotToken, tma.WithMaxAge(time.Hour), tma.WithNow(now))
		assert.NoError(t, err)
	})

	t.Run("stale token fails", func(t *testing.T) {
		t.Parallel()

		now := func() time.Time { return issued.Add(2 * time.Hour) }
		_, err := tma.Verify(raw, testBotToken, tma.WithMaxAge(time.Hour), tma.WithNow(now))
		assert.ErrorIs(t, err, tma.ErrExpiredToken)
	})

	t.Run("no max age skips check", func(t *testing.T) {
		t.Parallel()

		now := func() time.Time { return issued.Add(1000 * time.Hour) }
		_, err := tma.Verify(raw, testBotToken, tma.WithNow(now))
		assert.NoError(t, err)
	})
}

func TestParse_RemovesHash(t *testing.T) {
	t.Parallel()

	raw := validInitData(t, time.Now())

	fields, err := tma.Parse(raw, testBotToken)
	require.NoError(t, err)

	assert.Empty(t, fields.Get("hash"))
	assert.NotEmpty(t, fields.Get("user"))
	assert.NotEmpty(t, fields.Get("auth_date"))
}
