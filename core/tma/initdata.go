package tma

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// signingDomain is the fixed key Telegram prescribes for deriving the
// per-bot signing key from the bot token.
const signingDomain = "WebAppData"

// Claims is the verified identity payload carried in the "user" field.
type Claims struct {
	TelegramID int64  `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name,omitempty"`
	Username   string `json:"username,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty"`
	Language   string `json:"language_code,omitempty"`
	IsPremium  bool   `json:"is_premium,omitempty"`
}

// DisplayName returns the user-facing name composed from first and last name.
func (c Claims) DisplayName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

type options struct {
	maxAge time.Duration
	now    func() time.Time
}

// Option configures Verify and Parse.
type Option func(*options)

// WithMaxAge enables the expiry check: init data whose auth_date is older
// than maxAge fails with ErrExpiredToken. Zero disables the check.
func WithMaxAge(maxAge time.Duration) Option {
	return func(o *options) {
		o.maxAge = maxAge
	}
}

// WithNow injects the time source used for the expiry check.
// Defaults to time.Now.
func WithNow(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Parse verifies the signature (and, when configured, the age) of raw init
// data and returns the decoded field map with the hash field removed.
func Parse(raw, botToken string, opts ...Option) (url.Values, error) {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	if raw == "" {
		return nil, errors.Join(ErrMalformedToken, errors.New("empty init data"))
	}

	fields, err := url.ParseQuery(raw)
	if err != nil {
		return nil, errors.Join(ErrMalformedToken, err)
	}

	received := fields.Get("hash")
	if received == "" {
		return nil, errors.Join(ErrMalformedToken, errors.New("missing hash field"))
	}
	fields.Del("hash")

	receivedMAC, err := hex.DecodeString(received)
	if err != nil {
		return nil, errors.Join(ErrMalformedToken, errors.New("hash field is not hex"))
	}

	// hmac.Equal is constant-time; never compare digests with ==.
	if !hmac.Equal(computeMAC(fields, botToken), receivedMAC) {
		return nil, ErrInvalidSignature
	}

	if o.maxAge > 0 {
		rawDate := fields.Get("auth_date")
		if rawDate == "" {
			return nil, errors.Join(ErrMalformedToken, errors.New("missing auth_date field"))
		}
		authDate, err := strconv.ParseInt(rawDate, 10, 64)
		if err != nil {
			return nil, errors.Join(ErrMalformedToken, errors.New("invalid auth_date field"))
		}
		if o.now().Sub(time.Unix(authDate, 0)) > o.maxAge {
			return nil, ErrExpiredToken
		}
	}

	return fields, nil
}

// Verify parses and verifies raw init data and decodes the "user" field into
// Claims. It fails with ErrMalformedToken when the user field is absent or
// not valid JSON.
func Verify(raw, botToken string, opts ...Option) (Claims, error) {
	fields, err := Parse(raw, botToken, opts...)
	if err != nil {
		return Claims{}, err
	}

	userJSON := fields.Get("user")
	if userJSON == "" {
		return Claims{}, errors.Join(ErrMalformedToken, errors.New("missing user field"))
	}

	var claims Claims
	if err := json.Unmarshal([]byte(userJSON), &claims); err != nil {
		return Claims{}, errors.Join(ErrMalformedToken, err)
	}
	if claims.TelegramID == 0 {
		return Claims{}, errors.Join(ErrMalformedToken, errors.New("user field has no id"))
	}

	return claims, nil
}

// Sign produces a complete init data string (including the hash field) over
// the given fields. Counterpart of Verify; intended for tests and dev tools.
func Sign(fields url.Values, botToken string) string {
	mac := computeMAC(fields, botToken)

	signed := url.Values{}
	for k, vs := range fields {
		for _, v := range vs {
			signed.Add(k, v)
		}
	}
	signed.Set("hash", hex.EncodeToString(mac))
	return signed.Encode()
}

// computeMAC builds the data-check-string (fields sorted by key, joined as
// key=value with newline separators, hash excluded) and returns
// HMAC-SHA256(HMAC-SHA256(signingDomain, botToken), data-check-string).
func computeMAC(fields url.Values, botToken string) []byte {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields.Get(k))
	}
	checkString := strings.Join(pairs, "\n")

	keyMAC := hmac.New(sha256.New, []byte(signingDomain))
	keyMAC.Write([]byte(botToken))
	secret := keyMAC.Sum(nil)

	sigMAC := hmac.New(sha256.New, secret)
	sigMAC.Write([]byte(checkString))
	return sigMAC.Sum(nil)
}
