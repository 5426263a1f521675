// Package tma verifies Telegram Mini App init data and extracts the identity
// of the caller. Every request from the Mini App frontend carries a signed
// initData string; the backend must verify the HMAC signature against the bot
// token before trusting any field in it.
//
// See: https://core.telegram.org/bots/webapps#validating-data-received-via-the-mini-app
//
// # Usage
//
//	claims, err := tma.Verify(rawInitData, botToken, tma.WithMaxAge(24*time.Hour))
//	if err != nil {
//		// treat every verification failure as unauthenticated
//	}
//	fmt.Println(claims.TelegramID, claims.FirstName)
//
// Verification is pure: it performs no I/O and touches the wall clock only
// through an injectable now-func (see WithNow), which keeps the expiry check
// deterministic in tests.
//
// The Sign function is the exact counterpart of Verify and exists for tests
// and local development tooling that need to fabricate valid init data.
package tma
