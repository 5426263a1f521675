// Package api is the HTTP surface of the platform: workspace management,
// prospect CRM, reports, invite QR codes, and operational endpoints.
//
// All /v1 routes except health expect Telegram Mini App credentials
// installed by the auth middleware. Authorization flows through the cached
// authorizer; handlers that mutate memberships invalidate the affected
// cache entries before responding, so the next read observes the change.
package api
