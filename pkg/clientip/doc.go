// Package clientip resolves the real client address behind whatever
// proxy chain fronts the API, so rate limit keys and request logs name
// the actual caller rather than the load balancer.
//
// Headers are consulted in priority order: CF-Connecting-IP,
// DO-Connecting-IP, X-Forwarded-For (first valid hop), X-Real-IP, and
// finally the socket's RemoteAddr. Values that do not parse as an IP,
// and the placeholder 0.0.0.0, are skipped.
//
// The middleware package stores the result on the request context;
// handlers read it with clientip.GetIP(r).
package clientip
