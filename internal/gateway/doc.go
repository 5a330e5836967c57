// Package gateway is the single HTTP client every backend call goes through.
//
// A Client attaches the bearer credential from a ports.TokenStore, tags each
// logical request with an X-Request-ID, bounds every attempt with a timeout,
// and retries transient failures with linear backoff. Client-correctable
// rejections (400, 401, 403, 422) are never retried, and a 401 clears the
// stored credential.
//
// The retry decision itself is the pure Policy.Decide so it can be tested
// without network I/O.
package gateway
