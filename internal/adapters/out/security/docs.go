// Package security implements the credential ports: HMAC-signed JWTs for
// access, refresh and email-verification tokens, and bcrypt password hashes.
package security
