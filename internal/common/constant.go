// Package common contains shared constants and sentinel errors used across
// the notes client and the document server.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the bearer
// token on document store requests.
const AccessTokenHeaderName = "access_token"
