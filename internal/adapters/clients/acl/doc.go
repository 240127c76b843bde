// Package acl is the Anti-Corruption Layer between the quote card and the
// services it calls. Adapters here own the external DTOs and translate them
// into domain types, so quotable.io and Unsplash field names never leave
// this package.
//
// # Components
//
//   - [BaseAdapter]: embeddable GET helper that maps failures to domain errors
//   - [MapHTTPError]: HTTP status and client error to domain error mapping
//   - [ParseErrorResponse]: JSON error body parsing in the formats both APIs use
//   - [DecodeResponse] and [Decode]: generic JSON body decoding
//   - [QuoteClient]: ports.QuoteClient for the quotable.io /random endpoint
//   - [PhotoClient]: ports.PhotoClient for the Unsplash /photos/random endpoint
//
// # Error mapping
//
//   - 404 → [domain.ErrNotFound]
//   - 400/422 and empty required fields → [domain.ErrValidation]
//   - 401/403 → [domain.ErrForbidden]
//   - 429, 5xx, transport errors, undecodable bodies → [domain.ErrUnavailable]
//   - missing or placeholder access key → [domain.ErrNotConfigured], no request made
//
// [clients.ErrCircuitOpen] is reported as [domain.ErrUnavailable] with the
// operation in the reason.
package acl
