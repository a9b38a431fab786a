// Package models defines domain entities and persistence interfaces for the wdiw recommendation client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): structs decoded from the remote recommendation service
//   - [Status] : onboarding progress reported by GET /check_user/{id}
//   - [Recommendation] : one recommended title with display metadata and a strategy tag
//   - [Batch] : the ordered result of one GET /status/{id}
//   - [Number] : a numeric field that tolerates OMDb-style string encodings
//
// 2. Local state: the single persisted identity slot
//   - [IdentityStore] : get/set/clear over the one key the client remembers
//
// Records are immutable once decoded; a new fetch replaces the whole [Batch].
package models
