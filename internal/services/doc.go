// Package services defines the [Service] interface for the remote recommendation API and implements it over HTTP.
//
// # Raw API
//
// [APIService] performs GET/POST requests against the configured base URL, returning an [APIResponse] with the raw
// body and a best-effort JSON decode. It optionally bounds each request with a timeout and throttles outbound calls
// with a [rate.Limiter].
//
// # Recommendation Service
//
// [WatchService] maps the four service endpoints onto [Service]:
//   - CheckUser : onboarding status of a profile
//   - ProfileExists : Letterboxd existence check run before onboarding
//   - Recommendations : the current [models.Batch]
//   - Regenerate : trigger recomputation
//
// # Error Handling
//
// Transport failures and undecodable bodies wrap [shared.ErrAPIRequest]. Callers map errors to user-facing messages;
// timeouts and network errors are not distinguished.
package services
