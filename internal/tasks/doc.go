// Package tasks drives the onboarding and recommendation flows with real-time progress reporting.
//
// # Core Operations
//
//  1. [Onboarding.Submit] : Validate and save a new profile
//     - Extracts the identifier from a profile URL or takes the trimmed input
//     - Asks the service whether the profile exists
//     - Saves the identifier and starts a [PollSession]
//
//  2. [Onboarding.Resume] : Continue with the saved profile
//     - Checks the saved profile's status once
//     - Continues polling from the reported status
//
//  3. [Recommendations.Enter] : Guard and load the results view
//     - Redirects to the landing view without a saved, ready profile
//     - Fetches the current batch
//
//  4. [Recommendations.Regenerate] : Recompute and refetch
//     - One recompute per identifier at a time, concurrent callers join it
//
// # Polling
//
// A [PollSession] checks status at a fixed interval with no retry limit until the profile
// is ready, an unknown status or request failure ends it, or [PollSession.Cancel] is called.
// Checks never overlap. The outcome is read from [PollSession.Wait].
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct carries the phase, last remote status, query count and a
// display message. Updates use select with default to prevent blocking.
//
// # Sections
//
// [BuildSections] partitions a batch by recommendation type and sorts each partition with
// [Sort]. Records with unknown types are dropped.
package tasks
