package tasks

import (
	"fmt"

	"github.com/desertthunder/wdiw/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase         // Operation phase
	Status  models.Status // Last remote status, when the phase has one
	Step    int           // Number of status queries issued so far
	Message string        // Human-readable message for display
	Data    any           // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	CheckProfile Phase = iota
	CheckSaved
	Polling
	Proceed
	Failed
	FetchRecommendations
	Regenerating
)

func (p Phase) String() string {
	switch p {
	case CheckProfile:
		return "check_profile"
	case CheckSaved:
		return "check_saved"
	case Polling:
		return "polling"
	case Proceed:
		return "proceed"
	case Failed:
		return "failed"
	case FetchRecommendations:
		return "fetch_recommendations"
	case Regenerating:
		return "regenerating"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
		// Channel full, skip this update
	}
}

func checkingProfileUpdate(id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CheckProfile,
		Message: "Checking profile",
		Data:    id,
	}
}

func checkingSavedUpdate(id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CheckSaved,
		Message: "Checking saved profile",
		Data:    id,
	}
}

func pollingUpdate(step int, status models.Status) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Polling,
		Status:  status,
		Step:    step,
		Message: status.Label(),
	}
}

func proceedUpdate(step int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Proceed,
		Status:  models.StatusReady,
		Step:    step,
		Message: "Recommendations ready",
		Data:    RouteRecommendations,
	}
}

func failedUpdate(step int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Failed,
		Step:    step,
		Message: UserMessage(err),
		Data:    err,
	}
}

func fetchingUpdate(id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRecommendations,
		Message: fmt.Sprintf("Fetching recommendations for %s...", id),
	}
}

func regeneratingUpdate(id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Regenerating,
		Message: fmt.Sprintf("Regenerating recommendations for %s...", id),
	}
}
