package tasks

// Route names a top-level view.
type Route string

const (
	RouteLanding         Route = "/"
	RouteRecommendations Route = "/recommendations"
)

func (r Route) String() string { return string(r) }

// Navigation is the intent returned by view entry guards.
//
// Message is empty for silent redirects.
type Navigation struct {
	To      Route
	Message string
}

// Redirect reports whether the guard sent the caller back to the landing view.
func (n Navigation) Redirect() bool {
	return n.To == RouteLanding
}

func toLanding() Navigation {
	return Navigation{To: RouteLanding}
}
