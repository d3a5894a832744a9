// Package flow decides where the learner goes next and performs the
// backend work each step needs, falling back to sample data on failure.
package flow

import "strings"

// Route is a client-visible location.
type Route string

const (
	RouteLanding    Route = "/"
	RouteOnboarding Route = "/onboarding"
	RouteWarmup     Route = "/warmup"
	RouteResults    Route = "/results"
	RouteExercises  Route = "/exercises"
	RouteNotFound   Route = "*"
)

// Routes lists the navigable routes.
var Routes = []Route{RouteLanding, RouteOnboarding, RouteWarmup, RouteResults, RouteExercises}

// ParseRoute maps a path onto a Route. Unknown paths map to RouteNotFound.
func ParseRoute(path string) Route {
	p := strings.TrimSpace(path)
	if p == "" {
		return RouteLanding
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	for _, r := range Routes {
		if string(r) == p {
			return r
		}
	}
	return RouteNotFound
}

func (r Route) String() string { return string(r) }
