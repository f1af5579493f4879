package domain

import "time"

// Agent is a human support representative with a capability tag set
// and a live workload counter.
type Agent struct {
	ID          string
	Name        string
	Tags        []string
	Online      bool
	CurrentLoad int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanHandle reports whether the agent's capability set intersects the
// given ticket tags. An agent with zero matching tags is never auto-selected.
func (a *Agent) CanHandle(tags []string) bool {
	for _, want := range tags {
		for _, have := range a.Tags {
			if want == have {
				return true
			}
		}
	}
	return false
}
