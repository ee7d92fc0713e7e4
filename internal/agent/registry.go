package agent

import "sort"

// Platform describes one publishing destination. An empty AgentID marks the
// platform as unsupported for publishing; callers must check CanPublish before
// attempting a publish invocation.
type Platform struct {
	AgentID string
	Label   string
}

// Registry maps platform names to their publisher agents.
type Registry struct {
	platforms map[string]Platform
}

// NewRegistry builds a registry from a platform map.
func NewRegistry(platforms map[string]Platform) *Registry {
	copied := make(map[string]Platform, len(platforms))
	for name, p := range platforms {
		copied[name] = p
	}
	return &Registry{platforms: copied}
}

// Lookup returns the platform entry for name.
func (r *Registry) Lookup(name string) (Platform, bool) {
	p, ok := r.platforms[name]
	return p, ok
}

// CanPublish reports whether the named platform has a configured publisher
// agent.
func (r *Registry) CanPublish(name string) bool {
	p, ok := r.platforms[name]
	return ok && p.AgentID != ""
}

// Names returns all registered platform names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.platforms))
	for name := range r.platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Publishable returns the names of platforms with a configured publisher
// agent, sorted.
func (r *Registry) Publishable() []string {
	names := make([]string, 0, len(r.platforms))
	for name, p := range r.platforms {
		if p.AgentID != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// RosterEntry describes one agent for status display and probing.
type RosterEntry struct {
	ID      string
	Name    string
	Purpose string
}

// Roster lists all agents the application can invoke: the generation agents
// plus one publisher per supported platform.
func Roster(topicResearchID, adCopyID string, registry *Registry) []RosterEntry {
	roster := []RosterEntry{
		{ID: topicResearchID, Name: "Topic Research", Purpose: "Discovers trending topics"},
		{ID: adCopyID, Name: "Ad Copy Generator", Purpose: "Creates SEO-optimized copy"},
	}
	for _, name := range registry.Publishable() {
		p, _ := registry.Lookup(name)
		roster = append(roster, RosterEntry{
			ID:      p.AgentID,
			Name:    name + " Publisher",
			Purpose: "Posts to " + p.Label,
		})
	}
	return roster
}
