package store

import (
	"sort"
	"sync"

	"github.com/arkavidia/competition-gateway/internal/domain"
)

// State is the whole content of a Competitions store.
type State struct {
	Competitions map[string]domain.Competition `json:"competitions"`
	Teams        map[int64]domain.Team         `json:"teams"`
}

func newState() State {
	return State{
		Competitions: make(map[string]domain.Competition),
		Teams:        make(map[int64]domain.Team),
	}
}

func (s State) clone() State {
	out := State{
		Competitions: make(map[string]domain.Competition, len(s.Competitions)),
		Teams:        make(map[int64]domain.Team, len(s.Teams)),
	}
	for slug, c := range s.Competitions {
		out.Competitions[slug] = c
	}
	for id, t := range s.Teams {
		out.Teams[id] = t.Clone()
	}
	return out
}

// Competitions caches competitions keyed by slug and teams keyed by id.
type Competitions struct {
	mu        sync.RWMutex
	state     State
	listeners listeners
}

// NewCompetitions creates an empty store.
func NewCompetitions() *Competitions {
	return &Competitions{state: newState()}
}

// Subscribe registers fn for every applied mutation and returns a function
// that removes it.
func (s *Competitions) Subscribe(fn Listener) func() {
	return s.listeners.add(fn)
}

// apply runs mutate under the write lock and notifies listeners if it
// reports a change.
func (s *Competitions) apply(m Mutation, mutate func(*State) bool) {
	s.mu.Lock()
	changed := mutate(&s.state)
	s.mu.Unlock()

	if changed {
		s.listeners.notify(m)
	}
}

// SetCompetitions replaces all competitions.
func (s *Competitions) SetCompetitions(competitions []domain.Competition) {
	s.apply(MutationSetCompetitions, func(st *State) bool {
		st.Competitions = make(map[string]domain.Competition, len(competitions))
		for _, c := range competitions {
			st.Competitions[c.Slug] = c
		}
		return true
	})
}

// SetTeams replaces all teams.
func (s *Competitions) SetTeams(teams []domain.Team) {
	s.apply(MutationSetTeams, func(st *State) bool {
		st.Teams = make(map[int64]domain.Team, len(teams))
		for _, t := range teams {
			st.Teams[t.ID] = t.Clone()
		}
		return true
	})
}

// SetTeam inserts team or merges it into the cached team with the same id.
// Fields present on team override cached values; absent fields are kept.
func (s *Competitions) SetTeam(team domain.Team) {
	s.apply(MutationSetTeam, func(st *State) bool {
		if cached, ok := st.Teams[team.ID]; ok {
			st.Teams[team.ID] = cached.Merge(team)
		} else {
			st.Teams[team.ID] = team.Clone()
		}
		return true
	})
}

// DeleteTeam removes a team. Unknown ids are ignored.
func (s *Competitions) DeleteTeam(teamID int64) {
	s.apply(MutationDeleteTeam, func(st *State) bool {
		if _, ok := st.Teams[teamID]; !ok {
			return false
		}
		delete(st.Teams, teamID)
		return true
	})
}

// AddMember appends member to a team's member list. Nothing happens if the
// team is unknown or its member list has not been loaded.
func (s *Competitions) AddMember(teamID int64, member domain.Member) {
	s.apply(MutationAddMember, func(st *State) bool {
		team, ok := st.Teams[teamID]
		if !ok || team.TeamMembers == nil {
			return false
		}
		team.TeamMembers = append(team.TeamMembers, member)
		st.Teams[teamID] = team
		return true
	})
}

// RemoveMember removes the first member of a team with the given id.
func (s *Competitions) RemoveMember(teamID, memberID int64) {
	s.apply(MutationRemoveMember, func(st *State) bool {
		team, ok := st.Teams[teamID]
		if !ok {
			return false
		}
		for i, m := range team.TeamMembers {
			if m.ID != memberID {
				continue
			}
			members := make([]domain.Member, 0, len(team.TeamMembers)-1)
			members = append(members, team.TeamMembers[:i]...)
			members = append(members, team.TeamMembers[i+1:]...)
			team.TeamMembers = members
			st.Teams[teamID] = team
			return true
		}
		return false
	})
}

// Snapshot returns a copy of the whole state.
func (s *Competitions) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Restore replaces the whole state with a copy of state.
func (s *Competitions) Restore(state State) {
	s.apply(MutationRestore, func(st *State) bool {
		*st = state.clone()
		return true
	})
}

// Competitions returns all competitions ordered by slug.
func (s *Competitions) Competitions() []domain.Competition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Competition, 0, len(s.state.Competitions))
	for _, c := range s.state.Competitions {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// CompetitionsBySlug returns competitions keyed by slug.
func (s *Competitions) CompetitionsBySlug() map[string]domain.Competition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.Competition, len(s.state.Competitions))
	for slug, c := range s.state.Competitions {
		out[slug] = c
	}
	return out
}

// Teams returns all teams ordered by id.
func (s *Competitions) Teams() []domain.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedTeams()
}

// TeamsByID returns teams keyed by id.
func (s *Competitions) TeamsByID() map[int64]domain.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64]domain.Team, len(s.state.Teams))
	for id, t := range s.state.Teams {
		out[id] = t.Clone()
	}
	return out
}

// TeamsBySlug returns teams keyed by their competition's slug. When several
// teams share a competition, the one with the highest id is kept. Teams
// without a competition are left out.
func (s *Competitions) TeamsBySlug() map[string]domain.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.Team)
	for _, t := range s.sortedTeams() {
		if slug, ok := t.CompetitionSlug(); ok {
			out[slug] = t
		}
	}
	return out
}

// sortedTeams must be called with mu held.
func (s *Competitions) sortedTeams() []domain.Team {
	out := make([]domain.Team, 0, len(s.state.Teams))
	for _, t := range s.state.Teams {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
