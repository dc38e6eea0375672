// Package store holds the in-memory entity caches. Stores are plain mutable
// containers: writes never fail, reads return copies, and observers are
// attached with Subscribe.
package store

import (
	"sort"
	"sync"
)

// Mutation names a write that was applied to a store.
type Mutation string

const (
	MutationSetCompetitions Mutation = "setCompetitions"
	MutationSetTeams        Mutation = "setTeams"
	MutationSetTeam         Mutation = "setTeam"
	MutationDeleteTeam      Mutation = "deleteTeam"
	MutationAddMember       Mutation = "addMember"
	MutationRemoveMember    Mutation = "removeMember"
	MutationRestore         Mutation = "restore"
	MutationSetSession      Mutation = "setSession"
	MutationSetUser         Mutation = "setUser"
	MutationClearSession    Mutation = "clearSession"
)

// Listener is called once for every applied mutation.
type Listener func(Mutation)

// listeners is a set of subscribers. It is safe for concurrent use and is
// never called with a store lock held.
type listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]Listener
}

func (l *listeners) add(fn Listener) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]Listener)
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.fns, id)
		})
	}
}

// notify calls listeners in subscription order.
func (l *listeners) notify(m Mutation) {
	l.mu.Lock()
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]Listener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(m)
	}
}
