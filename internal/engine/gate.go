package engine

import "sync"

// gate holds the engine's administrative state: owner, pause flag,
// treasury sink and the capability set. Mutations only happen through the
// owner-only operations, which already hold the engine's entry guard; the
// RWMutex here exists so the unguarded views can read safely.
type gate struct {
	mu       sync.RWMutex
	owner    string
	paused   bool
	treasury string
	caps     map[Role]map[string]struct{}
}

func newGate(owner string) *gate {
	return &gate{
		owner: owner,
		caps:  make(map[Role]map[string]struct{}),
	}
}

func (g *gate) requireOwner(caller string) error {
	if caller == "" || caller != g.owner {
		return ErrNotOwner
	}

	return nil
}

func (g *gate) isPaused() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.paused
}

func (g *gate) setPaused(v bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.paused = v
}

func (g *gate) treasurySink() string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.treasury
}

func (g *gate) setTreasury(sink string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.treasury = sink
}

func (g *gate) hasCapability(identity string, role Role) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.caps[role][identity]

	return ok
}

// requireActor admits the identity itself, or a caller holding the
// game-manager capability acting on its behalf.
func (g *gate) requireActor(caller, identity string) error {
	if caller == identity {
		return nil
	}

	if g.hasCapability(caller, RoleGameManager) {
		return nil
	}

	return ErrNotAuthorized
}

func (g *gate) grant(role Role, identity string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	set, ok := g.caps[role]
	if !ok {
		set = make(map[string]struct{})
		g.caps[role] = set
	}

	set[identity] = struct{}{}
}

func (g *gate) revoke(role Role, identity string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.caps[role], identity)
}
