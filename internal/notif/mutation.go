package notif

// mutationState tracks one optimistic local change through its two-phase
// lifecycle: applied locally first, then committed when the write succeeds
// or rolled back when it is rejected.
type mutationState int

const (
	mutationPending mutationState = iota
	mutationCommitted
	mutationRolledBack
)

type mutation struct {
	state  mutationState
	revert func()
}

// beginMutation applies the local change immediately and returns the tracker.
func beginMutation(apply, revert func()) *mutation {
	apply()
	return &mutation{
		state:  mutationPending,
		revert: revert,
	}
}

func (m *mutation) commit() {
	if m.state == mutationPending {
		m.state = mutationCommitted
	}
}

// rollback undoes the local change. Only a pending mutation can roll back;
// committed state never reverts.
func (m *mutation) rollback() {
	if m.state == mutationPending {
		m.revert()
		m.state = mutationRolledBack
	}
}
