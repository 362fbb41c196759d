package models

// SystemActorID identifies calls made by the process itself, e.g. the payment webhook
const SystemActorID int64 = 0

// Actor is the already-authenticated caller of a ledger operation
type Actor struct {
	ID          int64
	IsModerator bool
	IsSystem    bool
}

// SystemActor returns the actor used for payment gateway callbacks
func SystemActor() Actor {
	return Actor{ID: SystemActorID, IsSystem: true}
}

// HasModeratorAuthority reports whether the actor may act on supervised wagers
func (a Actor) HasModeratorAuthority() bool {
	return a.IsModerator || a.IsSystem
}
