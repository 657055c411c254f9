package authz

import (
	"github.com/newsportal/internal/constants"
)

// Action is a capability name checked for portal users.
type Action string

const (
	ActionView   Action = constants.CapabilityPostView
	ActionCreate Action = constants.CapabilityPostCreate
	ActionChange Action = constants.CapabilityPostChange
	ActionDelete Action = constants.CapabilityPostDelete
)

// Denial reasons.
const (
	ReasonAnonymous         = "anonymous"
	ReasonMissingCapability = "missing_capability"
	ReasonNotOwner          = "not_owner"
)

// CapabilitySet holds the actions a principal may perform.
type CapabilitySet map[Action]bool

// Principal is the acting user. A zero UserID means anonymous.
// Capabilities are resolved from the role catalog before Decide is called.
type Principal struct {
	UserID       uint
	Roles        []string
	Capabilities CapabilitySet
}

// Anonymous reports whether nobody is signed in.
func (p Principal) Anonymous() bool {
	return p.UserID == 0
}

// Resource is the post being acted upon. AuthorID is nil for new posts
// and for posts whose author was deleted.
type Resource struct {
	AuthorID *uint
}

// Decision is the outcome of Decide.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

var knownActions = map[Action]bool{
	ActionView:   true,
	ActionCreate: true,
	ActionChange: true,
	ActionDelete: true,
}

// IsKnownAction reports whether name is a capability Decide understands.
func IsKnownAction(name string) bool {
	return knownActions[Action(name)]
}

// CapabilitiesFor unions the catalog capabilities of roles. Roles missing
// from catalog grant nothing.
func CapabilitiesFor(roles []string, catalog map[string][]string) CapabilitySet {
	result := make(CapabilitySet)
	for _, role := range roles {
		for _, name := range catalog[role] {
			if IsKnownAction(name) {
				result[Action(name)] = true
			}
		}
	}
	return result
}

// Decide authorizes principal to perform action on resource.
// change and delete additionally require ownership.
func Decide(principal Principal, action Action, resource Resource) Decision {
	if action == ActionView {
		return allow()
	}
	if principal.Anonymous() {
		return deny(ReasonAnonymous)
	}
	if !principal.Capabilities[action] {
		return deny(ReasonMissingCapability)
	}
	switch action {
	case ActionChange, ActionDelete:
		if resource.AuthorID == nil || *resource.AuthorID != principal.UserID {
			return deny(ReasonNotOwner)
		}
	}
	return allow()
}
