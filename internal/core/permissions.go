package core

import (
	"maps"
	"strings"

	"eventreg/pkg/domain"
)

// Action is a capability verb granted by the core.
type Action string

const (
	ActionManage  Action = "manage"
	ActionApprove Action = "approve"
)

func parseAction(raw string) (Action, bool) {
	switch Action(raw) {
	case ActionManage, ActionApprove:
		return Action(raw), true
	default:
		return "", false
	}
}

// Object is the kind of resource a permission applies to. Permissions on
// objects this service does not own are ignored.
type Object string

const (
	ObjectEvent       Object = "event"
	ObjectApplication Object = "application"
	ObjectMembersList Object = "memberslist"
	ObjectPaxLimits   Object = "pax_limits"
)

func parseObject(raw string) (Object, bool) {
	switch Object(raw) {
	case ObjectEvent, ObjectApplication, ObjectMembersList, ObjectPaxLimits:
		return Object(raw), true
	default:
		return "", false
	}
}

// Capability is one action on one kind of object.
type Capability struct {
	Action Action
	Object Object
}

// On pairs the action with an object.
func (a Action) On(o Object) Capability {
	return Capability{Action: a, Object: o}
}

func (c Capability) String() string {
	return string(c.Action) + ":" + string(c.Object)
}

// Scope selects which permission listing to ask the core for: the caller's
// global permissions or those that apply within one body.
type Scope struct {
	body   domain.BodyID
	global bool
}

func GlobalScope() Scope { return Scope{global: true} }

func BodyScope(id domain.BodyID) Scope { return Scope{body: id} }

func (s Scope) IsGlobal() bool { return s.global }

func (s Scope) Body() domain.BodyID { return s.body }

func (s Scope) String() string {
	if s.global {
		return "global"
	}
	return "body:" + s.body.String()
}

// CapabilitySet is what the caller may do, globally and per body. The zero
// value grants nothing.
type CapabilitySet struct {
	Global map[Capability]bool
	Local  map[domain.BodyID]map[Capability]bool
}

// HasGlobal reports whether any of caps is granted globally.
func (c CapabilitySet) HasGlobal(caps ...Capability) bool {
	for _, cp := range caps {
		if c.Global[cp] {
			return true
		}
	}
	return false
}

// HasLocal reports whether any of caps is granted within body.
func (c CapabilitySet) HasLocal(body domain.BodyID, caps ...Capability) bool {
	local := c.Local[body]
	for _, cp := range caps {
		if local[cp] {
			return true
		}
	}
	return false
}

// HasAny reports whether the set grants anything at all.
func (c CapabilitySet) HasAny() bool {
	if len(c.Global) > 0 {
		return true
	}
	for _, local := range c.Local {
		if len(local) > 0 {
			return true
		}
	}
	return false
}

// Merge returns the union of c and other.
func (c CapabilitySet) Merge(other CapabilitySet) CapabilitySet {
	out := CapabilitySet{
		Global: maps.Clone(c.Global),
		Local:  make(map[domain.BodyID]map[Capability]bool, len(c.Local)+len(other.Local)),
	}
	if out.Global == nil {
		out.Global = map[Capability]bool{}
	}
	maps.Copy(out.Global, other.Global)
	for _, src := range []map[domain.BodyID]map[Capability]bool{c.Local, other.Local} {
		for body, caps := range src {
			if out.Local[body] == nil {
				out.Local[body] = map[Capability]bool{}
			}
			maps.Copy(out.Local[body], caps)
		}
	}
	return out
}

func (c *CapabilitySet) grantGlobal(cp Capability) {
	if c.Global == nil {
		c.Global = map[Capability]bool{}
	}
	c.Global[cp] = true
}

func (c *CapabilitySet) grantLocal(body domain.BodyID, cp Capability) {
	if c.Local == nil {
		c.Local = map[domain.BodyID]map[Capability]bool{}
	}
	if c.Local[body] == nil {
		c.Local[body] = map[Capability]bool{}
	}
	c.Local[body][cp] = true
}

// capabilitiesFrom folds "scope:action:object" strings into a set. Unknown
// actions or objects are skipped. Local entries only count when the listing
// was requested for a body.
func capabilitiesFrom(scope Scope, combined []string) CapabilitySet {
	var set CapabilitySet
	for _, perm := range combined {
		parts := strings.Split(perm, ":")
		if len(parts) != 3 {
			continue
		}
		action, ok := parseAction(parts[1])
		if !ok {
			continue
		}
		object, ok := parseObject(parts[2])
		if !ok {
			continue
		}
		cp := action.On(object)
		switch parts[0] {
		case "global":
			set.grantGlobal(cp)
		case "local":
			if !scope.IsGlobal() {
				set.grantLocal(scope.Body(), cp)
			}
		}
	}
	return set
}
