package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eventreg/pkg/domain"
)

func TestCapabilitiesFrom(t *testing.T) {
	t.Run("local grants need a body scope", func(t *testing.T) {
		set := capabilitiesFrom(GlobalScope(), []string{"local:manage:event"})
		assert.False(t, set.HasAny())
	})

	t.Run("unknown actions and malformed strings are skipped", func(t *testing.T) {
		set := capabilitiesFrom(BodyScope(5), []string{"local:view:event", "manage", "local:manage"})
		assert.False(t, set.HasAny())
	})

	t.Run("permissions on foreign objects grant nothing", func(t *testing.T) {
		set := capabilitiesFrom(BodyScope(5), []string{"global:manage:member", "local:approve:body", "global:manage:"})
		assert.False(t, set.HasAny())
		for _, object := range []Object{ObjectEvent, ObjectApplication, ObjectMembersList, ObjectPaxLimits} {
			assert.False(t, set.HasGlobal(ActionManage.On(object)), object)
			assert.False(t, set.HasLocal(5, ActionApprove.On(object)), object)
		}
	})

	t.Run("grants are bound to their object", func(t *testing.T) {
		set := capabilitiesFrom(GlobalScope(), []string{"global:manage:pax_limits"})
		assert.True(t, set.HasGlobal(ActionManage.On(ObjectPaxLimits)))
		assert.False(t, set.HasGlobal(ActionManage.On(ObjectEvent)))
		assert.False(t, set.HasGlobal(ActionManage.On(ObjectApplication)))
	})

	t.Run("global and local grants are separated", func(t *testing.T) {
		set := capabilitiesFrom(BodyScope(5), []string{"global:approve:event", "local:manage:memberslist"})
		assert.True(t, set.HasGlobal(ActionApprove.On(ObjectEvent)))
		assert.False(t, set.HasGlobal(ActionManage.On(ObjectMembersList)))
		assert.True(t, set.HasLocal(5, ActionManage.On(ObjectMembersList)))
	})
}

func TestCapabilitySetMerge(t *testing.T) {
	a := capabilitiesFrom(BodyScope(1), []string{"local:manage:event"})
	b := capabilitiesFrom(BodyScope(2), []string{"local:approve:event", "global:approve:event"})

	merged := a.Merge(b)
	assert.True(t, merged.HasLocal(1, ActionManage.On(ObjectEvent)))
	assert.True(t, merged.HasLocal(2, ActionApprove.On(ObjectEvent)))
	assert.True(t, merged.HasGlobal(ActionApprove.On(ObjectEvent)))
	assert.False(t, a.HasLocal(2, ActionApprove.On(ObjectEvent)), "merge must not mutate its receiver")

	var zero CapabilitySet
	assert.False(t, zero.HasAny())
	assert.False(t, zero.HasLocal(domain.BodyID(1), ActionManage.On(ObjectEvent)))
}
