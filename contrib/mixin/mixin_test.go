package mixin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drizzle-go/drizzle"
	"github.com/drizzle-go/drizzle/contrib/mixin"
)

func TestIDMixinGeneratesUUIDPrimaryKey(t *testing.T) {
	fields := mixin.ID{}.Fields()
	require.Len(t, fields, 1)
	desc := fields[0].Descriptor()
	assert.Equal(t, "id", desc.Name)
	assert.True(t, desc.Immutable)
	assert.True(t, desc.Unique)
}

func TestTenantIDIsImmutableAndNotEmpty(t *testing.T) {
	fields := mixin.TenantID{}.Fields()
	require.Len(t, fields, 1)
	desc := fields[0].Descriptor()
	assert.Equal(t, "tenant_id", desc.Name)
	assert.True(t, desc.Immutable)
	require.Len(t, desc.Validators, 1)
}

func TestContribMixinsImplementDrizzleMixin(t *testing.T) {
	var _ drizzle.Mixin = mixin.ID{}
	var _ drizzle.Mixin = mixin.TenantID{}
	var _ drizzle.Mixin = mixin.Time{}
}
