package mixin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drizzle-go/drizzle"
	"github.com/drizzle-go/drizzle/schema"
	"github.com/drizzle-go/drizzle/schema/field"
	"github.com/drizzle-go/drizzle/schema/mixin"
)

func TestSchemaBaseMixinReturnsNil(t *testing.T) {
	m := mixin.Schema{}
	assert.Nil(t, m.Fields())
	assert.Nil(t, m.Indexes())
	assert.Nil(t, m.Annotations())
}

func TestMixinImplementsInterface(t *testing.T) {
	var _ drizzle.Mixin = mixin.Schema{}
	var _ drizzle.Mixin = &mixin.Schema{}
	var _ drizzle.Mixin = mixin.Time{}
	var _ drizzle.Mixin = mixin.SoftDelete{}
	var _ drizzle.Mixin = mixin.TimeSoftDelete{}
}

func TestTimeMixinFields(t *testing.T) {
	fields := mixin.Time{}.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "created_at", fields[0].Descriptor().Name)
	assert.Equal(t, "updated_at", fields[1].Descriptor().Name)
	assert.True(t, fields[0].Descriptor().Immutable)
	assert.True(t, fields[1].Descriptor().UpdateDefaultSet)
}

func TestSoftDeleteFieldIsOptionalAndNillable(t *testing.T) {
	fields := mixin.SoftDelete{}.Fields()
	require.Len(t, fields, 1)
	desc := fields[0].Descriptor()
	assert.Equal(t, "deleted_at", desc.Name)
	assert.True(t, desc.Optional)
	assert.True(t, desc.Nillable)
}

func TestTimeSoftDeleteCombinesBoth(t *testing.T) {
	fields := mixin.TimeSoftDelete{}.Fields()
	require.Len(t, fields, 3)
}

type testAnnotation string

func (testAnnotation) Name() string { return "testAnnotation" }

type customMixin struct{ mixin.Schema }

func (customMixin) Fields() []drizzle.Field {
	return []drizzle.Field{
		field.String("field1"),
		field.String("field2"),
	}
}

func TestAnnotateFields(t *testing.T) {
	annotated := mixin.AnnotateFields(customMixin{}, testAnnotation("foo"), testAnnotation("bar"))
	fields := annotated.Fields()
	require.Len(t, fields, 2)
	for _, f := range fields {
		require.Len(t, f.Descriptor().Annotations, 2)
	}
}

func TestAnnotateFieldsEmptyAnnotationsIsNoop(t *testing.T) {
	annotated := mixin.AnnotateFields(customMixin{})
	fields := annotated.Fields()
	for _, f := range fields {
		assert.Empty(t, f.Descriptor().Annotations)
	}
}

var _ schema.Annotation = testAnnotation("")
