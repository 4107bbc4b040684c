package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBuiltins(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, RegisterBuiltinSchemas(reg))

	assert.Equal(t, []AnnotationType{
		ClientAnnotation,
		RequestAnnotation,
		ExpectAnnotation,
		ValueAnnotation,
		HeaderAnnotation,
		BodyAnnotation,
	}, reg.ListTypes())

	for _, verb := range Verbs {
		schema, ok := reg.Lookup(verb)
		require.True(t, ok, verb)
		assert.Equal(t, RequestAnnotation, schema.Type)
		assert.Equal(t, 2, schema.MaxArgs())
	}

	header, ok := reg.Lookup("header")
	require.True(t, ok)
	assert.Equal(t, 2, header.MinArgs())

	_, ok = reg.Lookup("controller")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(BodyAnnotation, BodyAnnotationSchema))

	err := reg.Register(BodyAnnotation, BodyAnnotationSchema)
	assert.ErrorContains(t, err, "already registered")

	err = reg.Register(ExpectAnnotation, BodyAnnotationSchema)
	assert.ErrorContains(t, err, "does not match")
}

func TestRegistryValidatesSchema(t *testing.T) {
	tests := []struct {
		name   string
		schema AnnotationSchema
		errMsg string
	}{
		{
			name:   "no names",
			schema: AnnotationSchema{Type: ClientAnnotation},
			errMsg: "at least one name",
		},
		{
			name: "unnamed argument",
			schema: AnnotationSchema{
				Type:  ClientAnnotation,
				Names: []string{"client"},
				Args:  []ArgSpec{{Kinds: []ArgKind{RefArg}}},
			},
			errMsg: "has no name",
		},
		{
			name: "required after optional",
			schema: AnnotationSchema{
				Type:  ClientAnnotation,
				Names: []string{"client"},
				Args: []ArgSpec{
					{Name: "a", Kinds: []ArgKind{RefArg}},
					{Name: "b", Kinds: []ArgKind{RefArg}, Required: true},
				},
			},
			errMsg: "follows an optional",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry().Register(tt.schema.Type, tt.schema)
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestArgSpecAccepts(t *testing.T) {
	status := ExpectAnnotationSchema.Args[0]
	assert.True(t, status.Accepts(IntArg))
	assert.True(t, status.Accepts(RefArg))
	assert.False(t, status.Accepts(StringArg))
}
