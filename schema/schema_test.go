package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersTable() *Table {
	return &Table{
		Name: "users",
		Columns: []*Column{
			{Name: "id", Table: "users", Type: "int8", PrimaryKey: true, AutoIncrement: true},
			{Name: "name", Table: "users", Type: "text"},
		},
	}
}

func TestValidateAcceptsWellFormedSchema(t *testing.T) {
	posts := &Table{
		Name: "posts",
		Columns: []*Column{
			{Name: "id", Table: "posts", Type: "int8", PrimaryKey: true, AutoIncrement: true},
			{Name: "author_id", Table: "posts", Type: "int8", ForeignKey: &ForeignKey{RefTable: "users", RefColumn: "id", OnDelete: Cascade}},
		},
	}
	s := &Schema{Dialect: "sqlite", Tables: []*Table{usersTable(), posts}}
	assert.NoError(t, s.Validate())
}

func TestValidateRejectsNullablePrimaryKey(t *testing.T) {
	tbl := usersTable()
	tbl.Columns[0].Nullable = true
	s := &Schema{Tables: []*Table{tbl}}
	require.Error(t, s.Validate())
}

func TestValidateRejectsSerialWithUserDefault(t *testing.T) {
	tbl := usersTable()
	tbl.Columns[0].Default = &Default{Kind: DefaultLiteral, Literal: 1}
	s := &Schema{Tables: []*Table{tbl}}
	require.Error(t, s.Validate())
}

func TestValidateRejectsForeignKeyToUndeclaredTable(t *testing.T) {
	posts := &Table{
		Name: "posts",
		Columns: []*Column{
			{Name: "id", Table: "posts", Type: "int8", PrimaryKey: true},
			{Name: "author_id", Table: "posts", Type: "int8", ForeignKey: &ForeignKey{RefTable: "users", RefColumn: "id"}},
		},
	}
	s := &Schema{Tables: []*Table{posts}}
	require.Error(t, s.Validate())
}

func TestValidateRejectsForeignKeyTypeMismatch(t *testing.T) {
	posts := &Table{
		Name: "posts",
		Columns: []*Column{
			{Name: "id", Table: "posts", Type: "int8", PrimaryKey: true},
			{Name: "author_id", Table: "posts", Type: "text", ForeignKey: &ForeignKey{RefTable: "users", RefColumn: "id"}},
		},
	}
	s := &Schema{Tables: []*Table{usersTable(), posts}}
	require.Error(t, s.Validate())
}

func TestValidateRejectsDuplicateCompositePrimaryKey(t *testing.T) {
	tbl := &Table{
		Name: "memberships",
		Columns: []*Column{
			{Name: "user_id", Table: "memberships", Type: "int8"},
			{Name: "team_id", Table: "memberships", Type: "int8"},
		},
		PrimaryKey: []string{"user_id", "user_id"},
	}
	s := &Schema{Tables: []*Table{tbl}}
	require.Error(t, s.Validate())
}

func TestSortedOrdersLeavesFirst(t *testing.T) {
	posts := &Table{
		Name: "posts",
		Columns: []*Column{
			{Name: "author_id", Table: "posts", Type: "int8", ForeignKey: &ForeignKey{RefTable: "users", RefColumn: "id"}},
		},
	}
	s := &Schema{Tables: []*Table{posts, usersTable()}}
	sorted := s.Sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, "users", sorted[0].Name)
	assert.Equal(t, "posts", sorted[1].Name)
}

func TestCommentAnnotationMerge(t *testing.T) {
	base := Comment("base")
	override := Comment("override")
	merged := base.Merge(override)
	assert.Equal(t, "override", merged.(CommentAnnotation).Text)
}
