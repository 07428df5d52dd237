package migrate

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drizzle-go/drizzle/schema/field"
	"github.com/drizzle-go/drizzle/schema/load"
)

func usersTable() *load.Table {
	return &load.Table{
		Name: "users",
		Fields: []load.FieldDecl{
			{Descriptor: field.Int("id").Descriptor()},
			{Descriptor: field.String("name").Descriptor()},
		},
	}
}

func TestGenerateWritesFirstMigrationWithZeroIndexedTag(t *testing.T) {
	dir := t.TempDir()
	j := &Journal{Dir: dir}

	entry, err := Generate(context.Background(), j, "sqlite", []*load.Table{usersTable()}, GenerateOptions{TimestampSeconds: 1700000000})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^0000_[a-z]+_[a-z]+$`), entry.Tag)
	assert.Equal(t, 0, entry.Idx)

	reopened, err := OpenJournal(dir)
	require.NoError(t, err)
	require.Len(t, reopened.Entries, 1)

	body, err := reopened.MigrationSQL(reopened.Entries[0])
	require.NoError(t, err)
	assert.Contains(t, body, `CREATE TABLE "users"`)
}

func TestGenerateSecondRunOnlyEmitsTheDelta(t *testing.T) {
	dir := t.TempDir()
	j := &Journal{Dir: dir}
	ctx := context.Background()

	_, err := Generate(ctx, j, "sqlite", []*load.Table{usersTable()}, GenerateOptions{TimestampSeconds: 1700000000})
	require.NoError(t, err)

	tables := []*load.Table{usersTable(), {
		Name:   "accounts",
		Fields: []load.FieldDecl{{Descriptor: field.Int("id").Descriptor()}},
	}}
	entry, err := Generate(ctx, j, "sqlite", tables, GenerateOptions{TimestampSeconds: 1700000100})
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Idx)

	body, err := j.MigrationSQL(entry)
	require.NoError(t, err)
	assert.Contains(t, body, `CREATE TABLE "accounts"`)
	assert.NotContains(t, body, `CREATE TABLE "users"`)
}

func TestGenerateCustomMigrationWritesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	j := &Journal{Dir: dir}

	entry, err := Generate(context.Background(), j, "sqlite", nil, GenerateOptions{Custom: true, TimestampSeconds: 1700000000})
	require.NoError(t, err)

	body, err := j.MigrationSQL(entry)
	require.NoError(t, err)
	assert.Empty(t, body)
}
