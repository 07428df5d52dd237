package migrate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndWriteThenOpenJournalRoundTrips(t *testing.T) {
	dir := t.TempDir()
	j := &Journal{Dir: dir}

	snap := empty("sqlite")
	entry := &JournalEntry{Idx: 0, Tag: "0000_quick_river", Hash: ContentHash("CREATE TABLE x;")}
	require.NoError(t, j.AppendAndWrite(context.Background(), entry, "CREATE TABLE x;", snap))

	reopened, err := OpenJournal(dir)
	require.NoError(t, err)
	require.Len(t, reopened.Entries, 1)
	assert.Equal(t, entry.Tag, reopened.Entries[0].Tag)
	assert.Equal(t, entry.Hash, reopened.Entries[0].Hash)
	assert.Equal(t, 1, reopened.NextIndex())

	body, err := reopened.MigrationSQL(reopened.Entries[0])
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE x;", body)
}

func TestOpenJournalOnEmptyDirIsEmptyJournal(t *testing.T) {
	dir := t.TempDir()
	j, err := OpenJournal(dir)
	require.NoError(t, err)
	assert.Empty(t, j.Entries)
	assert.Equal(t, 0, j.NextIndex())
}

func TestOpenJournalRefusesLegacyEntryWithoutSnapshot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0000_init.sql"), []byte("CREATE TABLE x;"), 0o644))

	_, err := OpenJournal(dir)
	require.Error(t, err)
}

func TestOpenJournalUpgradesLegacyFolderLayoutWithSnapshot(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, "0000_init")
	require.NoError(t, os.MkdirAll(folder, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "migration.sql"), []byte("CREATE TABLE x;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "snapshot.json"), []byte(`{"version":"3","dialect":"sqlite"}`), 0o644))

	j, err := OpenJournal(dir)
	require.NoError(t, err)
	require.Len(t, j.Entries, 1)
	assert.Equal(t, "0000_init", j.Entries[0].Tag)
}
