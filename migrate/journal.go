package migrate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/drizzle-go/drizzle"
)

// Journal is the ordered ledger of migration folders under a drizzle
// project directory (§4.I "Folder layout (v3)").
type Journal struct {
	Dir     string
	Entries []*JournalEntry
}

// JournalEntry is one row of meta/_journal.json.
type JournalEntry struct {
	Idx       int    `json:"idx"`
	Tag       string `json:"tag"`
	Hash      string `json:"hash"`
	CreatedAt int64  `json:"when"`
}

const journalFileName = "_journal.json"
const metaDirName = "meta"

// OpenJournal reads dir's journal, upgrading a legacy flat layout
// in-memory when it encounters one. A legacy entry with no co-located
// snapshot.json makes OpenJournal refuse outright instead of guessing
// at a schema it cannot reconstruct (§9 Open Question "Snapshot
// versioning beyond v3", decision recorded in DESIGN.md).
func OpenJournal(dir string) (*Journal, error) {
	metaPath := filepath.Join(dir, metaDirName, journalFileName)
	if _, err := os.Stat(metaPath); err == nil {
		return readV3Journal(dir, metaPath)
	}
	return upgradeLegacyJournal(dir)
}

func readV3Journal(dir, metaPath string) (*Journal, error) {
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, drizzle.NewMigrationError("", "read journal", err)
	}
	var raw struct {
		Entries []*JournalEntry `json:"entries"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, drizzle.NewMigrationError("", "corrupt journal", err)
	}
	sort.Slice(raw.Entries, func(i, j int) bool { return raw.Entries[i].Idx < raw.Entries[j].Idx })
	return &Journal{Dir: dir, Entries: raw.Entries}, nil
}

// upgradeLegacyJournal handles the pre-v3 flat layout: either a bare
// "<tag>.sql" file per migration, or a "<tag>/migration.sql" folder
// without a meta/_journal.json index. Every legacy entry must carry a
// co-located snapshot.json; one that doesn't is refused rather than
// replayed blind (it would need to be re-derived by diffing raw SQL
// text, which is not a snapshot diff and is explicitly out of scope).
func upgradeLegacyJournal(dir string) (*Journal, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return &Journal{Dir: dir}, nil
		}
		return nil, drizzle.NewMigrationError("", "read migration directory", err)
	}

	var tags []string
	for _, e := range entries {
		if e.Name() == metaDirName {
			continue
		}
		name := e.Name()
		if !e.IsDir() && strings.HasSuffix(name, ".sql") {
			tags = append(tags, strings.TrimSuffix(name, ".sql"))
			continue
		}
		if e.IsDir() {
			if _, err := os.Stat(filepath.Join(dir, name, "migration.sql")); err == nil {
				tags = append(tags, name)
			}
		}
	}
	sort.Strings(tags)

	j := &Journal{Dir: dir}
	for i, tag := range tags {
		snapPath := filepath.Join(dir, tag, "snapshot.json")
		if _, err := os.Stat(snapPath); err != nil {
			return nil, drizzle.NewMigrationError(tag, "legacy migration has no co-located snapshot.json; refusing to upgrade", err)
		}
		sqlPath := legacySQLPath(dir, tag)
		body, err := os.ReadFile(sqlPath)
		if err != nil {
			return nil, drizzle.NewMigrationError(tag, "read legacy migration SQL", err)
		}
		j.Entries = append(j.Entries, &JournalEntry{
			Idx:  i,
			Tag:  tag,
			Hash: ContentHash(string(body)),
		})
	}
	return j, nil
}

func legacySQLPath(dir, tag string) string {
	flat := filepath.Join(dir, tag+".sql")
	if _, err := os.Stat(flat); err == nil {
		return flat
	}
	return filepath.Join(dir, tag, "migration.sql")
}

// NextIndex returns the index the next generated migration should use.
func (j *Journal) NextIndex() int {
	if len(j.Entries) == 0 {
		return 0
	}
	return j.Entries[len(j.Entries)-1].Idx + 1
}

// LatestSnapshot loads the snapshot.json of the journal's last entry,
// or an empty dialect-tagged snapshot when the journal has no entries
// yet (§4.I generate step 1 "Load the latest snapshot ... or empty
// schema").
func (j *Journal) LatestSnapshot(dialectName string) (*Snapshot, error) {
	if len(j.Entries) == 0 {
		return empty(dialectName), nil
	}
	last := j.Entries[len(j.Entries)-1]
	path := filepath.Join(j.Dir, folderName(last), "snapshot.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, drizzle.NewMigrationError(last.Tag, "read snapshot", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, drizzle.NewMigrationError(last.Tag, "corrupt snapshot", err)
	}
	return &snap, nil
}

func folderName(e *JournalEntry) string {
	return fmt.Sprintf("%04d_%s", e.Idx, entrySuffix(e.Tag))
}

// entrySuffix strips the leading NNNN_ index prefix from a tag so
// folderName never double-prefixes an already-complete tag.
func entrySuffix(tag string) string {
	parts := strings.SplitN(tag, "_", 2)
	if len(parts) == 2 {
		if _, err := strconv.Atoi(parts[0]); err == nil {
			return parts[1]
		}
	}
	return tag
}

// AppendAndWrite writes migration.sql and snapshot.json for entry
// under dir/<NNNN_tag>/, then appends entry to the journal and
// rewrites meta/_journal.json. The two file writes happen concurrently
// (grounded on compiler/gen/writer.go's errgroup-based fan-out).
func (j *Journal) AppendAndWrite(ctx context.Context, entry *JournalEntry, sql string, snap *Snapshot) error {
	folder := filepath.Join(j.Dir, folderName(entry))
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return drizzle.NewMigrationError(entry.Tag, "create migration folder", err)
	}

	snapBytes, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return drizzle.NewMigrationError(entry.Tag, "marshal snapshot", err)
	}

	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return os.WriteFile(filepath.Join(folder, "migration.sql"), []byte(sql), 0o644)
	})
	eg.Go(func() error {
		return os.WriteFile(filepath.Join(folder, "snapshot.json"), snapBytes, 0o644)
	})
	if err := eg.Wait(); err != nil {
		return drizzle.NewMigrationError(entry.Tag, "write migration files", err)
	}

	j.Entries = append(j.Entries, entry)
	return j.writeMeta()
}

func (j *Journal) writeMeta() error {
	metaDir := filepath.Join(j.Dir, metaDirName)
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return drizzle.NewMigrationError("", "create meta directory", err)
	}
	data, err := json.MarshalIndent(struct {
		Entries []*JournalEntry `json:"entries"`
	}{j.Entries}, "", "  ")
	if err != nil {
		return drizzle.NewMigrationError("", "marshal journal", err)
	}
	return os.WriteFile(filepath.Join(metaDir, journalFileName), data, 0o644)
}

// MigrationSQL reads the migration.sql body for entry.
func (j *Journal) MigrationSQL(entry *JournalEntry) (string, error) {
	path := filepath.Join(j.Dir, folderName(entry), "migration.sql")
	if _, err := os.Stat(path); err != nil {
		// legacy flat layout
		flat := filepath.Join(j.Dir, entry.Tag+".sql")
		if data, ferr := os.ReadFile(flat); ferr == nil {
			return string(data), nil
		}
		return "", drizzle.NewMigrationError(entry.Tag, "missing migration file", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", drizzle.NewMigrationError(entry.Tag, "read migration file", err)
	}
	return string(data), nil
}
