package migrate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/drizzle-go/drizzle/migrate/words"
	"github.com/drizzle-go/drizzle/schema/load"
)

// GenerateOptions controls one Generate call.
type GenerateOptions struct {
	// Breakpoints enables the "--> statement-breakpoint" joining rule
	// (§4.H, §4.I).
	Breakpoints bool
	// Custom, when true, skips resolving and diffing the declared tables
	// and writes an empty SQL file the caller is expected to hand-edit;
	// the latest stored snapshot is copied unchanged next to it so the
	// following Generate diffs against it (§4.I step 7).
	Custom bool
	// TimestampSeconds seeds the deterministic tag word-pick (§4.I
	// step 4). Callers must supply it; this package never reads the
	// clock itself.
	TimestampSeconds int64
}

// Generate produces the next migration for dialectName's declared
// tables against j's existing history and writes it to disk (§4.I
// "generate flow").
func Generate(ctx context.Context, j *Journal, dialectName string, tables []*load.Table, opts GenerateOptions) (*JournalEntry, error) {
	idx := j.NextIndex()
	adj, noun := words.Pick(opts.TimestampSeconds, idx)
	tag := tagFor(idx, adj, noun)

	if opts.Custom {
		entry := &JournalEntry{Idx: idx, Tag: tag, Hash: ContentHash(""), CreatedAt: opts.TimestampSeconds}
		prior, err := j.LatestSnapshot(dialectName)
		if err != nil {
			return nil, err
		}
		if err := j.AppendAndWrite(ctx, entry, "", prior); err != nil {
			return nil, err
		}
		return entry, nil
	}

	prior, err := j.LatestSnapshot(dialectName)
	if err != nil {
		return nil, err
	}

	declared, err := Resolve(dialectName, tables)
	if err != nil {
		return nil, err
	}
	if err := declared.Validate(); err != nil {
		return nil, err
	}
	next := FromSchema(declared)

	diff := Compute(prior, next)
	stmts := Emit(dialectName, diff)
	sqlText := Join(stmts, opts.Breakpoints)

	entry := &JournalEntry{
		Idx:       idx,
		Tag:       tag,
		Hash:      ContentHash(sqlText),
		CreatedAt: opts.TimestampSeconds,
	}
	if err := j.AppendAndWrite(ctx, entry, sqlText, next); err != nil {
		return nil, err
	}
	return entry, nil
}

// tagFor renders the "{:04}_{adjective}_{noun}" tag (§4.I step 4, §8
// scenario 6: "^0000_[a-z]+_[a-z]+$").
func tagFor(idx int, adjective, noun string) string {
	return fmt.Sprintf("%04d_%s_%s", idx, adjective, noun)
}

// ContentHash computes the SHA-256 hash of a migration's normalized
// SQL body (§4.I step 5 "Compute hash over the SQL text (SHA-256 over
// the normalised body)").
func ContentHash(sqlText string) string {
	normalized := strings.TrimSpace(sqlText)
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
