// Package words supplies the adjective/noun dictionaries and the
// deterministic tag-picking function used to name migration folders
// (§4.I step 4, §8 scenario 6).
package words

import (
	"crypto/sha256"
	"encoding/binary"
)

// Adjectives and Nouns are the fixed dictionaries tags are drawn from.
// Kept short and lowercase-only so every generated tag satisfies
// ^[0-9]{4}_[a-z]+_[a-z]+$.
var Adjectives = []string{
	"quick", "lazy", "curious", "gentle", "brave", "calm", "eager",
	"fuzzy", "happy", "jolly", "kind", "lively", "mighty", "nimble",
	"plain", "quiet", "rapid", "shiny", "sleepy", "solid", "sturdy",
	"tidy", "vivid", "witty", "zealous", "ancient", "broad", "crisp",
	"daring", "earnest",
}

var Nouns = []string{
	"river", "forest", "mountain", "falcon", "otter", "meadow", "harbor",
	"comet", "lantern", "cedar", "ember", "glacier", "heron", "island",
	"juniper", "kestrel", "lagoon", "marble", "nebula", "orchid",
	"pebble", "quartz", "ridge", "summit", "tundra", "valley", "willow",
	"canyon", "delta", "fjord",
}

// Pick deterministically chooses an adjective and a noun from a hash
// of (timestampSeconds, index) — the same (timestamp, index) pair
// always picks the same pair of words (§4.I step 4: "deterministically
// chosen from fixed dictionaries using a hash of (timestamp, index)").
func Pick(timestampSeconds int64, index int) (adjective, noun string) {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(timestampSeconds))
	binary.BigEndian.PutUint64(buf[8:], uint64(index))
	sum := sha256.Sum256(buf[:])
	a := binary.BigEndian.Uint32(sum[0:4])
	n := binary.BigEndian.Uint32(sum[4:8])
	return Adjectives[int(a)%len(Adjectives)], Nouns[int(n)%len(Nouns)]
}
