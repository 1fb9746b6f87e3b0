package workflow

import (
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"
)

// CheckRing reports whether the sub-stages of s form one closed ring:
// following Next from the first sub-stage visits every sub-stage exactly once
// and arrives back at the first. A stage without sub-stages has no ring and
// reports false.
//
// Duplicate sub-stage ids (two grandchildren with the same text) break the
// ring, since the walk cannot tell them apart.
func CheckRing(s Stage) bool {
	n := len(s.SubStages)
	if n == 0 {
		return false
	}

	index := make(map[string]int, n)
	for i, sub := range s.SubStages {
		if _, dup := index[sub.ID]; dup {
			return false
		}
		index[sub.ID] = i
	}

	seen := make([]bool, n)
	cur := 0
	for step := 0; step < n; step++ {
		if seen[cur] {
			return false
		}
		seen[cur] = true

		next, ok := index[s.SubStages[cur].Next]
		if !ok {
			return false
		}
		cur = next
	}
	return cur == 0
}

// shape is the canonical form hashed by [Fingerprint].
type shape struct {
	Stages []Stage `json:"stages"`
}

// Fingerprint returns the blake3 hex digest of the stage list of d.
//
// Only the stages take part, so a definition and a suggestion cloned from it
// share a fingerprint even though their id, name, description and metadata
// differ. Stage order matters.
func Fingerprint(d Definition) (string, error) {
	stages := d.Stages
	if stages == nil {
		stages = []Stage{}
	}

	canonical, err := json.Marshal(shape{Stages: stages})
	if err != nil {
		return "", fmt.Errorf("canonicalize workflow %s: %w", d.ID, err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return "", fmt.Errorf("hash workflow %s: %w", d.ID, err)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
