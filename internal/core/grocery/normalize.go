package grocery

import (
	"regexp"
	"strings"

	"trip-pantry/internal/pkg/common"
)

// numberedPrefix matches a leading numbered-list marker such as "1." or "12)".
var numberedPrefix = regexp.MustCompile(`^[0-9]+[.)]\s*`)

// bulletMarkers are the characters accepted as a leading bullet.
const bulletMarkers = "-–—*•·"

func isDelimiter(r rune) bool {
	return r == '\n' || r == '\r' || r == ',' || r == ';'
}

// NormalizeIngredients flattens raw text blobs (textarea pastes, pre-split
// tokens) into a clean ordered list of ingredient names. Each blob is split on
// runs of newlines, commas and semicolons; every fragment is trimmed and
// stripped of a leading bullet or numbered-list marker. Empty fragments are
// dropped. The function is deterministic and idempotent: normalizing an
// already-normalized list returns it unchanged.
func NormalizeIngredients(rawValues []string) []string {
	out := make([]string, 0, len(rawValues))
	for _, blob := range rawValues {
		for _, fragment := range strings.FieldsFunc(blob, isDelimiter) {
			s := strings.TrimSpace(fragment)
			if s == "" {
				continue
			}
			s = stripBulletMarker(s)
			s = numberedPrefix.ReplaceAllString(s, "")
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			out = append(out, s)
		}
	}
	return out
}

// stripBulletMarker removes one leading bullet character and any whitespace
// that follows it.
func stripBulletMarker(s string) string {
	for _, marker := range bulletMarkers {
		if strings.HasPrefix(s, string(marker)) {
			return strings.TrimLeft(strings.TrimPrefix(s, string(marker)), " \t")
		}
	}
	return s
}

// Canonicalize reduces an item name to its comparison key. Two grocery items
// are the same iff their canonical keys match. Plain case folding only; no
// Unicode normalization or pluralization handling.
func Canonicalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Index is a set of canonical keys representing "already on the list". It is a
// disposable snapshot, recomputed per use rather than maintained incrementally;
// trip grocery lists stay in the tens of items.
type Index map[string]struct{}

// BuildIndex maps each item's canonicalized name into a set.
func BuildIndex(items []common.GroceryItem) Index {
	ix := make(Index, len(items))
	for _, item := range items {
		ix[Canonicalize(item.Name)] = struct{}{}
	}
	return ix
}

// Contains reports whether a candidate name is already on the list.
func (ix Index) Contains(name string) bool {
	_, ok := ix[Canonicalize(name)]
	return ok
}

// Add inserts a candidate name's canonical key.
func (ix Index) Add(name string) {
	ix[Canonicalize(name)] = struct{}{}
}

// Clone returns an independent copy of the index.
func (ix Index) Clone() Index {
	out := make(Index, len(ix))
	for k := range ix {
		out[k] = struct{}{}
	}
	return out
}
