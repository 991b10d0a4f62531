package dhparser

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/cnf/structhash"
)

// memoKey identifies one packrat cache bucket: a parser equivalence class
// at a specific input location (§4.3).
type memoKey struct {
	eqClass string
	loc     int
}

// memoEntry is the cached outcome of matching a parser at a location,
// including the Error records that were appended to the grammar's error
// list while matching it — replaying those on a cache hit is what makes
// memoization transparent to the error list as well as the tree
// (§8 property 1).
type memoEntry struct {
	node   *Node
	newLoc int
	ok     bool
	errs   []Error
}

// memoCache is the packrat table, keyed by (equivalence class, location).
type memoCache struct {
	table map[memoKey]memoEntry
}

func newMemoCache() *memoCache {
	return &memoCache{table: make(map[memoKey]memoEntry)}
}

func (c *memoCache) get(key memoKey) (memoEntry, bool) {
	e, ok := c.table[key]
	return e, ok
}

func (c *memoCache) set(key memoKey, e memoEntry) {
	c.table[key] = e
}

func (c *memoCache) reset() {
	c.table = make(map[memoKey]memoEntry)
}

// structuralKey computes the memoization equivalence-class key for an
// anonymous (unnamed) parser: two anonymous parsers share a class iff
// their combinator structure is identical (§4.3). Named parsers never
// reach here — they key off their symbol name instead, so two *Named
// values with the same name share a class (see Named.eqKey / base.key set
// in NewNamed).
//
// structhash gives a stable content hash of the describable struct so
// that e.g. two independently constructed T("foo") nodes memoize
// together, matching "structural equality of regex/text/operator".
func structuralKey(tag string, v interface{}) string {
	sum, err := structhash.Hash(v, 1)
	if err != nil {
		// Fall back to a degenerate but still-consistent key rather than
		// failing construction over a hashing edge case (e.g. a struct
		// holding an unexported func field slips past structhash).
		h := md5.Sum([]byte(fmt.Sprintf("%s:%#v", tag, v)))
		return tag + ":" + hex.EncodeToString(h[:])
	}
	return tag + ":" + sum
}
