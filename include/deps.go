// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package include

// DependencyRecord accumulates the ordered, de-duplicated identities
// of every file read while compiling one root file. The root identity
// is always first; transitively included files follow in
// first-encountered order. An identity never appears twice even when
// included repeatedly or through different relative spellings.
type DependencyRecord struct {
	identities []string
	seen       map[string]struct{}
}

// NewDependencyRecord creates a record seeded with the root identity.
func NewDependencyRecord(root string) *DependencyRecord {
	r := &DependencyRecord{seen: make(map[string]struct{})}
	r.Add(root)
	return r
}

// Add appends an identity unless already present. It reports whether
// the identity was new.
func (r *DependencyRecord) Add(identity string) bool {
	if _, ok := r.seen[identity]; ok {
		return false
	}
	r.seen[identity] = struct{}{}
	r.identities = append(r.identities, identity)
	return true
}

// Identities returns the recorded identities in order. The returned
// slice is owned by the record.
func (r *DependencyRecord) Identities() []string { return r.identities }

// Root returns the root identity the record was seeded with.
func (r *DependencyRecord) Root() string {
	if len(r.identities) == 0 {
		return ""
	}
	return r.identities[0]
}

// Len returns the number of recorded identities.
func (r *DependencyRecord) Len() int { return len(r.identities) }
