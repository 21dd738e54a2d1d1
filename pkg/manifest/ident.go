package manifest

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// identLen is the fixed identifier width: 24 uppercase hex characters,
// the lexical shape the manifest format requires everywhere an object
// is referenced.
const identLen = 24

const maxAllocateAttempts = 64

// Allocator mints identifiers that are unique against the loaded
// document and against every identifier already handed out in the same
// run. Seeding from the document is what makes repeated runs safe: an
// allocator that only tracked its own batch could silently collide
// with identifiers minted by an earlier invocation.
type Allocator struct {
	used    map[string]struct{}
	entropy io.Reader
}

// NewAllocator seeds an allocator with every identifier present in the
// document.
func NewAllocator(doc *Document) *Allocator {
	used := make(map[string]struct{}, len(doc.ids))
	for id := range doc.ids {
		used[id] = struct{}{}
	}
	return &Allocator{used: used, entropy: rand.Reader}
}

// Allocate returns a fresh identifier and records it as used. Returns
// ErrIdentifierExhausted if the bounded number of draws all collide.
func (a *Allocator) Allocate() (string, error) {
	buf := make([]byte, identLen/2)
	for attempt := 0; attempt < maxAllocateAttempts; attempt++ {
		if _, err := io.ReadFull(a.entropy, buf); err != nil {
			return "", fmt.Errorf("reading entropy: %w", err)
		}
		id := strings.ToUpper(hex.EncodeToString(buf))
		if _, taken := a.used[id]; taken {
			continue
		}
		a.used[id] = struct{}{}
		return id, nil
	}
	return "", ErrIdentifierExhausted
}
