package models

import (
	"fmt"
	"strings"
)

// Collection identifies one of the remote content collections an activity
// resolves against.
type Collection int

const (
	// Ingest holds items arriving from provider feeds, pending promotion.
	Ingest Collection = iota + 1
	// Archive holds items accepted into the permanent editorial store.
	Archive
)

var collectionNames = map[Collection]string{
	Ingest:  "ingest",
	Archive: "archive",
}

// Collections lists every known collection in declaration order.
func Collections() []Collection {
	return []Collection{Ingest, Archive}
}

// ParseCollection maps a collection name onto its enumerated value.
// Unknown names yield a *CollectionNotFoundError.
func ParseCollection(name string) (Collection, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for c, n := range collectionNames {
		if n == normalized {
			return c, nil
		}
	}
	return 0, &CollectionNotFoundError{Name: name}
}

// Valid reports whether c is one of the declared collections.
func (c Collection) Valid() bool {
	_, ok := collectionNames[c]
	return ok
}

func (c Collection) String() string {
	if n, ok := collectionNames[c]; ok {
		return n
	}
	return fmt.Sprintf("collection(%d)", int(c))
}

// MarshalText renders the collection by name so JSON payloads stay readable.
func (c Collection) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, &CollectionNotFoundError{Name: c.String()}
	}
	return []byte(c.String()), nil
}

// UnmarshalText parses a collection name.
func (c *Collection) UnmarshalText(text []byte) error {
	parsed, err := ParseCollection(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
