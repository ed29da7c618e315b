package archive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestEntry overrides the classifier's default id/compression choice
// for one source file, the declarative escape hatch holo-build's package
// spec format offers for metadata that can't be expressed by filename
// alone.
type ManifestEntry struct {
	// File is the source filename the override applies to, matched
	// case-sensitively against the directory entry's base name.
	File string `toml:"file"`
	// ID, if set, is a hex string overriding the filename-derived id.
	ID string `toml:"id"`
	// Compress, if non-nil, forces ("true") or forbids ("false")
	// deflating an entry that would otherwise be stored per the kind
	// table in spec §4.7 (only meaningful for the "other" kind, since
	// png/grp/zgrp/mlt/txt's compression is fixed by their kind).
	Compress *bool `toml:"compress"`
}

// Manifest is an optional TOML build manifest: a list of per-file
// overrides consulted by Builder before falling back to the classifier's
// defaults.
type Manifest struct {
	Entry []ManifestEntry `toml:"entry"`
}

// LoadManifest parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("archive: parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// lookup returns the override entry for name, if any.
func (m *Manifest) lookup(name string) (ManifestEntry, bool) {
	if m == nil {
		return ManifestEntry{}, false
	}
	for _, e := range m.Entry {
		if e.File == name {
			return e, true
		}
	}
	return ManifestEntry{}, false
}

// resolveID parses e.ID as hex, if set.
func (e ManifestEntry) resolveID() (uint32, bool, error) {
	if strings.TrimSpace(e.ID) == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(e.ID, "0x"), 16, 32)
	if err != nil {
		return 0, false, fmt.Errorf("archive: manifest entry %q: invalid id %q: %w", e.File, e.ID, err)
	}
	return uint32(v), true, nil
}
