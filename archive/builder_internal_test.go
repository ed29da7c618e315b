package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestClassifyDirKeepsLaterMtimeOnIDCollision pins spec §8 invariant 7: two
// source files that classify to the same id are resolved by keeping the
// strictly-later-mtime one, not by directory order.
func TestClassifyDirKeepsLaterMtimeOnIDCollision(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "00000001.dat")
	newer := filepath.Join(dir, "1.dat")
	require.NoError(t, os.WriteFile(older, []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("new"), 0o644))

	now := time.Now()
	require.NoError(t, os.Chtimes(older, now, now.Add(-time.Hour)))
	require.NoError(t, os.Chtimes(newer, now, now))

	b := NewBuilder()
	classified, err := b.classifyDir(dir, BuildOptions{})
	require.NoError(t, err)

	require.Len(t, classified, 1)
	sf, ok := classified[1]
	require.True(t, ok)
	require.Equal(t, newer, sf.path)
}

// TestClassifyDirKeepsFirstWhenMtimesTie: equal mtimes keep whichever
// directory entry classifyDir visits first, since the rule is strictly
// "later mtime wins" — a tie never displaces the existing candidate.
func TestClassifyDirKeepsFirstWhenMtimesTie(t *testing.T) {
	dir := t.TempDir()

	a := filepath.Join(dir, "00000001.dat")
	bFile := filepath.Join(dir, "1.dat")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(bFile, []byte("b"), 0o644))

	tie := time.Now()
	require.NoError(t, os.Chtimes(a, tie, tie))
	require.NoError(t, os.Chtimes(bFile, tie, tie))

	b := NewBuilder()
	classified, err := b.classifyDir(dir, BuildOptions{})
	require.NoError(t, err)

	require.Len(t, classified, 1)
	sf, ok := classified[1]
	require.True(t, ok)
	require.Equal(t, a, sf.path)
}
