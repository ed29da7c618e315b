package byteio

import (
	"fmt"
	"os"

	"github.com/morkt/xami/errs"
)

// View is a read-only, bounds-checked window over a file's bytes. It is the
// archive reader's only access path to on-disk data — no package outside
// byteio touches an *os.File or a raw pointer directly.
//
// A View loaded with Open reads the whole file into memory once; xami
// archives are small enough (per-title visual-novel asset packs) that this
// is simpler and safer than a real mmap, and the pack retrieved for this
// project contains no memory-mapping dependency to build on (see DESIGN.md).
type View struct {
	data []byte
}

// Open reads path fully into a View.
func Open(path string) (*View, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}
	return &View{data: data}, nil
}

// NewView wraps an in-memory byte slice as a View, e.g. for tests.
func NewView(data []byte) *View {
	return &View{data: data}
}

// Len returns the total number of bytes in the view.
func (v *View) Len() int {
	return len(v.data)
}

// Bytes returns the full backing slice. Callers must not mutate it.
func (v *View) Bytes() []byte {
	return v.data
}

// Slice returns the bounds-checked sub-slice [off, off+length).
func (v *View) Slice(off, length uint64) ([]byte, error) {
	end := off + length
	if length == 0 {
		if off > uint64(len(v.data)) {
			return nil, errs.ErrBadOffset
		}
		return v.data[off:off], nil
	}
	if end < off || end > uint64(len(v.data)) {
		return nil, errs.ErrBadOffset
	}
	return v.data[off:end], nil
}

// SubView returns a new View bounded to [off, off+length), sharing the
// backing array.
func (v *View) SubView(off, length uint64) (*View, error) {
	b, err := v.Slice(off, length)
	if err != nil {
		return nil, err
	}
	return &View{data: b}, nil
}
