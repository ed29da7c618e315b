package compress

import (
	"bytes"
	"fmt"
	"io"

	kzlib "github.com/klauspost/compress/zlib"

	"github.com/morkt/xami/errs"
)

const (
	inflateScratchSize = 1024
	deflateLevel       = kzlib.BestCompression // level 9, per spec §4.2
)

// ZlibCodec implements Codec over github.com/klauspost/compress/zlib, the
// only compression algorithm AMI's packed_size field can ever mean (see
// DESIGN.md for why the teacher's zstd/s2/lz4 codecs were not kept here).
type ZlibCodec struct{}

// NewZlibCodec returns a ready-to-use ZlibCodec. It carries no state: each
// call opens its own reader/writer, matching the teacher's stateless
// NoOpCompressor/ZstdCompressor value types.
func NewZlibCodec() ZlibCodec {
	return ZlibCodec{}
}

var _ Codec = ZlibCodec{}

// Decompress streams data through a zlib inflate state machine with a fixed
// 1 KiB scratch buffer, appending decoded bytes to a growable output buffer.
//
// Fails with ErrInvalidCompressedStream if the stream does not decode
// cleanly through to EOF — including dictionary-required, corrupt-header,
// and truncated-stream cases (spec §4.2).
func (ZlibCodec) Decompress(data []byte) ([]byte, error) {
	zr, err := kzlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidCompressedStream, err)
	}
	defer zr.Close()

	var out bytes.Buffer
	scratch := make([]byte, inflateScratchSize)
	for {
		n, rerr := zr.Read(scratch)
		if n > 0 {
			out.Write(scratch[:n])
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrInvalidCompressedStream, rerr)
		}
	}
	return out.Bytes(), nil
}

// Compress deflates data at level 9 (kzlib.BestCompression) and always
// closes the stream so the trailing adler32 checksum and final block are
// emitted (spec §4.2 "always emit STREAM_END").
func (ZlibCodec) Compress(data []byte) ([]byte, error) {
	var out bytes.Buffer
	zw, err := kzlib.NewWriterLevel(&out, deflateLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidCompressedStream, err)
	}

	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidCompressedStream, err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidCompressedStream, err)
	}
	return out.Bytes(), nil
}

// CompressWithSizes compresses data and returns (uncompressed length,
// compressed length) alongside the compressed bytes, matching the
// deflate(bytes, writer) -> (uncompressed_len, compressed_len) contract of
// spec §4.2.
func (c ZlibCodec) CompressWithSizes(data []byte) (compressed []byte, uncompressedLen, compressedLen uint32, err error) {
	out, err := c.Compress(data)
	if err != nil {
		return nil, 0, 0, err
	}
	return out, uint32(len(data)), uint32(len(out)), nil
}
