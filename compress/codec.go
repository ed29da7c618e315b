// Package compress defines the compression codec boundary used by the AMI
// archive reader/writer and the GRP payload layer.
//
// The shape mirrors the teacher's compress package (Compressor/Decompressor/
// Codec interfaces, a single built-in implementation selected by a factory),
// narrowed to the one algorithm AMI's wire format actually allows: zlib.
package compress

// Compressor compresses a buffer in one shot.
type Compressor interface {
	// Compress deflates data at a fixed level and returns the compressed
	// bytes.
	Compress(data []byte) ([]byte, error)
}

// Decompressor inflates a single zlib stream.
type Decompressor interface {
	// Decompress inflates data, which must be a complete zlib stream, and
	// returns the decoded bytes.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}
