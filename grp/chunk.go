package grp

// Manual PNG chunk splicing for the oFFs ancillary chunk, which
// encoding/png neither writes nor reads. The technique — walk the 8-byte
// signature then a sequence of (length, type, data, crc32) chunks, and
// splice a new one in after IHDR — follows the raw-chunk-append idiom shown
// in the retrieved png-writer/apng-writer reference material (see
// DESIGN.md); encoding/png itself is still used for IHDR/IDAT/IEND and all
// pixel (de)compression.

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

type pngChunk struct {
	typ  [4]byte
	data []byte
}

func encodeChunk(typ string, data []byte) []byte {
	buf := make([]byte, 0, 12+len(data))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	buf = append(buf, typ...)
	buf = append(buf, data...)
	crc := crc32.NewIEEE()
	crc.Write(buf[4:])
	buf = binary.BigEndian.AppendUint32(buf, crc.Sum32())
	return buf
}

// splitChunks parses a full PNG byte stream into its signature-stripped
// chunk sequence.
func splitChunks(png []byte) ([]pngChunk, error) {
	if len(png) < 8 || !bytes.Equal(png[:8], pngSignature) {
		return nil, errInvalidSignature
	}
	var chunks []pngChunk
	b := png[8:]
	for len(b) > 0 {
		if len(b) < 12 {
			return nil, errTruncated
		}
		length := binary.BigEndian.Uint32(b[0:4])
		var typ [4]byte
		copy(typ[:], b[4:8])
		if uint64(len(b)) < 12+uint64(length) {
			return nil, errTruncated
		}
		data := b[8 : 8+length]
		chunks = append(chunks, pngChunk{typ: typ, data: data})
		b = b[12+length:]
	}
	return chunks, nil
}

// injectOFFs splices an oFFs chunk (spec §3: ref_x/ref_y in pixel units)
// immediately after IHDR, returning the re-serialized PNG bytes.
func injectOFFs(pngBytes []byte, refX, refY int32) ([]byte, error) {
	chunks, err := splitChunks(pngBytes)
	if err != nil {
		return nil, err
	}

	offsData := make([]byte, 9)
	binary.BigEndian.PutUint32(offsData[0:4], uint32(refX))
	binary.BigEndian.PutUint32(offsData[4:8], uint32(refY))
	offsData[8] = 0 // unit specifier: 0 = pixel

	var out bytes.Buffer
	out.Write(pngSignature)
	for _, c := range chunks {
		out.Write(encodeChunk(string(c.typ[:]), c.data))
		if string(c.typ[:]) == "IHDR" {
			out.Write(encodeChunk("oFFs", offsData))
		}
	}
	return out.Bytes(), nil
}

// findOFFs returns the (ref_x, ref_y) pair stored in an oFFs chunk, if any.
func findOFFs(pngBytes []byte) (refX, refY int32, ok bool, err error) {
	chunks, err := splitChunks(pngBytes)
	if err != nil {
		return 0, 0, false, err
	}
	for _, c := range chunks {
		if string(c.typ[:]) == "oFFs" && len(c.data) >= 9 {
			x := int32(binary.BigEndian.Uint32(c.data[0:4]))
			y := int32(binary.BigEndian.Uint32(c.data[4:8]))
			return x, y, true, nil
		}
	}
	return 0, 0, false, nil
}

// interlaceMethod reads the interlace-method byte out of the IHDR chunk
// without running a full decode, so callers can reject interlaced input
// before paying for a decode (spec §4.3).
func interlaceMethod(pngBytes []byte) (byte, error) {
	chunks, err := splitChunks(pngBytes)
	if err != nil {
		return 0, err
	}
	for _, c := range chunks {
		if string(c.typ[:]) == "IHDR" {
			if len(c.data) < 13 {
				return 0, errTruncated
			}
			return c.data[12], nil
		}
	}
	return 0, errNoIHDR
}
