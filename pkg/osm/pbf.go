package osm

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
)

// blobHeader is the minimal subset of the OSM PBF BlobHeader message this
// package decodes: the block type name and the length of the following Blob.
type blobHeader struct {
	Type    string
	DataSize int32
}

// ReadBlobs decodes the length-delimited varint wire framing of an OSM PBF
// stream and yields each block's decompressed payload in order. This
// package decodes only the blob framing (4-byte big-endian header length,
// a minimal protobuf varint/length-delimited field walk for BlobHeader and
// Blob, and zlib inflation of Blob.zlib_data) — it does not decode the
// OSMHeader/PrimitiveBlock payload bytes themselves, since doing so would
// require a general protobuf decoder, which is explicitly out of scope.
// Callers that need node/way/tag data should prefer the XML ingest path;
// this exists for the optional PBF ingest path named in the component
// table.
func ReadBlobs(r io.Reader) ([][]byte, error) {
	var blobs [][]byte

	for {
		var headerLen uint32
		if err := binary.Read(r, binary.BigEndian, &headerLen); err != nil {
			if err == io.EOF {
				return blobs, nil
			}
			return nil, fmt.Errorf("osm: reading blob header length: %w", err)
		}

		headerBuf := make([]byte, headerLen)
		if _, err := io.ReadFull(r, headerBuf); err != nil {
			return nil, fmt.Errorf("osm: reading blob header: %w", err)
		}

		header, err := decodeBlobHeader(headerBuf)
		if err != nil {
			return nil, err
		}

		blobBuf := make([]byte, header.DataSize)
		if _, err := io.ReadFull(r, blobBuf); err != nil {
			return nil, fmt.Errorf("osm: reading blob %q: %w", header.Type, err)
		}

		payload, err := decodeBlob(blobBuf)
		if err != nil {
			return nil, fmt.Errorf("osm: decoding blob %q: %w", header.Type, err)
		}

		blobs = append(blobs, payload)
	}
}

// decodeBlobHeader walks the protobuf wire format for BlobHeader, extracting
// field 1 (type, string) and field 3 (datasize, int32). Other fields
// (indexdata) are skipped.
func decodeBlobHeader(buf []byte) (*blobHeader, error) {
	h := &blobHeader{}
	pos := 0
	for pos < len(buf) {
		tag, n, err := readProtoVarint(buf[pos:])
		if err != nil {
			return nil, fmt.Errorf("blob header tag: %w", err)
		}
		pos += n
		fieldNum := tag >> 3
		wireType := tag & 0x7

		switch wireType {
		case 0: // varint
			v, n, err := readProtoVarint(buf[pos:])
			if err != nil {
				return nil, err
			}
			pos += n
			if fieldNum == 3 {
				h.DataSize = int32(v)
			}
		case 2: // length-delimited
			length, n, err := readProtoVarint(buf[pos:])
			if err != nil {
				return nil, err
			}
			pos += n
			if pos+int(length) > len(buf) {
				return nil, fmt.Errorf("blob header field overruns buffer")
			}
			value := buf[pos : pos+int(length)]
			pos += int(length)
			if fieldNum == 1 {
				h.Type = string(value)
			}
		default:
			return nil, fmt.Errorf("unsupported wire type %d in blob header", wireType)
		}
	}
	return h, nil
}

// decodeBlob walks the protobuf wire format for Blob, extracting field 1
// (raw, bytes) or field 3 (zlib_data, bytes) and inflating the latter.
func decodeBlob(buf []byte) ([]byte, error) {
	pos := 0
	for pos < len(buf) {
		tag, n, err := readProtoVarint(buf[pos:])
		if err != nil {
			return nil, err
		}
		pos += n
		fieldNum := tag >> 3
		wireType := tag & 0x7

		switch wireType {
		case 0:
			_, n, err := readProtoVarint(buf[pos:])
			if err != nil {
				return nil, err
			}
			pos += n
		case 2:
			length, n, err := readProtoVarint(buf[pos:])
			if err != nil {
				return nil, err
			}
			pos += n
			if pos+int(length) > len(buf) {
				return nil, fmt.Errorf("blob field overruns buffer")
			}
			value := buf[pos : pos+int(length)]
			pos += int(length)

			switch fieldNum {
			case 1: // raw
				return value, nil
			case 3: // zlib_data
				zr, err := zlib.NewReader(bytes.NewReader(value))
				if err != nil {
					return nil, fmt.Errorf("zlib reader: %w", err)
				}
				defer zr.Close()
				return io.ReadAll(zr)
			}
		default:
			return nil, fmt.Errorf("unsupported wire type %d in blob", wireType)
		}
	}
	return nil, fmt.Errorf("blob contained neither raw nor zlib_data field")
}

// readProtoVarint reads a base-128 varint (unsigned, not zigzag — this is
// the raw protobuf wire varint, distinct from geo's zigzag varints).
func readProtoVarint(buf []byte) (uint64, int, error) {
	var result uint64
	var shift uint
	for i, b := range buf {
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, i + 1, nil
		}
		shift += 7
		if shift > 63 {
			return 0, 0, fmt.Errorf("varint overflow")
		}
	}
	return 0, 0, fmt.Errorf("truncated varint")
}
