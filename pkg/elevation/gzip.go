package elevation

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/hikepath/routepipe/pkg/core"
)

const (
	gzipMagic0 = 0x1f
	gzipMagic1 = 0x8b

	flagFTEXT    = 1 << 0
	flagFHCRC    = 1 << 1
	flagFEXTRA   = 1 << 2
	flagFNAME    = 1 << 3
	flagFCOMMENT = 1 << 4
)

// ParseGzipHeader parses a 10-byte gzip header plus any optional
// FEXTRA/FNAME/FCOMMENT/FHCRC fields and returns the byte offset at which
// the raw deflate stream begins. Used as a fallback when the standard
// library's gzip reader rejects a tile download outright (some mirrors
// serve headers with unusual OS/mtime fields) — the raw deflate payload is
// still valid and can be fed directly to a flate.Reader.
func ParseGzipHeader(data []byte) (offset int, err error) {
	if len(data) < 10 {
		return 0, core.NewError(core.ErrInvalidTileData, "gzip header truncated")
	}
	if data[0] != gzipMagic0 || data[1] != gzipMagic1 {
		return 0, core.NewError(core.ErrInvalidTileData, "not a gzip stream")
	}
	if data[2] != 8 {
		return 0, core.NewError(core.ErrInvalidTileData, "unsupported gzip compression method")
	}

	flags := data[3]
	pos := 10

	if flags&flagFEXTRA != 0 {
		if pos+2 > len(data) {
			return 0, core.NewError(core.ErrInvalidTileData, "gzip FEXTRA truncated")
		}
		extraLen := int(data[pos]) | int(data[pos+1])<<8
		pos += 2 + extraLen
	}

	if flags&flagFNAME != 0 {
		nameEnd := bytes.IndexByte(data[pos:], 0)
		if nameEnd < 0 {
			return 0, core.NewError(core.ErrInvalidTileData, "gzip FNAME not terminated")
		}
		pos += nameEnd + 1
	}

	if flags&flagFCOMMENT != 0 {
		commentEnd := bytes.IndexByte(data[pos:], 0)
		if commentEnd < 0 {
			return 0, core.NewError(core.ErrInvalidTileData, "gzip FCOMMENT not terminated")
		}
		pos += commentEnd + 1
	}

	if flags&flagFHCRC != 0 {
		pos += 2
	}

	if pos > len(data) {
		return 0, core.NewError(core.ErrInvalidTileData, "gzip header fields overran payload")
	}

	return pos, nil
}

// InflateManual decodes a gzip-wrapped payload by parsing the header and
// trailer by hand and feeding the raw deflate stream between them to
// compress/flate, bypassing compress/gzip entirely.
func InflateManual(data []byte) ([]byte, error) {
	offset, err := ParseGzipHeader(data)
	if err != nil {
		return nil, err
	}
	if len(data) < offset+8 {
		return nil, core.NewError(core.ErrInvalidTileData, "gzip trailer truncated")
	}

	deflateStream := data[offset : len(data)-8]
	fr := flate.NewReader(bytes.NewReader(deflateStream))
	defer fr.Close()

	out, err := io.ReadAll(fr)
	if err != nil {
		return nil, core.NewError(core.ErrInvalidTileData, fmt.Sprintf("raw deflate decode failed: %v", err))
	}
	return out, nil
}
