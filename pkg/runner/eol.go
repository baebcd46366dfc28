package runner

import (
	"github.com/yaklabco/regionfmt/pkg/buffer"
	"github.com/yaklabco/regionfmt/pkg/textpos"
)

// toBufferOffset maps an offset into raw file content onto the buffer
// loaded from it. For CRLF files every "\r\n" before the offset collapses
// to one byte; an offset between '\r' and '\n' lands before the newline.
func toBufferOffset(raw []byte, eol buffer.EOL, off textpos.ByteOffset) textpos.ByteOffset {
	if eol != buffer.EOLCRLF {
		return off
	}
	end := min(int(off), len(raw))
	crs := 0
	for i := range end {
		if raw[i] == '\r' && i+1 < len(raw) && raw[i+1] == '\n' {
			crs++
		}
	}
	return off - textpos.ByteOffset(crs)
}

// toFileOffset maps a buffer offset back onto content encoded with eol.
func toFileOffset(text []byte, eol buffer.EOL, off textpos.ByteOffset) textpos.ByteOffset {
	if eol != buffer.EOLCRLF {
		return off
	}
	end := min(int(off), len(text))
	lfs := 0
	for i := range end {
		if text[i] == '\n' {
			lfs++
		}
	}
	return off + textpos.ByteOffset(lfs)
}
