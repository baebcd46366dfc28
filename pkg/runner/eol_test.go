package runner

import (
	"testing"

	"github.com/yaklabco/regionfmt/pkg/buffer"
	"github.com/yaklabco/regionfmt/pkg/textpos"
)

func TestOffsetConversion(t *testing.T) {
	t.Parallel()

	raw := []byte("ab\r\ncd\r\nef")
	text := []byte("ab\ncd\nef")

	tests := []struct {
		name      string
		eol       buffer.EOL
		fileOff   textpos.ByteOffset
		bufferOff textpos.ByteOffset
	}{
		{"start", buffer.EOLCRLF, 0, 0},
		{"first line", buffer.EOLCRLF, 2, 2},
		{"second line", buffer.EOLCRLF, 4, 3},
		{"third line", buffer.EOLCRLF, 9, 7},
		{"end", buffer.EOLCRLF, 10, 8},
		{"LF is identity", buffer.EOLLF, 9, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := toBufferOffset(raw, tt.eol, tt.fileOff); got != tt.bufferOff {
				t.Errorf("toBufferOffset(%d) = %d, want %d", tt.fileOff, got, tt.bufferOff)
			}
			if got := toFileOffset(text, tt.eol, tt.bufferOff); got != tt.fileOff {
				t.Errorf("toFileOffset(%d) = %d, want %d", tt.bufferOff, got, tt.fileOff)
			}
		})
	}
}

func TestToBufferOffset_BetweenCRAndLF(t *testing.T) {
	t.Parallel()

	raw := []byte("ab\r\ncd")
	if got := toBufferOffset(raw, buffer.EOLCRLF, 3); got != 2 {
		t.Errorf("toBufferOffset(3) = %d, want 2", got)
	}
}
