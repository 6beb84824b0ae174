package audio

import (
	"encoding/binary"
	"testing"
)

func TestPCMToWAVHeader(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6}
	wav := PCMToWAV(pcm, 0)

	if len(wav) != 44+len(pcm) {
		t.Fatalf("expected %d bytes, got %d", 44+len(pcm), len(wav))
	}

	tests := []struct {
		name     string
		got      uint32
		expected uint32
	}{
		{"riff size", binary.LittleEndian.Uint32(wav[4:]), 36 + 6},
		{"format", uint32(binary.LittleEndian.Uint16(wav[20:])), 1},
		{"channels", uint32(binary.LittleEndian.Uint16(wav[22:])), 1},
		{"sample rate", binary.LittleEndian.Uint32(wav[24:]), 24000},
		{"byte rate", binary.LittleEndian.Uint32(wav[28:]), 48000},
		{"block align", uint32(binary.LittleEndian.Uint16(wav[32:])), 2},
		{"bits per sample", uint32(binary.LittleEndian.Uint16(wav[34:])), 16},
		{"data size", binary.LittleEndian.Uint32(wav[40:]), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, tt.got)
			}
		})
	}

	for _, tag := range []struct {
		off  int
		want string
	}{{0, "RIFF"}, {8, "WAVE"}, {12, "fmt "}, {36, "data"}} {
		if got := string(wav[tag.off : tag.off+4]); got != tag.want {
			t.Errorf("expected %q at %d, got %q", tag.want, tag.off, got)
		}
	}

	if string(wav[44:]) != string(pcm) {
		t.Error("pcm payload not copied verbatim")
	}
}

func TestPCMToWAVCustomRate(t *testing.T) {
	wav := PCMToWAV(nil, 16000)
	if len(wav) != 44 {
		t.Fatalf("expected header only, got %d bytes", len(wav))
	}
	if rate := binary.LittleEndian.Uint32(wav[24:]); rate != 16000 {
		t.Errorf("expected 16000, got %d", rate)
	}
}

func TestDuration(t *testing.T) {
	if d := Duration(make([]byte, 48000), 0); d != 1 {
		t.Errorf("expected 1 second, got %v", d)
	}
}
