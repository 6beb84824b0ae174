// Package audio frames raw PCM from speech synthesis as playable WAV.
package audio

import "encoding/binary"

const (
	// DefaultSampleRate is the rate speech synthesis returns audio at.
	DefaultSampleRate = 24000

	headerSize    = 44
	channels      = 1
	bitsPerSample = 16
)

// PCMToWAV prefixes mono 16-bit little-endian PCM with a RIFF/WAVE header.
// A non-positive sampleRate selects DefaultSampleRate.
func PCMToWAV(pcm []byte, sampleRate int) []byte {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	out := make([]byte, headerSize+len(pcm))
	le := binary.LittleEndian

	copy(out[0:], "RIFF")
	le.PutUint32(out[4:], uint32(36+len(pcm)))
	copy(out[8:], "WAVE")

	copy(out[12:], "fmt ")
	le.PutUint32(out[16:], 16) // fmt chunk size
	le.PutUint16(out[20:], 1)  // PCM
	le.PutUint16(out[22:], channels)
	le.PutUint32(out[24:], uint32(sampleRate))
	le.PutUint32(out[28:], uint32(byteRate))
	le.PutUint16(out[32:], uint16(blockAlign))
	le.PutUint16(out[34:], bitsPerSample)

	copy(out[36:], "data")
	le.PutUint32(out[40:], uint32(len(pcm)))
	copy(out[headerSize:], pcm)

	return out
}

// Duration returns the playback length of mono 16-bit PCM in seconds.
func Duration(pcm []byte, sampleRate int) float64 {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return float64(len(pcm)) / float64(sampleRate*channels*bitsPerSample/8)
}
