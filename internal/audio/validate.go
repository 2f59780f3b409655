package audio

import (
	"bytes"
)

// ValidateAudio checks that a recording is present
func ValidateAudio(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyAudio
	}
	return nil
}

// SniffFormat guesses the container of a recording from its first bytes and
// returns a file extension for it. Unknown data is assumed to be wav, which
// is what browser and desktop recorders usually hand over.
func SniffFormat(data []byte) string {
	switch {
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return "wav"
	case bytes.HasPrefix(data, []byte("ID3")):
		return "mp3"
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return "mp3"
	case bytes.HasPrefix(data, []byte("OggS")):
		return "ogg"
	case bytes.HasPrefix(data, []byte("fLaC")):
		return "flac"
	case len(data) >= 8 && bytes.Equal(data[4:8], []byte("ftyp")):
		return "m4a"
	case bytes.HasPrefix(data, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return "webm"
	default:
		return "wav"
	}
}
