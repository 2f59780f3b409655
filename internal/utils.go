package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// ClipFileName creates a file name for audio synthesized from text
// Format: epochMillis_md5(text)[:8].format
func ClipFileName(text, format string) string {
	// Get current timestamp in milliseconds
	epochMillis := time.Now().UnixMilli()

	// Calculate MD5 hash of the text
	hash := md5.Sum([]byte(text))
	hashStr := hex.EncodeToString(hash[:])[:8] // Use first 8 chars of MD5

	if format == "" {
		format = "mp3"
	}
	return fmt.Sprintf("%d_%s.%s", epochMillis, hashStr, format)
}
