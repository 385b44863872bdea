package tagger

import "fmt"

// GenerateLengthTag generates a length-based tag for an entry
// Returns a tag in the format "len-N" where N is the entry name length
func GenerateLengthTag(length int) string {
	return fmt.Sprintf("len-%d", length)
}
