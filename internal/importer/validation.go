package importer

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

const (
	TagMinLen = 1
	TagMaxLen = 63
)

var (
	ErrInvalidTagLength            = errors.New("tag is too short or too long")
	ErrInvalidTagDash              = errors.New("tag starts or ends with a hyphen")
	ErrInvalidTagDoubleDash        = errors.New("tag contains consecutive hyphens (and is not a valid A-label)")
	ErrInvalidTagIDN               = errors.New("tag is an invalid IDN")
	ErrTagContainsInvalidCharacter = errors.New("tag contains invalid characters")
)

// regex for valid tag characters (letters, digits, hyphens)
var validTagChars = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidateTag checks that a tag name is usable as a link path segment.
// Tag names follow hostname-label rules: 1-63 lowercase alphanumeric
// characters or hyphens, no leading/trailing hyphen, and a "--" in the
// 3rd/4th position only for a valid IDN A-label. The caller is expected
// to lowercase the tag first.
func ValidateTag(tag string) error {
	if len(tag) > TagMaxLen || len(tag) < TagMinLen {
		return ErrInvalidTagLength
	}

	if !validTagChars.MatchString(tag) {
		return ErrTagContainsInvalidCharacter
	}

	if strings.HasPrefix(tag, "-") || strings.HasSuffix(tag, "-") {
		return ErrInvalidTagDash
	}

	// "--" in 3rd/4th position is reserved for A-labels (xn--)
	if len(tag) >= 4 && tag[2] == '-' && tag[3] == '-' {
		if !strings.HasPrefix(tag, "xn--") {
			return ErrInvalidTagDoubleDash
		}
	}

	if strings.HasPrefix(tag, "xn--") {
		if _, err := idna.Registration.ToUnicode(tag); err != nil {
			return ErrInvalidTagIDN
		}
	}

	return nil
}
