// Package security validates client-supplied input before it reaches the
// room state machine.
package security

import (
	"fmt"
	"regexp"
	"strings"
)

// Input length constraints
const (
	MaxRoomCodeLength = 16
	MaxNameLength     = 50
	MinNameLength     = 1
)

var (
	// Room codes are opaque comparable strings chosen by clients; the
	// server only constrains them to a safe character set.
	roomCodeRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	// Display names: Unicode letters, digits, spaces, apostrophes,
	// hyphens, underscores, dots.
	nameRegex = regexp.MustCompile(`^[\p{L}\p{N}\s'\-_.]+$`)
)

// ValidateRoomCode checks a room code for length and character set.
func ValidateRoomCode(code string) (string, error) {
	code = strings.TrimSpace(code)

	if code == "" {
		return "", fmt.Errorf("room code cannot be empty")
	}
	if len(code) > MaxRoomCodeLength {
		return "", fmt.Errorf("room code too long (max %d characters)", MaxRoomCodeLength)
	}
	if !roomCodeRegex.MatchString(code) {
		return "", fmt.Errorf("room code contains invalid characters")
	}
	return code, nil
}

// ValidateName checks a display name for length and character set and
// returns the trimmed value.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return "", fmt.Errorf("name cannot be empty")
	}
	if len(name) < MinNameLength {
		return "", fmt.Errorf("name too short (min %d characters)", MinNameLength)
	}
	if len(name) > MaxNameLength {
		return "", fmt.Errorf("name too long (max %d characters)", MaxNameLength)
	}
	if !nameRegex.MatchString(name) {
		return "", fmt.Errorf("name contains invalid characters")
	}
	for _, r := range name {
		if r < 32 || r == 127 {
			return "", fmt.Errorf("name contains control characters")
		}
	}
	return name, nil
}
