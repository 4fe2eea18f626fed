// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package logging

import "strings"

// MaskSecret hides all but the first two characters of a secret value
// such as a session cookie or a one-time PIN code.
//
//	MaskSecret("4F2K")      // "4F**"
//	MaskSecret("s%3Aabcd")  // "s%******"
func MaskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 2 {
		return strings.Repeat("*", len(value))
	}
	return value[:2] + strings.Repeat("*", len(value)-2)
}

// SanitizeError truncates an error message and strips newlines so that a
// server-supplied detail cannot forge extra log lines.
func SanitizeError(msg string) string {
	msg = strings.NewReplacer("\r", " ", "\n", " ").Replace(msg)
	return truncateString(msg, 200)
}

// truncateString truncates s to at most maxLen bytes, appending "..." when cut.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
