package util

import "strings"

const unknownAgent = "Unknown"

// ParseUserAgent classifies a User-Agent header into a coarse device class
// and browser family for the login log.
func ParseUserAgent(ua string) (device, browser string) {
	if ua == "" {
		return unknownAgent, unknownAgent
	}

	switch {
	case strings.Contains(ua, "Mobile"), strings.Contains(ua, "Android"):
		device = "Mobile"
	case strings.Contains(ua, "Tablet"), strings.Contains(ua, "iPad"):
		device = "Tablet"
	default:
		device = "Desktop"
	}

	// Order matters: Edge and Opera UAs also contain "Chrome" and "Safari".
	switch {
	case strings.Contains(ua, "Edg"):
		browser = "Edge"
	case strings.Contains(ua, "OPR"), strings.Contains(ua, "Opera"):
		browser = "Opera"
	case strings.Contains(ua, "Chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "Firefox"):
		browser = "Firefox"
	case strings.Contains(ua, "Safari"):
		browser = "Safari"
	default:
		browser = unknownAgent
	}
	return device, browser
}
