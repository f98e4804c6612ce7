// Package updates serves the desktop client changelog.
package updates

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	TypeMajor = "major"
	TypeMinor = "minor"
	TypePatch = "patch"

	StatusCurrent   = "current"
	StatusAvailable = "available"
	StatusPast      = "past"

	ChangeFeature     = "feature"
	ChangeFix         = "fix"
	ChangeImprovement = "improvement"
	ChangeSecurity    = "security"
)

type Change struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

type Release struct {
	Version string   `json:"version"`
	Date    string   `json:"date"`
	Type    string   `json:"type"`
	Status  string   `json:"status"`
	Title   string   `json:"title"`
	Changes []Change `json:"changes"`
}

// releases is ordered newest first.
var releases = []Release{
	{
		Version: "2.4.0", Date: "December 10, 2024", Type: TypeMinor, Title: "Enhanced AI Translation Engine",
		Changes: []Change{
			{ChangeFeature, "New neural translation model with 40% faster processing"},
			{ChangeFeature, "Added support for 12 new regional dialects"},
			{ChangeImprovement, "Improved noise cancellation algorithms"},
			{ChangeFix, "Fixed audio sync issues on Windows devices"},
		},
	},
	{
		Version: "2.3.2", Date: "November 28, 2024", Type: TypePatch, Title: "Stability Update",
		Changes: []Change{
			{ChangeFix, "Resolved memory leak during long sessions"},
			{ChangeSecurity, "Updated encryption protocols to TLS 1.3"},
			{ChangeImprovement, "Better handling of network interruptions"},
		},
	},
	{
		Version: "2.3.0", Date: "November 15, 2024", Type: TypeMinor, Title: "Meeting Integration",
		Changes: []Change{
			{ChangeFeature, "Native Zoom and Teams integration"},
			{ChangeFeature, "Real-time transcript export to PDF"},
			{ChangeImprovement, "Redesigned settings panel"},
		},
	},
	{
		Version: "2.2.0", Date: "October 20, 2024", Type: TypeMinor, Title: "Custom Voice Profiles",
		Changes: []Change{
			{ChangeFeature, "Create and save custom voice tone profiles"},
			{ChangeFeature, "Speaker identification in group calls"},
			{ChangeFix, "Fixed Bluetooth audio device detection"},
		},
	},
}

// normalizeVersion returns v in the "vMAJOR.MINOR.PATCH[-pre]" form the semver
// package expects. Shorthand such as "2.3" is rejected.
func normalizeVersion(s string) (string, error) {
	v := strings.TrimSpace(s)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) || semver.Canonical(v) != v {
		return "", fmt.Errorf("invalid version %q", s)
	}
	return v, nil
}
