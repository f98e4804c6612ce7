package updates

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// Service labels each release relative to the installed version.
type Service struct {
	current string
	raw     string
}

func NewService(currentVersion string) (*Service, error) {
	v, err := normalizeVersion(currentVersion)
	if err != nil {
		return nil, fmt.Errorf("current version: %w", err)
	}
	return &Service{current: v, raw: currentVersion}, nil
}

func (s *Service) CurrentVersion() string {
	return s.raw
}

func (s *Service) status(r Release) string {
	v, err := normalizeVersion(r.Version)
	if err != nil {
		return StatusPast
	}
	switch semver.Compare(v, s.current) {
	case 1:
		return StatusAvailable
	case 0:
		return StatusCurrent
	default:
		return StatusPast
	}
}

// Releases returns the changelog, newest first.
func (s *Service) Releases() []Release {
	out := make([]Release, len(releases))
	for i, r := range releases {
		r.Status = s.status(r)
		r.Changes = append([]Change(nil), r.Changes...)
		out[i] = r
	}
	return out
}

// Check returns the newest release above the installed version, or nil when up to date.
func (s *Service) Check() *Release {
	for _, r := range s.Releases() {
		if r.Status == StatusAvailable {
			return &r
		}
	}
	return nil
}
