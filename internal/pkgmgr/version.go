package pkgmgr

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ValidateVersion checks a generator version selector. "latest", dist-tags
// made of letters only (e.g. "beta"), exact versions and ranges are accepted.
func ValidateVersion(version string) error {
	version = strings.TrimSpace(version)
	if version == "" || version == "latest" {
		return nil
	}
	if isDistTag(version) {
		return nil
	}
	if _, err := semver.NewVersion(strings.TrimPrefix(version, "v")); err == nil {
		return nil
	}
	if _, err := semver.NewConstraint(version); err != nil {
		return fmt.Errorf("invalid version %q: %w", version, err)
	}
	return nil
}

func isDistTag(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
