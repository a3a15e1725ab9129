// Package version exposes the build version of the pokedex binary.
package version

import (
	"github.com/Masterminds/semver/v3"
)

// fallbackVersion is reported when the linker did not inject a valid version.
const fallbackVersion = "0.0.0-dev"

// version is set at build time via -ldflags "-X .../pkg/version.version=v1.2.3".
//
//nolint:gochecknoglobals // Populated by the linker.
var version = fallbackVersion

// GetVersion returns the normalized semantic version of the build.
// Invalid injected values fall back to 0.0.0-dev.
func GetVersion() string {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fallbackVersion
	}
	return v.String()
}

// IsPrerelease reports whether the build carries a prerelease tag.
func IsPrerelease() bool {
	v, err := semver.NewVersion(GetVersion())
	if err != nil {
		return true
	}
	return v.Prerelease() != ""
}
