package changelog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidVersionFormat is matched by every InvalidVersionError.
var ErrInvalidVersionFormat = errors.New("invalid version format")

// InvalidVersionError reports text that is neither strict semver nor a
// partial "MAJOR.MINOR[...]" version.
type InvalidVersionError struct {
	Text string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version format: %q", e.Text)
}

// Is makes errors.Is(err, ErrInvalidVersionFormat) succeed.
func (e *InvalidVersionError) Is(target error) bool {
	return target == ErrInvalidVersionFormat
}

// Version is a release key. Strict versions render their canonical semver
// form; partial versions such as "24.04" keep their display text while
// ordering as 24.4.0.
type Version struct {
	sv  *semver.Version
	raw string
}

// ParseVersion tries strict semantic versioning first and falls back to
// the partial form, where the first two dot-separated parts must be
// unsigned integers and the patch is fixed at 0.
func ParseVersion(text string) (Version, error) {
	if sv, err := semver.StrictNewVersion(text); err == nil {
		return Version{sv: sv}, nil
	}

	parts := strings.Split(text, ".")
	if len(parts) >= 2 {
		major, errMajor := strconv.ParseUint(parts[0], 10, 64)
		minor, errMinor := strconv.ParseUint(parts[1], 10, 64)
		if errMajor == nil && errMinor == nil {
			return Version{sv: semver.New(major, minor, 0, "", ""), raw: text}, nil
		}
	}

	return Version{}, &InvalidVersionError{Text: text}
}

// MustParseVersion is like ParseVersion but panics on error.
// It is intended for tests and package-level literals.
func MustParseVersion(text string) Version {
	v, err := ParseVersion(text)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders strict versions canonically and partial versions verbatim.
func (v Version) String() string {
	if v.raw != "" {
		return v.raw
	}
	if v.sv == nil {
		return ""
	}
	return v.sv.String()
}

// IsZero reports whether v is the zero Version.
func (v Version) IsZero() bool {
	return v.sv == nil
}

// IsPartial reports whether v was parsed from the partial form.
func (v Version) IsPartial() bool {
	return v.raw != ""
}

// Major returns the major component.
func (v Version) Major() uint64 {
	if v.sv == nil {
		return 0
	}
	return v.sv.Major()
}

// Minor returns the minor component.
func (v Version) Minor() uint64 {
	if v.sv == nil {
		return 0
	}
	return v.sv.Minor()
}

// Patch returns the patch component.
func (v Version) Patch() uint64 {
	if v.sv == nil {
		return 0
	}
	return v.sv.Patch()
}

// Prerelease returns the pre-release qualifier, or "" for none.
func (v Version) Prerelease() string {
	if v.sv == nil {
		return ""
	}
	return v.sv.Prerelease()
}

// Compare returns -1, 0 or 1. The numeric triple is compared first, then
// pre-release precedence; build metadata never participates. The zero
// Version sorts before every parsed one.
func (v Version) Compare(other Version) int {
	switch {
	case v.sv == nil && other.sv == nil:
		return 0
	case v.sv == nil:
		return -1
	case other.sv == nil:
		return 1
	}
	return v.sv.Compare(other.sv)
}

// Equal reports whether v and other compare equal, regardless of their
// display text ("24.04", "24.4" and "24.4.0" are all equal).
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// LessThan reports whether v sorts strictly before other.
func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

// SameCore reports whether v and other share major, minor and patch.
func (v Version) SameCore(other Version) bool {
	return v.Major() == other.Major() &&
		v.Minor() == other.Minor() &&
		v.Patch() == other.Patch()
}
