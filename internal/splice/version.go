package splice

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// Version components accepted by BumpVersion.
const (
	BumpNone  = "none"
	BumpPatch = "patch"
	BumpMinor = "minor"
	BumpMajor = "major"
)

// versionLine matches the @version entry of a userscript metadata block,
// e.g. "// @version      1.0".
var versionLine = regexp.MustCompile(`(?m)^(//[ \t]*@version[ \t]+)(\S+)([ \t\r]*)$`)

// ValidBump reports whether part is an accepted BumpVersion component.
func ValidBump(part string) bool {
	switch part {
	case "", BumpNone, BumpPatch, BumpMinor, BumpMajor:
		return true
	default:
		return false
	}
}

// BumpVersion increments the first @version header of a userscript and
// returns the new document and version. Documents without a version header
// are returned unchanged with an empty version.
func BumpVersion(doc, part string) (string, string, error) {
	if !ValidBump(part) {
		return "", "", fmt.Errorf("unknown version component %q: must be one of none, patch, minor, major", part)
	}

	if part == "" || part == BumpNone {
		return doc, "", nil
	}

	loc := versionLine.FindStringSubmatchIndex(doc)
	if loc == nil {
		return doc, "", nil
	}

	current := doc[loc[4]:loc[5]]

	v, err := semver.NewVersion(current)
	if err != nil {
		return "", "", fmt.Errorf("parsing userscript version %q: %w", current, err)
	}

	var next semver.Version

	switch part {
	case BumpPatch:
		next = v.IncPatch()
	case BumpMinor:
		next = v.IncMinor()
	case BumpMajor:
		next = v.IncMajor()
	}

	version := next.String()

	return doc[:loc[4]] + version + doc[loc[5]:], version, nil
}
