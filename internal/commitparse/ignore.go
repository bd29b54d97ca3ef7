package commitparse

import "strings"

var ignoreNames = []string{"changelog", "log", "chglog", "notes"}

// IgnoreMarker returns the marker that excludes a commit from the
// changelog, if its title or body carries one. Markers are "(skip X)",
// "(ignore X)" and "!X" where X is changelog, log, chglog or notes.
func IgnoreMarker(title, body string) (string, bool) {
	for _, name := range ignoreNames {
		for _, marker := range []string{"(skip " + name + ")", "(ignore " + name + ")", "!" + name} {
			if strings.Contains(title, marker) || strings.Contains(body, marker) {
				return marker, true
			}
		}
	}
	return "", false
}
