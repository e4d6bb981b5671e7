package minutes

import "strings"

// minUnitLength is the shortest unit worth classifying. Anything below this
// is dictation debris.
const minUnitLength = 12

func isUnitDelimiter(r rune) bool {
	switch r {
	case '.', '?', '!', ';', '\n', rune(boundaryMarker[0]):
		return true
	}
	return false
}

// splitUnits breaks preprocessed text into candidate semantic units on
// punctuation and the synthetic boundaries inserted by Preprocess.
func splitUnits(text string) []string {
	raw := strings.FieldsFunc(text, isUnitDelimiter)
	units := make([]string, 0, len(raw))
	for _, u := range raw {
		u = strings.Trim(u, " \t,:-")
		if len(u) < minUnitLength {
			continue
		}
		units = append(units, u)
	}
	return units
}
