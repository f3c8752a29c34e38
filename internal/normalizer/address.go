package normalizer

import (
	"regexp"
	"strings"

	"eventpipe/internal/models"
)

// Matches "street, city, ST zip", "street, city, ST", and
// "street, city ST zip" variants.
var addressPattern = regexp.MustCompile(
	`^(?P<street>[^,]+?),\s*(?P<city>[^,]+?),?\s+(?P<state>[A-Za-z]{2})(?:\s+(?P<zip>\d{5}(?:-\d{4})?))?$`)

// SplitAddress splits a single free-text address line into its parts.
// When the line does not match a recognizable pattern the whole text is
// kept as the street address; failure to split is not an error.
func SplitAddress(line string) models.Location {
	line = strings.Join(strings.Fields(line), " ")
	if line == "" {
		return models.Location{}
	}

	match := addressPattern.FindStringSubmatch(line)
	if match == nil {
		return models.Location{StreetAddress: line}
	}

	loc := models.Location{}

	for i, name := range addressPattern.SubexpNames() {
		value := strings.TrimSpace(match[i])

		switch name {
		case "street":
			loc.StreetAddress = value
		case "city":
			loc.City = value
		case "state":
			loc.State = strings.ToUpper(value)
		case "zip":
			loc.ZipCode = value
		}
	}

	return loc
}
