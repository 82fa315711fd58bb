package dicom

import (
	"fmt"
	"sort"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// TagInfo names a DICOM attribute that can be overridden on export.
type TagInfo struct {
	Name string
	Tag  tag.Tag
}

// tagRegistry maps lowercase tag names to their TagInfo.
var tagRegistry = map[string]TagInfo{
	// Instrument and site
	"institutionname":       {Name: "InstitutionName", Tag: tag.InstitutionName},
	"stationname":           {Name: "StationName", Tag: tag.StationName},
	"manufacturer":          {Name: "Manufacturer", Tag: tag.Manufacturer},
	"manufacturermodelname": {Name: "ManufacturerModelName", Tag: tag.ManufacturerModelName},
	"operatorsname":         {Name: "OperatorsName", Tag: tag.OperatorsName},

	// Identification
	"patientname":       {Name: "PatientName", Tag: tag.PatientName},
	"patientid":         {Name: "PatientID", Tag: tag.PatientID},
	"studydescription":  {Name: "StudyDescription", Tag: tag.StudyDescription},
	"seriesdescription": {Name: "SeriesDescription", Tag: tag.SeriesDescription},
	"protocolname":      {Name: "ProtocolName", Tag: tag.ProtocolName},
	"accessionnumber":   {Name: "AccessionNumber", Tag: tag.AccessionNumber},
	"imagecomments":     {Name: "ImageComments", Tag: tag.ImageComments},

	// Display
	"windowcenter": {Name: "WindowCenter", Tag: tag.WindowCenter},
	"windowwidth":  {Name: "WindowWidth", Tag: tag.WindowWidth},
}

// TagNames returns the overridable tag names, sorted.
func TagNames() []string {
	names := make([]string, 0, len(tagRegistry))
	for _, info := range tagRegistry {
		names = append(names, info.Name)
	}
	sort.Strings(names)
	return names
}

// GetTagByName returns TagInfo for a given tag name.
// The lookup is case-insensitive. If the tag is not found, an error is returned
// with a suggestion for the closest matching tag name (using Levenshtein distance).
func GetTagByName(name string) (TagInfo, error) {
	normalizedName := strings.ToLower(strings.TrimSpace(name))

	if info, ok := tagRegistry[normalizedName]; ok {
		return info, nil
	}

	if suggestion := findClosestTagName(normalizedName); suggestion != "" {
		return TagInfo{}, fmt.Errorf("unknown tag %q, did you mean %q?", name, suggestion)
	}

	return TagInfo{}, fmt.Errorf("unknown tag %q", name)
}

// ParseTag splits a "Name=Value" flag and validates the name. The returned
// name is canonical.
func ParseTag(s string) (name, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", fmt.Errorf("invalid tag %q, expected Name=Value", s)
	}
	info, err := GetTagByName(key)
	if err != nil {
		return "", "", err
	}
	return info.Name, strings.TrimSpace(value), nil
}

// applyTags replaces or adds the overridden elements.
func applyTags(elements []*dicom.Element, tags map[string]string) ([]*dicom.Element, error) {
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		info, err := GetTagByName(name)
		if err != nil {
			return nil, err
		}
		elem, err := dicom.NewElement(info.Tag, []string{tags[name]})
		if err != nil {
			return nil, fmt.Errorf("tag %s: %w", info.Name, err)
		}

		replaced := false
		for i, e := range elements {
			if e.Tag == info.Tag {
				elements[i] = elem
				replaced = true
				break
			}
		}
		if !replaced {
			elements = append(elements, elem)
		}
	}

	// Ascending tag order, which keeps the 0002 meta group first and
	// PixelData last.
	sort.SliceStable(elements, func(i, j int) bool {
		a, b := elements[i].Tag, elements[j].Tag
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		return a.Element < b.Element
	})
	return elements, nil
}

// findClosestTagName finds the closest matching tag name using Levenshtein distance.
// Returns empty string if no close match is found (distance > 5).
func findClosestTagName(input string) string {
	const maxDistance = 5
	bestDistance := maxDistance + 1
	var bestMatch string

	for _, key := range sortedKeys() {
		if distance := levenshteinDistance(input, key); distance < bestDistance {
			bestDistance = distance
			bestMatch = tagRegistry[key].Name
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

func sortedKeys() []string {
	keys := make([]string, 0, len(tagRegistry))
	for k := range tagRegistry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// levenshteinDistance is the minimum number of single-character edits
// required to change a into b.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			cur[j] = min(
				prev[j]+1,      // deletion
				cur[j-1]+1,     // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, cur = cur, prev
	}

	return prev[len(b)]
}
