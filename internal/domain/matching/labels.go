package matching

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var specialtyLabels = map[Specialty]string{
	SpecialtyPlumbing:        "Plumbing",
	SpecialtyElectrical:      "Electrical",
	SpecialtyHVAC:            "HVAC",
	SpecialtyApplianceRepair: "Appliance Repair",
	SpecialtyHandyman:        "Handyman",
	SpecialtyCleaning:        "Cleaning",
	SpecialtyGardening:       "Gardening",
	SpecialtyComputerRepair:  "Computer Repair",
}

// Label returns the display string for a specialty. Tags outside the
// enumeration are humanized: "pest_control" becomes "Pest Control".
func (s Specialty) Label() string {
	if label, ok := specialtyLabels[s]; ok {
		return label
	}
	return humanize(string(s))
}

// Known reports whether s belongs to the enumeration.
func (s Specialty) Known() bool {
	_, ok := specialtyLabels[s]
	return ok
}

// ParseSpecialty normalizes a user supplied category.
func ParseSpecialty(raw string) Specialty {
	return Specialty(strings.ToLower(strings.TrimSpace(raw)))
}

func humanize(tag string) string {
	words := strings.Fields(strings.ReplaceAll(tag, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func labelsFor(specialties []Specialty) []string {
	out := make([]string, 0, len(specialties))
	for _, s := range specialties {
		out = append(out, s.Label())
	}
	return out
}
