package matching

import "testing"

func TestSpecialtyLabel(t *testing.T) {
	cases := []struct {
		in  Specialty
		out string
	}{
		{SpecialtyHVAC, "HVAC"},
		{SpecialtyApplianceRepair, "Appliance Repair"},
		{SpecialtyComputerRepair, "Computer Repair"},
		{Specialty("pest_control"), "Pest Control"},
		{Specialty("solar"), "Solar"},
		{Specialty("roof__repair"), "Roof Repair"},
	}
	for _, tc := range cases {
		if got := tc.in.Label(); got != tc.out {
			t.Fatalf("%s: expected %q got %q", tc.in, tc.out, got)
		}
	}
}

func TestEverySpecialtyHasLabel(t *testing.T) {
	for _, s := range Specialties {
		if !s.Known() {
			t.Fatalf("specialty %s missing from label map", s)
		}
	}
	if len(specialtyLabels) != len(Specialties) {
		t.Fatalf("label map has %d entries, catalog has %d", len(specialtyLabels), len(Specialties))
	}
}

func TestParseSpecialty(t *testing.T) {
	if got := ParseSpecialty("  Electrical "); got != SpecialtyElectrical {
		t.Fatalf("expected electrical got %q", got)
	}
}
