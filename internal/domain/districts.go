package domain

// Rwandan administrative districts, grouped by province. Farm locations must
// be drawn from this set.
var Districts = map[string][]string{
	"Kigali City":       {"Nyarugenge", "Gasabo", "Kicukiro"},
	"Eastern Province":  {"Nyagatare", "Gatsibo", "Kayonza", "Rwamagana", "Bugesera", "Ngoma", "Kirehe"},
	"Northern Province": {"Musanze", "Burera", "Gicumbi", "Rulindo", "Gakenke"},
	"Southern Province": {"Huye", "Nyamagabe", "Gisagara", "Nyanza", "Nyaruguru", "Muhanga", "Kamonyi", "Ruhango"},
	"Western Province":  {"Rubavu", "Rusizi", "Karongi", "Nyabihu", "Rutsiro", "Ngororero", "Nyamasheke"},
}

var districtSet = func() map[string]bool {
	m := make(map[string]bool)
	for _, ds := range Districts {
		for _, d := range ds {
			m[d] = true
		}
	}
	return m
}()

// ValidDistrict reports whether location is a known district.
func ValidDistrict(location string) bool {
	return districtSet[location]
}
