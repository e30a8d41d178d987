package catalog

import "strings"

// ServiceID derives the stable service identifier.
func ServiceID(name string) string {
	return strings.ToLower(name)
}

// CountryID lowercases the name and replaces only its first space.
// Existing identifiers were minted this way, so it must not be "fixed".
func CountryID(name string) string {
	return strings.Replace(strings.ToLower(name), " ", "_", 1)
}

// ItemID lowercases the name and replaces every character outside [a-z0-9] with '_'.
func ItemID(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}

func serviceDescription(service string) string {
	return service + " services for intellectual property protection"
}

func itemDescription(service, country string) string {
	return service + " service in " + country
}
