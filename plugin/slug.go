package plugin

import "strings"

// ID is the unique identifier of a plugin, derived once from its name.
type ID = string

// slugify derives a stable plugin id from a human-readable name.
//
// Names are lower-cased and runs of anything other than a letter, digit
// or '.' collapse to a single '-'. This keeps ids stable across the
// punctuation variations a plugin author is likely to use ("Audit Log",
// "audit_log", "audit-log" all map to "audit-log") while leaving '.'
// untouched, since plugin ids are allowed to be dotted namespaces.
func slugify(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
