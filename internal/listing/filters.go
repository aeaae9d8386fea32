package listing

import "strings"

// Filters maps a filter name to its value. Empty values mean "no filter".
type Filters map[string]string

// Get returns the trimmed value of name.
func (f Filters) Get(name string) string {
	return strings.TrimSpace(f[name])
}

// Clone copies f, dropping empty values.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		if strings.TrimSpace(v) != "" {
			out[k] = v
		}
	}
	return out
}

// Equal reports whether f and other apply the same non-empty filters.
func (f Filters) Equal(other Filters) bool {
	a, b := f.Clone(), other.Clone()
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// Contains is a case-insensitive substring match. An empty needle matches.
func Contains(value, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}

// Is is a case-insensitive equality match. An empty want matches.
func Is(value, want string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(value), want)
}

// InDateRange reports whether the YYYY-MM-DD date lies in [from, to].
// Either bound may be empty. Dates compare as strings, so a missing date
// fails any lower bound.
func InDateRange(date, from, to string) bool {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}
