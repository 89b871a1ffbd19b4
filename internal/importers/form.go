package importers

import (
	"net/url"

	"github.com/mrlokans/bookcatalog/internal/catalog"
)

// FormCandidate builds a candidate from a submitted form. Only known fields
// are picked up; a field missing from the form is absent.
func FormCandidate(values url.Values) catalog.RawCandidate {
	raw := make(catalog.RawCandidate, len(catalog.Fields))
	for _, field := range catalog.Fields {
		if _, ok := values[field]; ok {
			raw[field] = values.Get(field)
		}
	}
	return raw
}

// JSONCandidate builds a candidate from a decoded JSON object. Unknown keys
// are dropped, and so is "id": identifiers are never client-supplied.
func JSONCandidate(fields map[string]any) catalog.RawCandidate {
	raw := make(catalog.RawCandidate, len(catalog.Fields))
	for _, field := range catalog.Fields {
		if v, ok := fields[field]; ok {
			raw[field] = v
		}
	}
	return raw
}
