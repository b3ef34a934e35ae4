package classification

import (
	"strings"
)

// Logical entry fields a CSV column can be mapped to.
const (
	FieldName          = "name"
	FieldAlternateName = "alternate_name"
	FieldCategory      = "category"
	FieldParentID      = "parent_id"
	FieldCode          = "code"
	FieldRank          = "rank"
)

// LogicalFields lists the mappable fields in display order.
var LogicalFields = []string{
	FieldName, FieldAlternateName, FieldCategory, FieldCode, FieldRank, FieldParentID,
}

// FieldMapping maps a logical entry field to a CSV header. Only FieldName is required.
type FieldMapping map[string]string

// Header returns the header mapped to field, or "".
func (m FieldMapping) Header(field string) string {
	return strings.TrimSpace(m[field])
}

// HasName reports whether the mapping names a column for the entry name.
func (m FieldMapping) HasName() bool {
	return m.Header(FieldName) != ""
}

// Mapped reports whether header is the target of any logical field.
func (m FieldMapping) Mapped(header string) bool {
	for _, h := range m {
		if h != "" && strings.TrimSpace(h) == header {
			return true
		}
	}
	return false
}

// Clone returns a copy without blank targets.
func (m FieldMapping) Clone() FieldMapping {
	out := make(FieldMapping, len(m))
	for field, header := range m {
		if header = strings.TrimSpace(header); header != "" {
			out[field] = header
		}
	}
	return out
}

// headerPatterns are substrings searched, in order, in lower-cased headers.
var headerPatterns = []struct {
	field    string
	patterns []string
}{
	{FieldName, []string{"name", "species", "scientific name", "scientific_name", "taxon", "entry"}},
	{FieldAlternateName, []string{"common name", "common_name", "alternate", "alt name", "alt_name", "vernacular"}},
	{FieldCategory, []string{"category", "family", "order", "class", "group", "taxon"}},
	{FieldCode, []string{"code", "id", "identifier", "species code", "species_code", "alpha code"}},
	{FieldRank, []string{"rank", "taxonomic rank", "level", "tax_rank"}},
	{FieldParentID, []string{"parent", "parent_id", "parent id", "parent code"}},
}

// GuessMapping proposes a mapping from CSV headers. A header equal to a logical field name
// (ignoring case) wins; otherwise the first header containing one of the field's patterns is
// used. A header is assigned to at most one field.
func GuessMapping(headers []string) FieldMapping {
	mapping := make(FieldMapping)
	used := make(map[string]bool, len(headers))

	for _, field := range LogicalFields {
		for _, h := range headers {
			if !used[h] && strings.EqualFold(strings.TrimSpace(h), field) {
				mapping[field] = h
				used[h] = true
				break
			}
		}
	}

	for _, hp := range headerPatterns {
		if _, ok := mapping[hp.field]; ok {
			continue
		}
	headers:
		for _, h := range headers {
			if used[h] {
				continue
			}
			lower := strings.ToLower(h)
			for _, p := range hp.patterns {
				if strings.Contains(lower, p) {
					mapping[hp.field] = h
					used[h] = true
					break headers
				}
			}
		}
	}
	return mapping
}
