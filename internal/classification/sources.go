package classification

import (
	"slices"
	"strings"
)

// Source is a well-known taxonomy published as a CSV download.
type Source struct {
	Key          string // short identifier used on the command line
	Name         string // classification name stored on import
	Version      string
	Description  string
	URL          string // CSV download
	Homepage     string
	LifelistType string // lifelist type the taxonomy is meant for
	Mapping      FieldMapping
}

// Meta returns the classification record stored when the source is imported.
func (s Source) Meta() Meta {
	return Meta{
		Name:        s.Name,
		Version:     s.Version,
		Source:      s.URL,
		Description: s.Description,
	}
}

var wellKnownSources = []Source{
	{
		Key:          "ebird",
		Name:         "eBird Taxonomy",
		Version:      "v2023",
		Description:  "The eBird/Clements taxonomy, updated 2023",
		URL:          "https://media.ebird.org/catalog/resource/eBird_Taxonomy_v2023.csv",
		Homepage:     "https://www.birds.cornell.edu/clementschecklist/download/",
		LifelistType: "Wildlife",
		Mapping: FieldMapping{
			FieldName:          "SCI_NAME",
			FieldAlternateName: "PRIMARY_COM_NAME",
			FieldCategory:      "FAMILY",
			FieldCode:          "SPECIES_CODE",
			FieldRank:          "CATEGORY",
		},
	},
	{
		Key:          "ioc",
		Name:         "IOC World Bird List",
		Version:      "13.1",
		Description:  "International Ornithological Congress bird list",
		URL:          "https://www.worldbirdnames.org/IOC_names_export_13.1.csv",
		Homepage:     "https://www.worldbirdnames.org/new/ioc-lists/master-list-2/",
		LifelistType: "Wildlife",
		Mapping: FieldMapping{
			FieldName:          "Scientific name",
			FieldAlternateName: "English name",
			FieldCategory:      "Family",
			FieldRank:          "Order",
		},
	},
	{
		Key:          "mdd",
		Name:         "Mammal Diversity Database",
		Version:      "1.11",
		Description:  "Comprehensive mammal taxonomy",
		URL:          "https://www.mammaldiversity.org/assets/data/MDD_v1.11_6818species.csv",
		Homepage:     "https://www.mammaldiversity.org/",
		LifelistType: "Wildlife",
		Mapping: FieldMapping{
			FieldName:          "sciName",
			FieldAlternateName: "vernacularName",
			FieldCategory:      "familyNameValid",
			FieldRank:          "orderNameValid",
		},
	},
	{
		Key:          "plantlist",
		Name:         "The Plant List",
		Version:      "1.1",
		Description:  "Working list of all known plant species",
		URL:          "https://raw.githubusercontent.com/crazybilly/tpldata/master/data/namesAccepted.csv",
		Homepage:     "http://www.theplantlist.org/",
		LifelistType: "Plants",
		Mapping: FieldMapping{
			FieldName:     "ScientificName",
			FieldCategory: "Family",
			FieldRank:     "Genus",
		},
	},
}

// WellKnownSources returns the built-in taxonomy sources.
func WellKnownSources() []Source {
	out := make([]Source, len(wellKnownSources))
	for i, s := range wellKnownSources {
		s.Mapping = s.Mapping.Clone()
		out[i] = s
	}
	return out
}

// LookupSource finds a well-known source by key or name, ignoring case.
func LookupSource(keyOrName string) (Source, bool) {
	keyOrName = strings.TrimSpace(keyOrName)
	i := slices.IndexFunc(wellKnownSources, func(s Source) bool {
		return strings.EqualFold(s.Key, keyOrName) || strings.EqualFold(s.Name, keyOrName)
	})
	if i < 0 {
		return Source{}, false
	}
	s := wellKnownSources[i]
	s.Mapping = s.Mapping.Clone()
	return s, true
}

// SourcesForType returns the well-known sources meant for a lifelist type.
func SourcesForType(typeName string) []Source {
	var out []Source
	for _, s := range WellKnownSources() {
		if strings.EqualFold(s.LifelistType, typeName) {
			out = append(out, s)
		}
	}
	return out
}
