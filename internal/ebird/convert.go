package ebird

import (
	"strconv"
	"strings"
)

// Column headers of the table produced by TaxonomyTable.
const (
	HeaderScientificName = "SCIENTIFIC_NAME"
	HeaderCommonName     = "COMMON_NAME"
	HeaderFamily         = "FAMILY"
	HeaderSpeciesCode    = "SPECIES_CODE"
	HeaderOrder          = "ORDER"
	HeaderCategory       = "CATEGORY"
	HeaderFamilyCommon   = "FAMILY_COMMON_NAME"
	HeaderTaxonOrder     = "TAXON_ORDER"
	HeaderReportAs       = "REPORT_AS"
	HeaderExtinct        = "EXTINCT"
)

var tableHeaders = []string{
	HeaderScientificName, HeaderCommonName, HeaderFamily, HeaderSpeciesCode, HeaderOrder,
	HeaderCategory, HeaderFamilyCommon, HeaderTaxonOrder, HeaderReportAs, HeaderExtinct,
}

// Mapping returns the classification field mapping for TaxonomyTable output: the scientific
// name is the entry name, the common name the alternate name, the family the category and
// the taxonomic order the rank. The remaining columns end up as additional data.
func Mapping() map[string]string {
	return map[string]string{
		"name":           HeaderScientificName,
		"alternate_name": HeaderCommonName,
		"category":       HeaderFamily,
		"code":           HeaderSpeciesCode,
		"rank":           HeaderOrder,
	}
}

// TaxonomyTable converts taxonomy entries into a header row and data rows. Entries without a
// scientific name are dropped.
func TaxonomyTable(entries []TaxonomyEntry) (headers []string, rows [][]string) {
	headers = append([]string(nil), tableHeaders...)
	rows = make([][]string, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		if strings.TrimSpace(e.ScientificName) == "" {
			continue
		}
		extinct := ""
		if e.Extinct {
			extinct = "true"
			if e.ExtinctYear > 0 {
				extinct = strconv.Itoa(e.ExtinctYear)
			}
		}
		taxonOrder := ""
		if e.TaxonOrder != 0 {
			taxonOrder = strconv.FormatFloat(e.TaxonOrder, 'f', -1, 64)
		}
		rows = append(rows, []string{
			e.ScientificName,
			e.CommonName,
			e.FamilySciName,
			e.SpeciesCode,
			e.Order,
			e.Category,
			e.FamilyComName,
			taxonOrder,
			e.ReportAs,
			extinct,
		})
	}
	return headers, rows
}
