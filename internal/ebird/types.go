// Package ebird provides a client for the taxonomy endpoint of the eBird API v2 and converts
// the taxonomy into classification import rows.
package ebird

import (
	"net/http"
	"time"
)

// TaxonomyEntry represents a single entry from the eBird taxonomy
type TaxonomyEntry struct {
	ScientificName string   `json:"sciName"`
	CommonName     string   `json:"comName"`
	SpeciesCode    string   `json:"speciesCode"`
	Category       string   `json:"category"`      // species, spuh, slash, hybrid, etc.
	TaxonOrder     float64  `json:"taxonOrder"`    // For sorting in taxonomic order
	BandingCodes   []string `json:"bandingCodes"`  // Array of banding codes
	Order          string   `json:"order"`         // Taxonomic order
	FamilyCode     string   `json:"familyCode"`    // Family code
	FamilyComName  string   `json:"familyComName"` // Common family name
	FamilySciName  string   `json:"familySciName"` // Scientific family name
	ReportAs       string   `json:"reportAs,omitempty"`
	Extinct        bool     `json:"extinct,omitempty"`
	ExtinctYear    int      `json:"extinctYear,omitempty"`
}

// Config holds configuration for the eBird client
type Config struct {
	APIKey      string        `json:"api_key"`
	BaseURL     string        `json:"base_url"`
	Timeout     time.Duration `json:"timeout"`
	CacheTTL    time.Duration `json:"cache_ttl"`
	RateLimitMS int           `json:"rate_limit_ms"` // Milliseconds between requests

	HTTPClient *http.Client `json:"-"` // optional, mainly for tests
}

// Error represents an eBird API error response
type Error struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string {
	return e.Detail
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:     "https://api.ebird.org/v2",
		Timeout:     30 * time.Second,
		CacheTTL:    24 * time.Hour, // Taxonomy rarely changes
		RateLimitMS: 100,            // 10 requests per second max
	}
}
