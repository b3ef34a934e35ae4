package observation

import (
	"slices"
	"strings"
	"time"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/tiers"
)

// EntrySummary aggregates every observation of one entry.
type EntrySummary struct {
	EntryName     string     `json:"entry_name"`
	ObservationID uint       `json:"observation_id"` // most recent dated observation
	Date          *time.Time `json:"date,omitempty"`
	Location      string     `json:"location,omitempty"`
	Count         int        `json:"count"`
	Tier          string     `json:"tier"` // highest-precedence tier across the observations
}

// GroupByEntry aggregates observations per entry name. The representative observation is the
// one with the most recent date; ties and undated observations keep the first seen. The tier
// is resolved with the precedence of order. The map is keyed by entry name; the slice holds
// the same summaries sorted by entry name, ignoring case.
func GroupByEntry(observations []*entities.Observation, order []string) (map[string]EntrySummary, []EntrySummary) {
	precedence := tiers.NewPrecedence(order)
	byEntry := make(map[string]*EntrySummary)
	names := make([]string, 0)

	for _, o := range observations {
		sum, ok := byEntry[o.EntryName]
		if !ok {
			byEntry[o.EntryName] = &EntrySummary{
				EntryName:     o.EntryName,
				ObservationID: o.ID,
				Date:          o.ObservationDate,
				Location:      o.Location,
				Count:         1,
				Tier:          o.Tier,
			}
			names = append(names, o.EntryName)
			continue
		}

		sum.Count++
		sum.Tier = precedence.Resolve(sum.Tier, o.Tier)
		if o.ObservationDate != nil && (sum.Date == nil || o.ObservationDate.After(*sum.Date)) {
			sum.ObservationID = o.ID
			sum.Date = o.ObservationDate
			sum.Location = o.Location
		}
	}

	slices.SortFunc(names, func(a, b string) int {
		if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	out := make(map[string]EntrySummary, len(byEntry))
	sorted := make([]EntrySummary, 0, len(names))
	for _, name := range names {
		out[name] = *byEntry[name]
		sorted = append(sorted, *byEntry[name])
	}
	return out, sorted
}
