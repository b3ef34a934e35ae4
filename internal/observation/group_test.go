package observation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

func TestGroupByEntry(t *testing.T) {
	t.Parallel()
	order := []string{"wild", "heard", "captive"}
	observations := []*entities.Observation{
		{ID: 1, EntryName: "robin", Tier: "captive", Location: "zoo"},
		{ID: 2, EntryName: "Blue Jay", Tier: "heard", ObservationDate: date(2024, 5, 1), Location: "yard"},
		{ID: 3, EntryName: "Blue Jay", Tier: "wild", ObservationDate: date(2024, 5, 1), Location: "park"},
		{ID: 4, EntryName: "Blue Jay", Tier: "legacy", ObservationDate: date(2023, 1, 1)},
		{ID: 5, EntryName: "robin", Tier: "heard", ObservationDate: date(2022, 1, 1), Location: "field"},
		{ID: 6, EntryName: "Crow", Tier: "legacy"},
		{ID: 7, EntryName: "Crow", Tier: "other"},
	}

	byEntry, sorted := GroupByEntry(observations, order)
	require.Len(t, byEntry, 3)
	assert.Equal(t, []string{"Blue Jay", "Crow", "robin"},
		[]string{sorted[0].EntryName, sorted[1].EntryName, sorted[2].EntryName}, "sorted ignoring case")

	jay := byEntry["Blue Jay"]
	assert.Equal(t, 3, jay.Count)
	assert.Equal(t, "wild", jay.Tier)
	assert.Equal(t, uint(2), jay.ObservationID, "equal dates keep the first seen")
	assert.Equal(t, "yard", jay.Location)

	robin := byEntry["robin"]
	assert.Equal(t, "heard", robin.Tier)
	assert.Equal(t, uint(5), robin.ObservationID, "a dated observation beats an undated one")
	assert.Equal(t, "field", robin.Location)

	crow := byEntry["Crow"]
	assert.Equal(t, "legacy", crow.Tier, "unknown tiers tie and keep the current value")
	assert.Equal(t, uint(6), crow.ObservationID)
	assert.Equal(t, sorted[1], crow)

	empty, none := GroupByEntry(nil, order)
	assert.Empty(t, empty)
	assert.Empty(t, none)
}
