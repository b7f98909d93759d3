package housing

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestBuildQueryDefault(t *testing.T) {
	req := BuildQuery(DefaultCriteria())

	body, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))

	require.Equal(t, "GetHousingIds", decoded["operationName"])
	require.Contains(t, decoded["query"], "query GetHousingIds($input: GetHousingsInput!)")
	require.Contains(t, decoded["query"], "housingRentalObjects")

	expected := map[string]any{
		"input": map[string]any{
			"location": []any{
				map[string]any{"parent": "Trondheim", "children": []any{}},
			},
			"availableMaxDate":    "2024-01-07T00:00:00.000Z",
			"includeFilterCounts": true,
			"offset":              float64(0),
			"pageSize":            float64(10),
			"residenceCategories": []any{"1-roms", "2-roms"},
			"showUnavailable":     false,
		},
	}
	if diff := cmp.Diff(expected, decoded["variables"]); diff != "" {
		t.Fatalf("variables mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildQueryNormalizes(t *testing.T) {
	oslo := time.FixedZone("CET", 60*60)
	req := BuildQuery(SearchCriteria{
		Locations:        []Location{{Parent: "Oslo"}},
		AvailableMaxDate: time.Date(2024, time.March, 1, 1, 0, 0, 0, oslo),
		PageSize:         25,
		Offset:           25,
		ShowUnavailable:  true,
	})

	input := req.Variables.Input
	require.Equal(t, "2024-03-01T00:00:00.000Z", input.AvailableMaxDate)
	require.Equal(t, []string{}, input.Location[0].Children)
	require.Equal(t, []string{}, input.ResidenceCategories)
	require.Equal(t, 25, input.PageSize)
	require.Equal(t, 25, input.Offset)
	require.True(t, input.ShowUnavailable)
	require.False(t, input.IncludeFilterCounts)
}

func TestBuildQueryIsPure(t *testing.T) {
	criteria := DefaultCriteria()
	require.Equal(t, BuildQuery(criteria), BuildQuery(criteria))

	req := BuildQuery(criteria)
	req.Variables.Input.Location[0].Parent = "Bergen"
	require.Equal(t, "Trondheim", criteria.Locations[0].Parent)
}
