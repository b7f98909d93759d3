package housing

import (
	"testing"
	"time"

	"housing-notifier/internal/components/chrono"
	"housing-notifier/internal/config"

	"github.com/stretchr/testify/require"
)

func TestResolveCriteriaDefaults(t *testing.T) {
	criteria, err := ResolveCriteria(config.SearchConfig{}, chrono.FixedImpl{At: time.Now()})
	require.NoError(t, err)
	require.Equal(t, DefaultCriteria(), criteria)
}

func TestResolveCriteriaOverrides(t *testing.T) {
	oslo, err := time.LoadLocation("Europe/Oslo")
	require.NoError(t, err)
	clock := chrono.FixedImpl{At: time.Date(2024, time.March, 10, 21, 30, 0, 0, oslo)}
	show := true
	include := false

	criteria, err := ResolveCriteria(config.SearchConfig{
		Locations:           []config.LocationConfig{{Parent: "Oslo", Children: []string{"Sentrum"}}},
		AvailableWithinDays: 5,
		AvailableMaxDate:    "2030-01-01",
		ResidenceCategories: []string{"hybel"},
		Offset:              20,
		PageSize:            50,
		ShowUnavailable:     &show,
		IncludeFilterCounts: &include,
	}, clock)
	require.NoError(t, err)

	require.Equal(t, []Location{{Parent: "Oslo", Children: []string{"Sentrum"}}}, criteria.Locations)
	require.True(t, criteria.AvailableMaxDate.Equal(time.Date(2024, time.March, 15, 0, 0, 0, 0, oslo)))
	require.Equal(t, []string{"hybel"}, criteria.ResidenceCategories)
	require.Equal(t, 20, criteria.Offset)
	require.Equal(t, 50, criteria.PageSize)
	require.True(t, criteria.ShowUnavailable)
	require.False(t, criteria.IncludeFilterCounts)

	// 2024-03-15T00:00 in Oslo is the day before in UTC
	body := BuildQuery(criteria)
	require.Equal(t, "2024-03-14T23:00:00.000Z", body.Variables.Input.AvailableMaxDate)
}

func TestResolveCriteriaMaxDate(t *testing.T) {
	clock := chrono.FixedImpl{At: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)}

	criteria, err := ResolveCriteria(config.SearchConfig{AvailableMaxDate: "2024-02-01"}, clock)
	require.NoError(t, err)
	require.Equal(t, "2024-02-01T00:00:00.000Z", BuildQuery(criteria).Variables.Input.AvailableMaxDate)

	criteria, err = ResolveCriteria(config.SearchConfig{AvailableMaxDate: "2024-02-01T12:00:00+01:00"}, clock)
	require.NoError(t, err)
	require.Equal(t, "2024-02-01T11:00:00.000Z", BuildQuery(criteria).Variables.Input.AvailableMaxDate)
}

func TestResolveCriteriaInvalid(t *testing.T) {
	clock := chrono.FixedImpl{At: time.Now()}

	table := []struct {
		search config.SearchConfig
		key    string
	}{
		{search: config.SearchConfig{AvailableMaxDate: "next week"}, key: "search.available_max_date"},
		{search: config.SearchConfig{AvailableWithinDays: -1}, key: "search.available_within_days"},
		{search: config.SearchConfig{Locations: []config.LocationConfig{{Children: []string{"x"}}}}, key: "search.locations[0].parent"},
		{search: config.SearchConfig{PageSize: -3}, key: "search.page_size"},
		{search: config.SearchConfig{Offset: -1}, key: "search.offset"},
	}

	for _, row := range table {
		t.Run(row.key, func(t *testing.T) {
			_, err := ResolveCriteria(row.search, clock)
			var target *config.ConfigurationError
			require.ErrorAs(t, err, &target)
			require.Equal(t, row.key, target.Key)
		})
	}
}
