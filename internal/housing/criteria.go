package housing

import (
	"fmt"
	"time"

	"housing-notifier/internal/components/chrono"
	"housing-notifier/internal/config"
)

// ResolveCriteria applies the configured search on top of DefaultCriteria.
func ResolveCriteria(search config.SearchConfig, clock chrono.API) (SearchCriteria, error) {
	criteria := DefaultCriteria()

	if len(search.Locations) > 0 {
		criteria.Locations = make([]Location, len(search.Locations))
		for i, l := range search.Locations {
			if l.Parent == "" {
				return SearchCriteria{}, &config.ConfigurationError{
					Key: fmt.Sprintf("search.locations[%d].parent", i),
				}
			}
			criteria.Locations[i] = Location{Parent: l.Parent, Children: l.Children}
		}
	}

	switch {
	case search.AvailableWithinDays < 0:
		return SearchCriteria{}, &config.ConfigurationError{
			Key:    "search.available_within_days",
			Reason: "must not be negative",
		}
	case search.AvailableWithinDays > 0:
		now := clock.Now().In(clock.Location())
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, clock.Location())
		criteria.AvailableMaxDate = today.AddDate(0, 0, search.AvailableWithinDays)
	case search.AvailableMaxDate != "":
		date, err := parseDate(search.AvailableMaxDate, clock.Location())
		if err != nil {
			return SearchCriteria{}, &config.ConfigurationError{
				Key:    "search.available_max_date",
				Reason: err.Error(),
			}
		}
		criteria.AvailableMaxDate = date
	}

	if len(search.ResidenceCategories) > 0 {
		criteria.ResidenceCategories = search.ResidenceCategories
	}
	if search.Offset < 0 {
		return SearchCriteria{}, &config.ConfigurationError{Key: "search.offset", Reason: "must not be negative"}
	}
	if search.Offset > 0 {
		criteria.Offset = search.Offset
	}
	if search.PageSize < 0 {
		return SearchCriteria{}, &config.ConfigurationError{Key: "search.page_size", Reason: "must not be negative"}
	}
	if search.PageSize > 0 {
		criteria.PageSize = search.PageSize
	}
	if search.ShowUnavailable != nil {
		criteria.ShowUnavailable = *search.ShowUnavailable
	}
	if search.IncludeFilterCounts != nil {
		criteria.IncludeFilterCounts = *search.IncludeFilterCounts
	}

	return criteria, nil
}

func parseDate(value string, location *time.Location) (time.Time, error) {
	date, err := time.Parse(time.RFC3339, value)
	if err == nil {
		return date, nil
	}
	date, err = time.ParseInLocation(time.DateOnly, value, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither RFC3339 nor YYYY-MM-DD", value)
	}
	return date, nil
}
