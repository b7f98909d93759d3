package housing

import (
	"time"
)

const OperationName = "GetHousingIds"

const housingIdsQuery = `query GetHousingIds($input: GetHousingsInput!) {
  housings(filter: $input) {
    housingRentalObjects {
      rentalObjectId
      isAvailable
      availableFrom
      availableTo
      hasActiveReservation
      __typename
    }
    filterCounts {
      locations {
        key
        value
        __typename
      }
      residenceCategories {
        key
        value
        __typename
      }
      categories {
        key
        value
        __typename
      }
      notAvailableCount
      __typename
    }
    totalCount
    __typename
  }
}`

// AvailableMaxDateLayout is the timestamp layout the housing API expects,
// ex. 2024-01-07T00:00:00.000Z
const AvailableMaxDateLayout = "2006-01-02T15:04:05.000Z07:00"

type Location struct {
	Parent   string   `json:"parent"`
	Children []string `json:"children"`
}

// SearchCriteria is the filter of a housing search.
type SearchCriteria struct {
	Locations           []Location
	AvailableMaxDate    time.Time
	ResidenceCategories []string
	Offset              int
	PageSize            int
	ShowUnavailable     bool
	IncludeFilterCounts bool
}

// DefaultCriteria returns the search the notifier runs when nothing is configured.
func DefaultCriteria() SearchCriteria {
	return SearchCriteria{
		Locations: []Location{
			{Parent: "Trondheim", Children: []string{}},
		},
		AvailableMaxDate:    time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC),
		ResidenceCategories: []string{"1-roms", "2-roms"},
		Offset:              0,
		PageSize:            10,
		ShowUnavailable:     false,
		IncludeFilterCounts: true,
	}
}

type searchInput struct {
	Location            []Location `json:"location"`
	AvailableMaxDate    string     `json:"availableMaxDate"`
	IncludeFilterCounts bool       `json:"includeFilterCounts"`
	Offset              int        `json:"offset"`
	PageSize            int        `json:"pageSize"`
	ResidenceCategories []string   `json:"residenceCategories"`
	ShowUnavailable     bool       `json:"showUnavailable"`
}

type variables struct {
	Input searchInput `json:"input"`
}

// Request is the GraphQL request body sent to the housing API.
type Request struct {
	OperationName string    `json:"operationName"`
	Query         string    `json:"query"`
	Variables     variables `json:"variables"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// BuildQuery turns criteria into the GetHousingIds request. It has no failure
// modes, empty lists are sent as [] rather than null.
func BuildQuery(criteria SearchCriteria) Request {
	locations := make([]Location, len(criteria.Locations))
	for i, l := range criteria.Locations {
		locations[i] = Location{
			Parent:   l.Parent,
			Children: nonNil(l.Children),
		}
	}

	return Request{
		OperationName: OperationName,
		Query:         housingIdsQuery,
		Variables: variables{
			Input: searchInput{
				Location:            locations,
				AvailableMaxDate:    criteria.AvailableMaxDate.UTC().Format(AvailableMaxDateLayout),
				IncludeFilterCounts: criteria.IncludeFilterCounts,
				Offset:              criteria.Offset,
				PageSize:            criteria.PageSize,
				ResidenceCategories: nonNil(criteria.ResidenceCategories),
				ShowUnavailable:     criteria.ShowUnavailable,
			},
		},
	}
}
