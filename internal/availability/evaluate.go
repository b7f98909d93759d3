package availability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type Status int

const (
	NoneAvailable Status = iota
	Available
)

func (s Status) String() string {
	if s == Available {
		return "HOUSING_RENTAL_OBJECTS_AVAILABLE"
	}
	return "NO_HOUSING_RENTAL_OBJECTS_AVAILABLE"
}

// RentalUnit is one housing object returned by the search.
type RentalUnit struct {
	ID                   string  `json:"rentalObjectId"`
	IsAvailable          bool    `json:"isAvailable"`
	AvailableFrom        *string `json:"availableFrom"`
	AvailableTo          *string `json:"availableTo"`
	HasActiveReservation bool    `json:"hasActiveReservation"`
}

// Result is the classification of a single response.
type Result struct {
	Status Status
	// Units keeps the order of the response.
	Units []RentalUnit
	// TotalCount is nil when the response did not carry a usable totalCount.
	TotalCount *int
}

// Detail is the display record of an available unit.
type Detail struct {
	ID            string
	AvailableFrom *string
	AvailableTo   *string
}

// Details returns the units whose own availability flag is set, in response
// order. It is independent of Status: a result can be Available with no
// details when every returned unit is flagged unavailable.
func (r Result) Details() []Detail {
	details := []Detail{}
	for _, u := range r.Units {
		if !u.IsAvailable {
			continue
		}
		details = append(details, Detail{
			ID:            u.ID,
			AvailableFrom: u.AvailableFrom,
			AvailableTo:   u.AvailableTo,
		})
	}
	return details
}

// MalformedResponseError is returned when the response does not have the
// data.housings.housingRentalObjects shape.
type MalformedResponseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response at %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed response at %q: %s", e.Path, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

const (
	pathData    = "data"
	pathHousing = "data.housings"
	pathUnits   = "data.housings.housingRentalObjects"
)

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

type housingsData struct {
	Housings json.RawMessage `json:"housings"`
}

type housingsObject struct {
	HousingRentalObjects json.RawMessage `json:"housingRentalObjects"`
	TotalCount           json.RawMessage `json:"totalCount"`
}

type graphqlError struct {
	Message string `json:"message"`
}

func absent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// graphqlErrors extracts error messages on a best-effort basis, a response
// without data usually explains why in its errors list.
func graphqlErrors(raw json.RawMessage) string {
	if absent(raw) {
		return ""
	}
	var errs []graphqlError
	if json.Unmarshal(raw, &errs) != nil {
		return ""
	}
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Message != "" {
			messages = append(messages, e.Message)
		}
	}
	return strings.Join(messages, "; ")
}

func missing(path string, errs string) *MalformedResponseError {
	reason := "missing"
	if errs != "" {
		reason = fmt.Sprintf("missing (graphql errors: %s)", errs)
	}
	return &MalformedResponseError{Path: path, Reason: reason}
}

// rawUnit has pointer fields so that absent required fields can be told
// apart from zero values.
type rawUnit struct {
	ID                   *string `json:"rentalObjectId"`
	IsAvailable          *bool   `json:"isAvailable"`
	AvailableFrom        *string `json:"availableFrom"`
	AvailableTo          *string `json:"availableTo"`
	HasActiveReservation *bool   `json:"hasActiveReservation"`
}

func decodeUnit(element json.RawMessage, path string) (RentalUnit, error) {
	if absent(element) {
		return RentalUnit{}, &MalformedResponseError{Path: path, Reason: "null rental object"}
	}
	var raw rawUnit
	err := json.Unmarshal(element, &raw)
	if err != nil {
		return RentalUnit{}, &MalformedResponseError{Path: path, Reason: "not a rental object", Err: err}
	}
	if raw.ID == nil {
		return RentalUnit{}, &MalformedResponseError{Path: path, Reason: "missing rentalObjectId"}
	}
	if raw.IsAvailable == nil {
		return RentalUnit{}, &MalformedResponseError{Path: path, Reason: "missing isAvailable"}
	}

	unit := RentalUnit{
		ID:            *raw.ID,
		IsAvailable:   *raw.IsAvailable,
		AvailableFrom: raw.AvailableFrom,
		AvailableTo:   raw.AvailableTo,
	}
	if raw.HasActiveReservation != nil {
		unit.HasActiveReservation = *raw.HasActiveReservation
	}
	return unit, nil
}

// Evaluate classifies a raw housing API response. The status is Available
// iff housingRentalObjects is non-empty, regardless of the units' own
// isAvailable flags.
func Evaluate(raw []byte) (Result, error) {
	var env envelope
	err := json.Unmarshal(raw, &env)
	if err != nil {
		return Result{}, &MalformedResponseError{Reason: "not a json object", Err: err}
	}
	errs := graphqlErrors(env.Errors)
	if absent(env.Data) {
		return Result{}, missing(pathData, errs)
	}

	var data housingsData
	err = json.Unmarshal(env.Data, &data)
	if err != nil {
		return Result{}, &MalformedResponseError{Path: pathData, Reason: "not an object", Err: err}
	}
	if absent(data.Housings) {
		return Result{}, missing(pathHousing, errs)
	}

	var housings housingsObject
	err = json.Unmarshal(data.Housings, &housings)
	if err != nil {
		return Result{}, &MalformedResponseError{Path: pathHousing, Reason: "not an object", Err: err}
	}
	if absent(housings.HousingRentalObjects) {
		return Result{}, missing(pathUnits, errs)
	}

	var elements []json.RawMessage
	err = json.Unmarshal(housings.HousingRentalObjects, &elements)
	if err != nil {
		return Result{}, &MalformedResponseError{Path: pathUnits, Reason: "not a list", Err: err}
	}
	units := make([]RentalUnit, len(elements))
	for i, element := range elements {
		units[i], err = decodeUnit(element, fmt.Sprintf("%s[%d]", pathUnits, i))
		if err != nil {
			return Result{}, err
		}
	}

	result := Result{
		Status: NoneAvailable,
		Units:  units,
	}
	if len(units) > 0 {
		result.Status = Available
	}

	var total int
	if !absent(housings.TotalCount) && json.Unmarshal(housings.TotalCount, &total) == nil {
		result.TotalCount = &total
	}

	return result, nil
}
