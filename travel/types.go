package travel

import (
	"math"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Trip is a planned trip as listed by the API
type Trip struct {
	ID             string     `json:"id"`
	Destination    string     `json:"destination"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	NumberOfPeople int        `json:"numberOfPeople"`
	Budget         *float64   `json:"budget,omitempty"`
	TripType       string     `json:"tripType"`
	Preferences    *string    `json:"preferences,omitempty"`
	CreatedAt      *time.Time `json:"createdAt"`
	Status         string     `json:"status,omitempty"`
	AdminFeedback  *string    `json:"adminFeedback,omitempty"`
}

// DraftTrip is a trip waiting for admin review
type DraftTrip struct {
	Trip
	StartCity    string `json:"startCity"`
	CreatorName  string `json:"creatorName"`
	CreatorEmail string `json:"creatorEmail"`
}

// Bus is a fleet entry returned by /get-buses
type Bus struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Capacity    int        `json:"capacity"`
	PlateNumber string     `json:"plateNumber"`
	CreatedAt   *time.Time `json:"createdAt"`
}

// Vehicle is a fleet entry managed through /vehicles
type Vehicle struct {
	VehicleID            int     `json:"vehicleId,omitempty"`
	Model                string  `json:"model"`
	SeatCapacity         int     `json:"seatCapacity"`
	FuelConsumptionPerKm float64 `json:"fuelConsumptionPerKm"`
	IsAvailable          bool    `json:"isAvailable"`
}

// Validate will run validation rules
func (v Vehicle) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.Model, validation.Required.Error("model is required")),
		validation.Field(&v.SeatCapacity,
			validation.Required.Error("seat capacity must be greater than 0"),
			validation.Min(1).Error("seat capacity must be greater than 0")),
		validation.Field(&v.FuelConsumptionPerKm,
			validation.Required.Error("fuel consumption must be greater than 0"),
			validation.Min(0.000001).Error("fuel consumption must be greater than 0")),
	)
}

// GenerateRequest asks the API to plan a trip
type GenerateRequest struct {
	StartCity         string    `json:"startCity"`
	DestinationCity   string    `json:"destinationCity"`
	Stops             []string  `json:"stops"`
	PassengerCount    int       `json:"passengerCount"`
	DesiredActivities []string  `json:"desiredActivities"`
	NumberOfDays      int       `json:"numberOfDays"`
	Budget            float64   `json:"budget"`
	StartDate         time.Time `json:"startDate"`
}

// Validate will run validation rules
func (r GenerateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StartCity, validation.Required),
		validation.Field(&r.DestinationCity, validation.Required),
		validation.Field(&r.PassengerCount, validation.Required, validation.Min(1)),
		validation.Field(&r.NumberOfDays,
			validation.Required.Error("invalid date range"),
			validation.Min(1).Error("invalid date range"),
		),
	)
}

// NumberOfDays counts both ends of the range, a same day trip is one day
func NumberOfDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours()/24)) + 1
}

// GenerateResponse identifies the generated trip. Older API versions
// answer with id instead of tripId.
type GenerateResponse struct {
	TripID string `json:"tripId,omitempty"`
	ID     string `json:"id,omitempty"`
}

// Identifier returns whichever id the API populated
func (r GenerateResponse) Identifier() string {
	if r.TripID != "" {
		return r.TripID
	}
	return r.ID
}

// CreateResponse is the acknowledgement of a create call
type CreateResponse struct {
	Success   bool   `json:"success"`
	VehicleID int    `json:"vehicleId,omitempty"`
	Message   string `json:"message"`
}

type feedbackMessage struct {
	Feedback string `json:"feedback"`
}
