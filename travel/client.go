package travel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	auth "github.com/goliatone/go-travel-auth"
)

const (
	PathTrips         = "/trips"
	PathAddTrip       = "/add-trip"
	PathUpdateTrip    = "/update-trip/%s"
	PathDeleteTrip    = "/delete-trip/%s"
	PathGenerateTrip  = "/generate-trip"
	PathGetBuses      = "/get-buses"
	PathVehicles      = "/vehicles"
	PathTripDetails   = "/trips/%s"
	PathDraftTrips    = "/trips/drafts"
	PathApproveTrip   = "/trips/%s/approve"
	PathDisapprove    = "/trips/%s/disapprove"
	PathTripGenerator = "/tripgeneration/generate"
)

// Client is the typed travel API. Every call goes through the gateway and
// fails with the gateway error taxonomy.
type Client struct {
	gateway *auth.Gateway
}

// NewClient creates a travel API client
func NewClient(gateway *auth.Gateway) *Client {
	return &Client{gateway: gateway}
}

// WithSession binds the client to a request scoped store and navigator
func (c *Client) WithSession(store auth.CredentialStore, navigator auth.Navigator) *Client {
	return &Client{gateway: c.gateway.WithSession(store, navigator)}
}

func (c *Client) Trips(ctx context.Context) ([]Trip, error) {
	var trips []Trip
	if err := c.gateway.JSON(ctx, http.MethodGet, PathTrips, nil, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

func (c *Client) Trip(ctx context.Context, id string) (map[string]any, error) {
	out := map[string]any{}
	if err := c.gateway.JSON(ctx, http.MethodGet, fmt.Sprintf(PathTripDetails, url.PathEscape(id)), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddTrip(ctx context.Context, trip Trip) error {
	return c.gateway.JSON(ctx, http.MethodPost, PathAddTrip, trip, nil)
}

// UpdateTrip sends a partial update, fields holds only what changed
func (c *Client) UpdateTrip(ctx context.Context, id string, fields map[string]any) (map[string]any, error) {
	out := map[string]any{}
	if err := c.gateway.JSON(ctx, http.MethodPut, fmt.Sprintf(PathUpdateTrip, url.PathEscape(id)), fields, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteTrip(ctx context.Context, id string) error {
	return c.gateway.JSON(ctx, http.MethodDelete, fmt.Sprintf(PathDeleteTrip, url.PathEscape(id)), nil, nil)
}

func (c *Client) GenerateTrip(ctx context.Context, trip Trip) (map[string]any, error) {
	out := map[string]any{}
	if err := c.gateway.JSON(ctx, http.MethodPost, PathGenerateTrip, trip, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateItinerary asks the planner for a full itinerary. The planner
// endpoint runs without the credential pre-flight, a 401 is still handled.
func (c *Client) GenerateItinerary(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	out := &GenerateResponse{}
	if err := c.gateway.JSON(ctx, http.MethodPost, PathTripGenerator, req, out, auth.SkipAuthCheck()); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Buses(ctx context.Context) ([]Bus, error) {
	var buses []Bus
	if err := c.gateway.JSON(ctx, http.MethodGet, PathGetBuses, nil, &buses); err != nil {
		return nil, err
	}
	return buses, nil
}

func (c *Client) Vehicles(ctx context.Context) ([]Vehicle, error) {
	var vehicles []Vehicle
	if err := c.gateway.JSON(ctx, http.MethodGet, PathVehicles, nil, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (c *Client) AddVehicle(ctx context.Context, vehicle Vehicle) (*CreateResponse, error) {
	if err := vehicle.Validate(); err != nil {
		return nil, err
	}
	out := &CreateResponse{}
	if err := c.gateway.JSON(ctx, http.MethodPost, PathVehicles, vehicle, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DraftTrips(ctx context.Context) ([]DraftTrip, error) {
	var drafts []DraftTrip
	if err := c.gateway.JSON(ctx, http.MethodGet, PathDraftTrips, nil, &drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

// ApproveTrip publishes a draft, feedback is optional
func (c *Client) ApproveTrip(ctx context.Context, id, feedback string) error {
	return c.review(ctx, PathApproveTrip, id, feedback)
}

// DisapproveTrip rejects a draft, feedback is optional
func (c *Client) DisapproveTrip(ctx context.Context, id, feedback string) error {
	return c.review(ctx, PathDisapprove, id, feedback)
}

func (c *Client) review(ctx context.Context, pattern, id, feedback string) error {
	var body any
	if feedback != "" {
		body = feedbackMessage{Feedback: feedback}
	}
	return c.gateway.JSON(ctx, http.MethodPost, fmt.Sprintf(pattern, url.PathEscape(id)), body, nil)
}
