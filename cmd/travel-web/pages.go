package main

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"

	auth "github.com/goliatone/go-travel-auth"
	"github.com/goliatone/go-travel-auth/travel"
)

// Pages renders the travel pages. Every page runs behind the route table
// guard, API calls go through the request scoped session.
type Pages struct {
	cfg    auth.Config
	client *travel.Client
	logger auth.Logger
}

func (p *Pages) Mount(app router.Router[*fiber.App], table *auth.RouteTable) {
	auth.Mount(app, table, map[string]router.HandlerFunc{
		"buses":          p.BusesShow,
		"trips":          p.TripsShow,
		"trip-details":   p.TripDetailsShow,
		"trip-generator": p.TripGeneratorShow,
		"trip-review":    p.TripReviewShow,
	})

	app.Post(table.Path("buses"), p.BusesCreate, table.Guard("buses")).
		SetName("buses.post")
	app.Post(table.Path("trip-generator"), p.TripGeneratorCreate, table.Guard("trip-generator")).
		SetName("trip-generator.post")
	app.Post(table.Path("trip-review")+"/:id/:verdict", p.TripReviewCreate, table.Guard("trip-review")).
		SetName("trip-review.post")
}

func (p *Pages) session(ctx router.Context) *travel.Client {
	store, navigator := auth.RequestSession(ctx, p.cfg)
	return p.client.WithSession(store, navigator)
}

func (p *Pages) render(ctx router.Context, view string, data router.ViewContext) error {
	return ctx.Render(view, auth.MergeTemplateData(ctx, p.cfg, data))
}

func (p *Pages) BusesShow(ctx router.Context) error {
	client := p.session(ctx)

	vehicles, err := client.Vehicles(ctx.Context())
	if err != nil {
		p.logger.Error("failed to load vehicles", "error", err)
		return p.render(ctx, "buses", router.ViewContext{
			"error": auth.ErrorMessage(err),
		})
	}

	return p.render(ctx, "buses", router.ViewContext{
		"vehicles": vehicles,
	})
}

type vehicleForm struct {
	Model                string  `form:"model"`
	SeatCapacity         int     `form:"seat_capacity"`
	FuelConsumptionPerKm float64 `form:"fuel_consumption_per_km"`
	IsAvailable          bool    `form:"is_available"`
}

func (p *Pages) BusesCreate(ctx router.Context) error {
	form := new(vehicleForm)
	if err := ctx.Bind(form); err != nil {
		return p.render(ctx, "buses", router.ViewContext{
			"error": "Failed to parse form",
		})
	}

	resp, err := p.session(ctx).AddVehicle(ctx.Context(), travel.Vehicle{
		Model:                strings.TrimSpace(form.Model),
		SeatCapacity:         form.SeatCapacity,
		FuelConsumptionPerKm: form.FuelConsumptionPerKm,
		IsAvailable:          form.IsAvailable,
	})
	if err != nil {
		return p.render(ctx, "buses", router.ViewContext{
			"error":  auth.ErrorMessage(err),
			"record": form,
		})
	}

	p.logger.Info("vehicle created", "vehicle_id", resp.VehicleID)

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Bus added successfully!",
	}).Redirect(p.cfg.GetLandingRoute(), fiber.StatusSeeOther)
}

func (p *Pages) TripsShow(ctx router.Context) error {
	trips, err := p.session(ctx).Trips(ctx.Context())
	if err != nil {
		p.logger.Error("failed to load trips", "error", err)
		return p.render(ctx, "trips", router.ViewContext{
			"error": auth.ErrorMessage(err),
		})
	}
	return p.render(ctx, "trips", router.ViewContext{
		"trips": trips,
	})
}

func (p *Pages) TripDetailsShow(ctx router.Context) error {
	id := ctx.Param("id", "")
	trip, err := p.session(ctx).Trip(ctx.Context(), id)
	if err != nil {
		return p.render(ctx, "trip_details", router.ViewContext{
			"error": auth.ErrorMessage(err),
		})
	}
	return p.render(ctx, "trip_details", router.ViewContext{
		"trip": trip,
	})
}

func (p *Pages) TripGeneratorShow(ctx router.Context) error {
	return p.render(ctx, "trip_generator", router.ViewContext{
		"record": nil,
	})
}

type generatorForm struct {
	StartCity       string  `form:"start_city"`
	DestinationCity string  `form:"destination_city"`
	Stops           string  `form:"stops"`
	PassengerCount  int     `form:"passenger_count"`
	TripType        string  `form:"trip_type"`
	Preferences     string  `form:"preferences"`
	Budget          float64 `form:"budget"`
	StartDate       string  `form:"start_date"`
	EndDate         string  `form:"end_date"`
}

func (f generatorForm) request() (travel.GenerateRequest, error) {
	start, err := time.Parse(time.DateOnly, f.StartDate)
	if err != nil {
		return travel.GenerateRequest{}, err
	}
	end, err := time.Parse(time.DateOnly, f.EndDate)
	if err != nil {
		return travel.GenerateRequest{}, err
	}

	activities := []string{}
	if f.TripType != "" {
		activities = append(activities, f.TripType)
	}
	activities = append(activities, splitList(f.Preferences)...)

	return travel.GenerateRequest{
		StartCity:         f.StartCity,
		DestinationCity:   f.DestinationCity,
		Stops:             splitList(f.Stops),
		PassengerCount:    f.PassengerCount,
		DesiredActivities: activities,
		NumberOfDays:      travel.NumberOfDays(start, end),
		Budget:            f.Budget,
		StartDate:         start,
	}, nil
}

func (p *Pages) TripGeneratorCreate(ctx router.Context) error {
	form := new(generatorForm)
	if err := ctx.Bind(form); err != nil {
		return p.render(ctx, "trip_generator", router.ViewContext{
			"error": "Failed to parse form",
		})
	}

	req, err := form.request()
	if err != nil {
		return p.render(ctx, "trip_generator", router.ViewContext{
			"error":  "Please provide valid dates",
			"record": form,
		})
	}

	resp, err := p.session(ctx).GenerateItinerary(ctx.Context(), req)
	if err != nil {
		return p.render(ctx, "trip_generator", router.ViewContext{
			"error":  auth.ErrorMessage(err),
			"record": form,
		})
	}

	location := "/trips"
	if id := resp.Identifier(); id != "" {
		location = "/trips/" + id
	}
	return ctx.Redirect(location, fiber.StatusSeeOther)
}

func (p *Pages) TripReviewShow(ctx router.Context) error {
	drafts, err := p.session(ctx).DraftTrips(ctx.Context())
	if err != nil {
		return p.render(ctx, "trip_review", router.ViewContext{
			"error": auth.ErrorMessage(err),
		})
	}
	return p.render(ctx, "trip_review", router.ViewContext{
		"drafts": drafts,
	})
}

type reviewForm struct {
	Feedback string `form:"feedback"`
}

func (p *Pages) TripReviewCreate(ctx router.Context) error {
	id := ctx.Param("id", "")
	form := new(reviewForm)
	if err := ctx.Bind(form); err != nil {
		return p.render(ctx, "trip_review", router.ViewContext{
			"error": "Failed to parse form",
		})
	}

	client := p.session(ctx)
	var err error
	switch ctx.Param("verdict", "") {
	case "approve":
		err = client.ApproveTrip(ctx.Context(), id, strings.TrimSpace(form.Feedback))
	case "disapprove":
		err = client.DisapproveTrip(ctx.Context(), id, strings.TrimSpace(form.Feedback))
	default:
		return ctx.Status(fiber.StatusNotFound).SendString("unknown verdict")
	}

	if err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message": auth.ErrorMessage(err),
		}).Redirect("/admin/trips", fiber.StatusSeeOther)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Trip reviewed",
	}).Redirect("/admin/trips", fiber.StatusSeeOther)
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
