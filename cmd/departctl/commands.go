package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/departwise/departwise/internal/api/models"
	"github.com/departwise/departwise/internal/planner"
	"github.com/departwise/departwise/internal/timewindow"
)

// windowFlags are the hour window flags of the window-based subcommands.
type windowFlags struct {
	start int
	end   int
	date  string
}

func (f *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.start, "start", models.DefaultStartHour, "first departure hour (0-23)")
	cmd.Flags().IntVar(&f.end, "end", models.DefaultEndHour, "last departure hour (0-23); below --start the window runs to 23")
	cmd.Flags().StringVar(&f.date, "date", "", "target date as YYYY-MM-DD (default: next occurrence of each hour)")
}

func (f *windowFlags) window() (timewindow.TimeWindow, error) {
	fields := models.WindowFields{StartHour: &f.start, EndHour: &f.end, Date: f.date}
	if errs := fields.Validate(); len(errs) > 0 {
		return timewindow.TimeWindow{}, fmt.Errorf("--%s %s", flagName(errs[0].Field), errs[0].Message)
	}
	return fields.Window()
}

func flagName(field string) string {
	switch field {
	case "start_hour":
		return "start"
	case "end_hour":
		return "end"
	default:
		return field
	}
}

func placeFlags(cmd *cobra.Command, origin, destination *string) {
	cmd.Flags().StringVar(origin, "from", "", "origin place name")
	cmd.Flags().StringVar(destination, "to", "", "destination place name")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
}

func newRouteCmd(opts *options) *cobra.Command {
	var (
		origin, destination string
		departAt            string
		alternative         bool
	)

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Summarize the route between two places",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := planner.RouteRequest{Origin: origin, Destination: destination, Alternative: alternative}
			if departAt != "" {
				t, err := time.Parse(time.RFC3339, departAt)
				if err != nil {
					return fmt.Errorf("--depart-at must be RFC 3339: %w", err)
				}
				req.DepartAt = &t
			}
			return run(cmd, opts, func(ctx context.Context, svc *planner.Service) (any, error) {
				result, err := svc.Route(ctx, req)
				if err != nil {
					return nil, err
				}
				return models.NewRouteComputeResponse(result), nil
			})
		},
	}
	placeFlags(cmd, &origin, &destination)
	cmd.Flags().StringVar(&departAt, "depart-at", "", "departure instant as RFC 3339 (default: now)")
	cmd.Flags().BoolVar(&alternative, "alternative", false, "also return one alternative route")
	return cmd
}

func newBestCmd(opts *options) *cobra.Command {
	var (
		origin, destination string
		wf                  windowFlags
	)

	cmd := &cobra.Command{
		Use:   "best",
		Short: "Find the departure hour with the lowest predicted travel time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			window, err := wf.window()
			if err != nil {
				return err
			}
			return run(cmd, opts, func(ctx context.Context, svc *planner.Service) (any, error) {
				result, err := svc.Scan(ctx, planner.ScanRequest{Origin: origin, Destination: destination, Window: window})
				if err != nil {
					return nil, err
				}
				return models.NewBestDepartureResponse(result), nil
			})
		},
	}
	placeFlags(cmd, &origin, &destination)
	wf.register(cmd)
	return cmd
}

func newPlanCmd(opts *options) *cobra.Command {
	var (
		origin, destination string
		wf                  windowFlags
		efficiency          float64
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Recommend a departure time with route, fuel and traffic details",
		RunE: func(cmd *cobra.Command, _ []string) error {
			window, err := wf.window()
			if err != nil {
				return err
			}
			req := planner.PlanRequest{Origin: origin, Destination: destination, Window: window}
			if cmd.Flags().Changed("efficiency") {
				if efficiency <= 0 {
					return fmt.Errorf("--efficiency must be positive")
				}
				req.Efficiency = &efficiency
			}
			return run(cmd, opts, func(ctx context.Context, svc *planner.Service) (any, error) {
				plan, err := svc.SmartPlan(ctx, req)
				if err != nil {
					return nil, err
				}
				return models.NewSmartPlanResponse(plan), nil
			})
		},
	}
	placeFlags(cmd, &origin, &destination)
	wf.register(cmd)
	cmd.Flags().Float64Var(&efficiency, "efficiency", planner.DefaultVehicleEfficiency, "vehicle efficiency in km per unit of fuel")
	return cmd
}

func newRiskCmd(opts *options) *cobra.Command {
	var (
		origin, destination string
		wf                  windowFlags
	)

	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Score late-arrival risk for every hour of a window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			window, err := wf.window()
			if err != nil {
				return err
			}
			return run(cmd, opts, func(ctx context.Context, svc *planner.Service) (any, error) {
				curve, err := svc.RiskCurve(ctx, planner.RiskRequest{Origin: origin, Destination: destination, Window: window})
				if err != nil {
					return nil, err
				}
				return models.NewRiskCurve(curve), nil
			})
		},
	}
	placeFlags(cmd, &origin, &destination)
	wf.register(cmd)
	return cmd
}

func newWeatherCmd(opts *options) *cobra.Command {
	var (
		destination string
		wf          windowFlags
	)

	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Summarize the destination weather over a window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			window, err := wf.window()
			if err != nil {
				return err
			}
			return run(cmd, opts, func(ctx context.Context, svc *planner.Service) (any, error) {
				summary, err := svc.Weather(ctx, planner.WeatherRequest{Destination: destination, Window: window})
				if err != nil {
					return nil, err
				}
				return models.NewWeatherWindowResponse(summary), nil
			})
		},
	}
	cmd.Flags().StringVar(&destination, "to", "", "destination place name")
	_ = cmd.MarkFlagRequired("to")
	wf.register(cmd)
	return cmd
}
