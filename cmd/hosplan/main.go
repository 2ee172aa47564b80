package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
	"trip-planner-service/internal/adapters/routing"
	"trip-planner-service/internal/adapters/weather"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/cli"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/logging"
	"trip-planner-service/internal/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose bool
	pretty  bool
	timeout time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hosplan",
	Short: "Plan hours-of-service compliant driving schedules",
	Long: `hosplan expands planned drive legs and duty stops into a timeline that
respects the 30-minute break, 11-hour driving, 14-hour window and
70-hour/8-day cycle rules, then splits it into daily log records.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		var err error
		logger, err = logging.New("hosplan", level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the duty-rule engine on a schedule file",
	Long: `Reads a YAML or JSON schedule file with start_time, cycle_hours_used and
activities (status, duration_hours, miles, note) and prints the compliant
segments, daily logs and warnings as JSON.`,
	Example: `  hosplan schedule -f trip.yaml
  cat trip.json | hosplan schedule -f -`,
	RunE: runSchedule,
}

var tripCmd = &cobra.Command{
	Use:   "trip",
	Short: "Route and plan a start → pickup → dropoff trip",
	Example: `  hosplan trip --from 40.7128,-74.0060 --pickup 40.7489,-73.9680 --to 34.0522,-118.2437
  hosplan trip --from "New York, NY" --pickup "Queens, NY" --to "Los Angeles, CA" --pretty`,
	RunE: runTrip,
}

var (
	scheduleFile   string
	cycleHours     float64
	startOverride  string
	fromFlag       string
	pickupFlag     string
	toFlag         string
	withoutWeather bool
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout")

	scheduleCmd.Flags().StringVarP(&scheduleFile, "file", "f", "", "Schedule file (YAML or JSON, - for stdin)")
	scheduleCmd.Flags().Float64Var(&cycleHours, "cycle-hours", -1, "Override cycle_hours_used from the file")
	scheduleCmd.Flags().StringVar(&startOverride, "start", "", "Override start_time from the file (RFC 3339)")
	_ = scheduleCmd.MarkFlagRequired("file")

	tripCmd.Flags().StringVar(&fromFlag, "from", "", "Start location as lat,lng or an address")
	tripCmd.Flags().StringVar(&pickupFlag, "pickup", "", "Pickup location as lat,lng or an address")
	tripCmd.Flags().StringVar(&toFlag, "to", "", "Dropoff location as lat,lng or an address")
	tripCmd.Flags().Float64Var(&cycleHours, "cycle-hours", 0, "Cycle hours already used (0-70)")
	tripCmd.Flags().StringVar(&startOverride, "start", "", "Departure time (RFC 3339), default 08:00 UTC today")
	tripCmd.Flags().BoolVar(&withoutWeather, "no-weather", false, "Skip weather lookups")
	_ = tripCmd.MarkFlagRequired("from")
	_ = tripCmd.MarkFlagRequired("pickup")
	_ = tripCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(scheduleCmd, tripCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSchedule(cmd *cobra.Command, args []string) error {
	sched, err := cli.LoadScheduleFile(scheduleFile)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("cycle-hours") {
		sched.CycleHoursUsed = cycleHours
	}
	if startOverride != "" {
		if sched.StartTime, err = domain.ParseTimestamp("start", startOverride); err != nil {
			return err
		}
	}

	segments, warnings, err := services.RunDutyRuleEngine(sched.Activities, sched.CycleHoursUsed, sched.StartTime)
	if err != nil {
		return err
	}

	logs, err := services.RunDailyLogPartitioner(segments)
	if err != nil {
		return err
	}

	logger.Debug("schedule expanded",
		zap.Int("activities", len(sched.Activities)),
		zap.Int("segments", len(segments)),
		zap.Int("days", len(logs)),
	)

	return writeOutput(cmd.OutOrStdout(), dto.NewScheduleResponse(segments, logs, warnings))
}

func runTrip(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	req := services.PlanTripRequest{CycleHoursUsed: cycleHours}
	for _, loc := range []struct {
		field string
		raw   string
		dst   *domain.Location
	}{
		{"from", fromFlag, &req.Start},
		{"pickup", pickupFlag, &req.Pickup},
		{"to", toFlag, &req.Dropoff},
	} {
		l, err := cli.ParseLocation(loc.field, loc.raw)
		if err != nil {
			return err
		}
		*loc.dst = l
	}

	if startOverride != "" {
		t, err := domain.ParseTimestamp("start", startOverride)
		if err != nil {
			return err
		}
		req.StartTime = &t
	}

	provider, err := routing.NewOSRMRouteProvider(cfg.OSRMBaseURL)
	if err != nil {
		return err
	}
	planner := &services.TripPlanner{Routes: provider, Log: logger}

	if cfg.GeocoderEnabled {
		geocoder, err := routing.NewNominatimGeocoder(cfg.GeocoderBaseURL, cfg.GeocoderUserAgent)
		if err != nil {
			return err
		}
		planner.Geocoder = geocoder
	}

	if !withoutWeather && cfg.WeatherEnabled {
		wp, err := weather.NewOpenMeteoProvider(cfg.WeatherBaseURL, nil)
		if err != nil {
			return err
		}
		planner.Weather = wp
	}

	plan, err := planner.PlanTrip(ctx, req)
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), dto.NewTripPlanResponse(plan))
}

func writeOutput(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
