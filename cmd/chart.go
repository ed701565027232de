package main

import (
	"time"

	"github.com/spf13/cobra"

	"saju/internal/adapters/config"
	"saju/internal/domain/chart"
	"saju/pkg/errors"
)

// birthFlags are the per-birth inputs of the chart command
type birthFlags struct {
	date      string
	clock     string
	gender    string
	longitude float64
	trueSolar bool
	dst       bool
	midnight  string
}

var chartFlags birthFlags

// chartCmd computes the report of a single birth
var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Compute the chart of one birth",
	Long: `Compute the full report of one birth.

Omit --time when the birth hour is unknown; the hour pillar is then left
out of every computation. Unset correction flags fall back to the
SAJU_TRUE_SOLAR_TIME, SAJU_APPLY_DST and SAJU_MIDNIGHT_MODE defaults.`,
	Example: `  saju chart --date 1990-05-15 --time 12:00 --gender male
  saju chart --date 2000-01-01 --time 23:30 --gender female --midnight early -o json`,
	Args: cobra.NoArgs,
	RunE: runChart,
}

func init() {
	chartFlags.register(chartCmd)
}

func (f *birthFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Civil birth date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&f.clock, "time", "", "Civil birth time, HH:MM; omit when unknown")
	cmd.Flags().StringVar(&f.gender, "gender", "", "male or female (required)")
	cmd.Flags().Float64Var(&f.longitude, "longitude", 0, "Birthplace longitude in degrees east")
	cmd.Flags().BoolVar(&f.trueSolar, "true-solar", false, "Correct for the birthplace's true solar time")
	cmd.Flags().BoolVar(&f.dst, "dst", false, "Remove historical Korean daylight saving")
	cmd.Flags().StringVar(&f.midnight, "midnight", "", "Midnight handling for 23:xx births: late or early")

	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("gender")
}

func runChart(cmd *cobra.Command, args []string) error {
	b, err := chartFlags.birth(cmd, current.cfg.Engine)
	if err != nil {
		return err
	}

	report, err := current.service.Compute(cmd.Context(), b)
	if err != nil {
		return err
	}

	return write(cmd.OutOrStdout(), outputFormat, report)
}

// birth builds a birth from the parsed flags. Correction flags the user
// did not set take the configured engine defaults.
func (f *birthFlags) birth(cmd *cobra.Command, defaults config.EngineConfig) (chart.Birth, error) {
	date, err := time.Parse("2006-01-02", f.date)
	if err != nil {
		return chart.Birth{}, errors.NewValidationError("date", "must be YYYY-MM-DD", f.date)
	}

	b := chart.Birth{
		Year:             date.Year(),
		Month:            int(date.Month()),
		Day:              date.Day(),
		Gender:           chart.Gender(f.gender),
		UseTrueSolarTime: defaults.UseTrueSolarTime,
		ApplyDST:         defaults.ApplyDST,
		MidnightMode:     chart.MidnightMode(defaults.MidnightMode),
	}

	if f.clock != "" {
		clock, err := time.Parse("15:04", f.clock)
		if err != nil {
			return chart.Birth{}, errors.NewValidationError("time", "must be HH:MM", f.clock)
		}
		b.Hour, b.Minute = clock.Hour(), clock.Minute()
		b.TimeKnown = true
	}

	flags := cmd.Flags()
	if flags.Changed("true-solar") {
		b.UseTrueSolarTime = f.trueSolar
	}
	if flags.Changed("dst") {
		b.ApplyDST = f.dst
	}
	if flags.Changed("midnight") {
		b.MidnightMode = chart.MidnightMode(f.midnight)
	}
	if flags.Changed("longitude") {
		lon := f.longitude
		b.Longitude = &lon
	}

	return b, nil
}
