package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/yegors/co-mag/internal/magnetic"
	"github.com/yegors/co-mag/internal/magtable"
	"github.com/yegors/co-mag/internal/validation"
	"github.com/yegors/co-mag/pkg/logger"
)

// cli holds flags shared by every subcommand
type cli struct {
	ref      validation.Reference
	jsonOut  bool
	logLevel string
}

func newRootCmd(ref validation.Reference) *cobra.Command {
	c := &cli{ref: ref}

	root := &cobra.Command{
		Use:   "magtable",
		Short: "Query the embedded WMM magnetic field tables",
		Long: `Look up magnetic declination, inclination and field strength from
the 10 degree WMM-2020 tables, print raw tables, and compare the tables
against the full spherical harmonic model.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "print JSON instead of text")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log to stderr at this level (debug, info, warn, error)")

	root.AddCommand(c.lookupCmd(), c.gridCmd(), c.validateCmd(), versionCmd())
	return root
}

// service builds a Service with no cache or store
func (c *cli) service() (*magnetic.Service, error) {
	log := logger.NewNop()
	if c.logLevel != "" {
		l, err := logger.New(logger.Config{Level: c.logLevel, Format: "console"})
		if err != nil {
			return nil, err
		}
		log = l
	}
	return magnetic.NewService(c.ref, nil, nil, magnetic.Options{}, log), nil
}

func (c *cli) lookupCmd() *cobra.Command {
	var lat, lon float64
	var units, quantity string

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Print the field at a position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if quantity != "" {
				q, err := magtable.ParseQuantity(quantity)
				if err != nil {
					return err
				}
				v, err := svc.Lookup(q, lat, lon, units)
				if err != nil {
					return err
				}
				if c.jsonOut {
					return writeJSON(out, v)
				}
				_, err = fmt.Fprintf(out, "%s %.6g %s\n", v.Quantity, v.Value, v.Unit)
				return err
			}

			field, err := svc.Field(lat, lon)
			if err != nil {
				return err
			}
			if c.jsonOut {
				return writeJSON(out, field)
			}
			return printField(out, field, units)
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees")
	cmd.Flags().StringVar(&units, "units", "", "units for the angles (rad, deg) or strength (mG, G, T, nT) with --quantity")
	cmd.Flags().StringVarP(&quantity, "quantity", "q", "", "print only this quantity")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func printField(w io.Writer, f *magtable.Field, units string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "position\t%.4f, %.4f\n", f.Latitude, f.Longitude)
	switch strings.ToLower(units) {
	case "rad":
		fmt.Fprintf(tw, "declination\t%.6f rad\n", f.DeclinationRad)
		fmt.Fprintf(tw, "inclination\t%.6f rad\n", f.InclinationRad)
	case "", "deg":
		fmt.Fprintf(tw, "declination\t%.3f deg\n", f.DeclinationDeg)
		fmt.Fprintf(tw, "inclination\t%.3f deg\n", f.InclinationDeg)
	default:
		return fmt.Errorf("unsupported angle units %q", units)
	}
	fmt.Fprintf(tw, "strength\t%.1f mG\n", f.StrengthMilliGauss)
	fmt.Fprintf(tw, "vector\tN %.4f  E %.4f  D %.4f G\n", f.Vector.North, f.Vector.East, f.Vector.Down)
	return tw.Flush()
}

func (c *cli) gridCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "grid <quantity>",
		Short:     "Print a raw table",
		Long:      "Print the stored integer table for declination, inclination or strength, one row per latitude.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"declination", "inclination", "strength"},
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := magtable.ParseQuantity(args[0])
			if err != nil {
				return err
			}
			svc, err := c.service()
			if err != nil {
				return err
			}
			g := svc.Grid(q)
			out := cmd.OutOrStdout()
			if c.jsonOut {
				return writeJSON(out, g)
			}

			fmt.Fprintf(out, "# %s %s epoch %.1f, %s per count %g\n", g.Model, g.Quantity, g.Epoch, g.Unit, g.Scale)
			tw := tabwriter.NewWriter(out, 0, 4, 1, ' ', tabwriter.AlignRight)
			fmt.Fprint(tw, "lat\\lon\t")
			for _, lon := range g.Longitudes {
				fmt.Fprintf(tw, "%g\t", lon)
			}
			fmt.Fprintln(tw)
			for i, lat := range g.Latitudes {
				fmt.Fprintf(tw, "%g\t", lat)
				for _, v := range g.Values[i] {
					fmt.Fprintf(tw, "%d\t", v)
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) validateCmd() *cobra.Command {
	opts := validation.DefaultOptions()
	var date string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Compare the tables against the full model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date != "" {
				t, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: use YYYY-MM-DD", date)
				}
				opts.Date = t
			}
			svc, err := c.service()
			if err != nil {
				return err
			}
			report, err := svc.Validate(cmd.Context(), opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if c.jsonOut {
				return writeJSON(out, report)
			}

			fmt.Fprintf(out, "%d points, step %g deg, |lat| <= %g, altitude %g ft, %s\n",
				report.Points, report.StepDeg, report.MaxAbsLat, report.AltitudeFt, report.Date.Format("2006-01-02"))
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "quantity\tunit\tmean\tstd\trms\tmax\tworst at")
			for _, s := range report.Stats {
				fmt.Fprintf(tw, "%s\t%s\t%.3f\t%.3f\t%.3f\t%.3f\t%.0f, %.0f\n",
					s.Quantity, s.Unit, s.Mean, s.StdDev, s.RMS, s.MaxAbs, s.WorstLat, s.WorstLon)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Float64Var(&opts.StepDeg, "step", opts.StepDeg, "sample spacing in degrees")
	cmd.Flags().Float64Var(&opts.MaxAbsLat, "max-lat", opts.MaxAbsLat, "skip points poleward of this latitude")
	cmd.Flags().Float64Var(&opts.AltitudeFt, "alt-ft", 0, "altitude in feet")
	cmd.Flags().StringVar(&date, "date", "", "model date as YYYY-MM-DD (defaults to the table epoch)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "magtable %s (%s %s, epoch %.1f)\n",
				Version, magtable.ModelName, magtable.ModelVersion, magtable.ModelEpoch)
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
