package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"saju/internal/domain/chart"
	"saju/internal/domain/ganji"
	"saju/pkg/errors"
)

// Output formats
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// write renders one report in the requested format
func write(w io.Writer, format string, r *chart.Report) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case formatText:
		return renderText(w, r)
	}
	return errors.NewValidationError("output", "must be text, json or yaml", format)
}

// writeAll renders reports as one JSON array, a YAML document stream, or
// consecutive text blocks
func writeAll(w io.Writer, format string, reports []*chart.Report) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, r := range reports {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return enc.Close()
	case formatText:
		for i, r := range reports {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := renderText(w, r); err != nil {
				return err
			}
		}
		return nil
	}
	return errors.NewValidationError("output", "must be text, json or yaml", format)
}

func renderText(w io.Writer, r *chart.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Report\t%s\n", r.ID)
	fmt.Fprintf(tw, "Birth\t%s\t%s\n", civilLabel(r), r.Input.Gender)
	fmt.Fprintf(tw, "Solar time\t%s\t%s\n", r.SolarTime.Effective.Format("2006-01-02 15:04:05"), corrections(r.SolarTime))

	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "\thour\tday\tmonth\tyear\n")
	fmt.Fprintf(tw, "Pillar\t%s\t%s\t%s\t%s\n", hourCell(r.Chart.Hour, pillarOf), r.Chart.Day.Pillar, r.Chart.Month.Pillar, r.Chart.Year.Pillar)
	fmt.Fprintf(tw, "Stem god\t%s\t%s\t%s\t%s\n", hourCell(r.Chart.Hour, stemGodOf), "day master", stemGodOf(&r.Chart.Month), stemGodOf(&r.Chart.Year))
	fmt.Fprintf(tw, "Branch god\t%s\t%s\t%s\t%s\n", hourCell(r.Chart.Hour, branchGodOf), branchGodOf(&r.Chart.Day), branchGodOf(&r.Chart.Month), branchGodOf(&r.Chart.Year))
	fmt.Fprintf(tw, "Stage\t%s\t%s\t%s\t%s\n", hourCell(r.Chart.Hour, stageOf), stageOf(&r.Chart.Day), stageOf(&r.Chart.Month), stageOf(&r.Chart.Year))

	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Day master\t%s (%s)\n", r.Chart.DayMaster, r.Chart.DayMaster.Element())
	for _, e := range ganji.Elements {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", e, r.Profile.Scores[e].StringFixed(2), r.Profile.Levels[e])
	}
	fmt.Fprintf(tw, "Strength\t%s\tseason %+d, root %+d, heaven %+d, total %+d\n",
		r.Strength.Level, r.Strength.SeasonalCommand, r.Strength.Rootedness, r.Strength.HeavenlySupport, r.Strength.Total)

	y := r.Yongshin
	fmt.Fprintf(tw, "Yongshin\t%s\t%s, %s confidence (%s)\n", y.Primary, y.DecisionType, y.Confidence, y.Evidence.Rule)
	if y.Secondary != nil {
		fmt.Fprintf(tw, "  secondary\t%s\n", *y.Secondary)
	}
	fmt.Fprintf(tw, "  heeshin\t%s\n", elementList(y.Heeshin))
	fmt.Fprintf(tw, "  gishin\t%s\n", elementList(y.Gishin))

	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Luck\t%s from age %d\t%.1f days to the boundary\n", r.Luck.Direction, r.Luck.StartAge, r.Luck.DaysToBoundary)
	for _, d := range r.Luck.Decades {
		fmt.Fprintf(tw, "  %s decade\t%s\tage %d-%d\tfrom %d\t%s\n",
			humanize.Ordinal(d.Index+1), d.Pillar.Pillar, d.StartAge, d.EndAge, d.StartYear, d.Pillar.StemTenGod)
	}

	fmt.Fprintln(tw)
	for _, set := range []chart.VoidSet{r.Void.ByYear, r.Void.ByDay} {
		fmt.Fprintf(tw, "Void by %s\t%s\t%s%s\t%s\n", set.Reference, set.Decade, set.Void[0], set.Void[1], voidHits(set.Hits))
	}

	return tw.Flush()
}

func civilLabel(r *chart.Report) string {
	if !r.SolarTime.TimeKnown {
		return r.SolarTime.Civil.Format("2006-01-02") + " (time unknown)"
	}
	return r.SolarTime.Civil.Format("2006-01-02 15:04")
}

func corrections(s chart.SolarTime) string {
	if len(s.Corrections) == 0 {
		return "no corrections"
	}
	parts := make([]string, 0, len(s.Corrections))
	for _, c := range s.Corrections {
		part := fmt.Sprintf("%s %+.1fm", c.Name, c.Minutes)
		if c.Period != "" {
			part += " (" + c.Period + ")"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

func hourCell(p *chart.AnnotatedPillar, f func(*chart.AnnotatedPillar) string) string {
	if p == nil {
		return "-"
	}
	return f(p)
}

func pillarOf(p *chart.AnnotatedPillar) string    { return p.Pillar.String() }
func stemGodOf(p *chart.AnnotatedPillar) string   { return p.StemTenGod.String() }
func branchGodOf(p *chart.AnnotatedPillar) string { return p.BranchTenGod.String() }
func stageOf(p *chart.AnnotatedPillar) string     { return string(p.TwelveStage) }

func elementList(es []ganji.Element) string {
	if len(es) == 0 {
		return "-"
	}
	names := make([]string, len(es))
	for i, e := range es {
		names[i] = e.String()
	}
	return strings.Join(names, ", ")
}

func voidHits(hits []chart.VoidHit) string {
	if len(hits) == 0 {
		return "no hits"
	}
	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = fmt.Sprintf("%s %s", h.Position, h.Branch)
		if h.Released {
			parts[i] += " released by " + h.Reason
		}
	}
	return strings.Join(parts, "; ")
}
