package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/personas/internal/fixture"
	"github.com/mmynk/personas/internal/persona"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a JSON fixture of records offline",
	}
	cmd.PersistentFlags().String("fixture", "", "records fixture (default: bundled sample)")
	cmd.PersistentFlags().Bool("json", false, "print the raw analysis as JSON")
	cmd.AddCommand(newAnalyzeUserCmd(a), newAnalyzeGroupCmd(a))
	return cmd
}

func newAnalyzeUserCmd(a *app) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Show a user's persona profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, f, err := a.analysisInput(cmd)
			if err != nil {
				return err
			}
			p := c.AnalyzeUser(userID, f.Records())
			if asJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), p)
			}
			return printProfile(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user ID")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newAnalyzeGroupCmd(a *app) *cobra.Command {
	var groupID string
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Show a group's dominant persona and member distribution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, f, err := a.analysisInput(cmd)
			if err != nil {
				return err
			}
			g, ok := f.Group(groupID)
			if !ok {
				return fmt.Errorf("group %q not in fixture", groupID)
			}
			r := c.AnalyzeGroup(g.ID, g.Members, f.Records())
			if asJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), r)
			}
			return printGroup(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().StringVar(&groupID, "group", "", "group ID")
	_ = cmd.MarkFlagRequired("group")
	return cmd
}

func (a *app) analysisInput(cmd *cobra.Command) (*persona.Catalog, *fixture.File, error) {
	path, err := cmd.Flags().GetString("fixture")
	if err != nil {
		return nil, nil, err
	}
	f, err := fixture.Load(path)
	if err != nil {
		return nil, nil, err
	}
	c, err := a.catalog()
	if err != nil {
		return nil, nil, err
	}
	return c, f, nil
}

func asJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printProfile(w io.Writer, p persona.Profile) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s %s (%s)\n", p.Emoji, p.Name, similarityPercent(p.Match.Similarity))
	fmt.Fprintf(tw, "%s\n", p.Description)
	fmt.Fprintf(tw, "Traits:\t%s\n", strings.Join(p.Traits, ", "))
	fmt.Fprintln(tw)

	s := p.Stats
	fmt.Fprintf(tw, "Events attended:\t%d\n", s.EventsAttended)
	fmt.Fprintf(tw, "Total spent:\t%s\n", formatMoney(s.TotalSpent))
	fmt.Fprintf(tw, "Avg event cost:\t%s\n", formatMoney(s.AvgEventCost))
	fmt.Fprintf(tw, "Avg transaction:\t%s\n", formatMoney(s.Features.AvgTransactionAmount))
	fmt.Fprintf(tw, "Avg group size:\t%.1f\n", s.Features.AvgGroupSize)
	fmt.Fprintf(tw, "Events per month:\t%.1f\n", s.Features.EventsPerMonth)
	fmt.Fprintf(tw, "Most active hour:\t%02d:00\n", s.Features.MostActiveHour)
	fmt.Fprintf(tw, "Generosity:\t%.2f\n", s.Features.GenerosityScore)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Closest matches:")
	for _, cand := range p.Match.Top {
		fmt.Fprintf(tw, "  %s\t%s\n", cand.Key, similarityPercent(cand.Similarity))
	}
	return tw.Flush()
}

func printGroup(w io.Writer, r persona.GroupResult) error {
	if len(r.Members) == 0 {
		return errors.New("group has no members")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	title := r.GroupID
	if r.GroupName != "" {
		title = r.GroupName
	}
	fmt.Fprintf(tw, "%s: %s %s\n", title, r.Dominant.Emoji, r.Dominant.Name)
	fmt.Fprintf(tw, "%s\n", r.Dominant.Description)
	fmt.Fprintf(tw, "Traits:\t%s\n", strings.Join(r.Traits, ", "))
	fmt.Fprintln(tw)

	s := r.Stats
	fmt.Fprintf(tw, "Members:\t%d\n", s.MemberCount)
	fmt.Fprintf(tw, "Events:\t%d\n", s.TotalEvents)
	fmt.Fprintf(tw, "Total spent:\t%s\n", formatMoney(s.TotalSpent))
	fmt.Fprintf(tw, "Avg event cost:\t%s\n", formatMoney(s.AvgEventCost))
	fmt.Fprintf(tw, "Most active hour:\t%02d:00\n", s.MostActiveHour)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Distribution:")
	for _, d := range r.Distribution {
		fmt.Fprintf(tw, "  %s %s\t%d\t%d%%\n", d.Emoji, d.Key, d.Count, d.Percentage)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "Members:")
	for _, m := range r.Members {
		name := m.Name
		if name == "" {
			name = m.UserID
		}
		fmt.Fprintf(tw, "  %s\t%s %s\t%s\n", name, m.Emoji, m.Key, similarityPercent(m.Similarity))
	}
	return tw.Flush()
}
