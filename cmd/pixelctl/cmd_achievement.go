package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pixelpages/internal/db"
	"github.com/pixelpages/internal/service"
	"github.com/spf13/cobra"
)

func newAchievementService() (*service.AchievementService, error) {
	catalog, err := service.LoadAchievementCatalog(db.DB)
	if err != nil {
		return nil, err
	}
	return service.NewAchievementService(
		catalog,
		service.NewGormProgressStore(db.DB),
		service.NewStatsService(db.DB, cfg.Location),
	), nil
}

func runRecheck(cmd *cobra.Command, args []string) error {
	svc, err := newAchievementService()
	if err != nil {
		return err
	}
	unlocked, err := svc.RecomputeAndUnlock(args[0])
	writeUnlocked(cmd.OutOrStdout(), unlocked)
	return err
}

func runProgress(cmd *cobra.Command, args []string) error {
	svc, err := newAchievementService()
	if err != nil {
		return err
	}
	views, err := svc.GetProgress(args[0])
	if err != nil {
		return err
	}
	return writeProgress(cmd.OutOrStdout(), views)
}

func runSummary(cmd *cobra.Command, args []string) error {
	svc, err := newAchievementService()
	if err != nil {
		return err
	}
	summary, err := svc.GetSummary(args[0])
	if err != nil {
		return err
	}
	return writeSummary(cmd.OutOrStdout(), summary)
}

func writeUnlocked(w io.Writer, unlocked []db.AchievementDefinition) {
	if len(unlocked) == 0 {
		fmt.Fprintln(w, "no new achievements")
		return
	}
	for _, def := range unlocked {
		fmt.Fprintf(w, "unlocked %s (%s) +%d XP\n", def.ID, def.Name, def.XPReward)
	}
}

func writeProgress(w io.Writer, views []service.AchievementProgressView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPROGRESS\tPERCENT\tDONE")
	for _, view := range views {
		done := ""
		if view.Completed {
			done = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%.0f%%\t%s\n",
			view.Definition.ID,
			view.Definition.Name,
			view.Progress,
			view.Definition.RequirementTarget,
			view.ProgressPercentage,
			done,
		)
	}
	return tw.Flush()
}

func writeSummary(w io.Writer, summary *service.AchievementSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "completed\t%d/%d (%.1f%%)\n", summary.CompletedCount, summary.TotalCount, summary.CompletionPercentage)
	fmt.Fprintf(tw, "xp\t%d (achievements %d, activity %d)\n", summary.TotalXP, summary.AchievementXP, summary.ActivityXP)
	fmt.Fprintf(tw, "level\t%d (%d/%d)\n", summary.Level.Level, summary.Level.TotalXP, summary.Level.NextLevelXP)
	return tw.Flush()
}
