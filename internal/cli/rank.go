package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"proctor-scoring-service/internal/config"
)

// NewRankCmd recomputes the cohort ranking and prints the assignments.
func NewRankCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rank",
		Short: "Recompute rank and percentile for all completed exams",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd.Context(), *configPath)
		},
	}
}

func runRank(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	engine, cleanup, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	snapshot, err := engine.RecomputeRankings(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snapshot)
}
