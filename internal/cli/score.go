package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"proctor-scoring-service/internal/config"
	"proctor-scoring-service/internal/domain"
)

// NewScoreCmd scores one completed exam from an answers file and prints
// the resulting report as JSON.
func NewScoreCmd(configPath *string) *cobra.Command {
	var (
		examID      int64
		answersPath string
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an exam and print its report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.Context(), *configPath, examID, answersPath)
		},
	}
	cmd.Flags().Int64Var(&examID, "exam", 0, "exam ID to score")
	cmd.Flags().StringVar(&answersPath, "answers", "", "path to JSON answer set (question id -> submitted value)")
	_ = cmd.MarkFlagRequired("exam")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

func runScore(ctx context.Context, configPath string, examID int64, answersPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(answersPath)
	if err != nil {
		return fmt.Errorf("read answers: %w", err)
	}
	var answers domain.AnswerSet
	if err := json.Unmarshal(data, &answers); err != nil {
		return fmt.Errorf("parse answers: %w", err)
	}

	engine, cleanup, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := engine.FinalizeExam(ctx, examID, answers)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
