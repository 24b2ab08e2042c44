package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fastestimator/fastestimator/internal/schedule"
)

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print hyperparameter schedules",
	}
	cmd.AddCommand(newCosineCmd())
	return cmd
}

func newCosineCmd() *cobra.Command {
	var (
		cfg   schedule.CosineConfig
		steps int
		every int
	)
	cmd := &cobra.Command{
		Use:   "cosine",
		Short: "Print a cosine decay schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := schedule.NewCosineDecay(cfg)
			if err != nil {
				return err
			}
			if steps <= 0 || every <= 0 {
				return fmt.Errorf("--steps and --every must be positive")
			}

			fmt.Fprintln(cmd.OutOrStdout(), c)
			table := newTable(cmd.OutOrStdout(), "STEP", "VALUE")
			for t := 0; t <= steps; t += every {
				table.Append([]string{strconv.Itoa(t), strconv.FormatFloat(c.Value(t), 'g', 6, 64)})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().IntVar(&cfg.CycleLength, "cycle", 10, "Steps per decay cycle")
	cmd.Flags().Float64Var(&cfg.InitLR, "init-lr", 0.1, "Value at the start of each cycle")
	cmd.Flags().Float64Var(&cfg.MinLR, "min-lr", schedule.DefaultMinLR, "Value at the end of each cycle")
	cmd.Flags().IntVar(&cfg.Start, "start", 0, "Step at which decay begins")
	cmd.Flags().IntVar(&steps, "steps", 20, "Last step to print")
	cmd.Flags().IntVar(&every, "every", 1, "Print every n-th step")
	return cmd
}
