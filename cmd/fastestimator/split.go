package main

import (
	"errors"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fastestimator/fastestimator/internal/dataset"
)

func newSplitCmd() *cobra.Command {
	var (
		counts    []int
		fractions []float64
		seed      uint64
	)
	cmd := &cobra.Command{
		Use:   "split PICKLE",
		Short: "Randomly split a pickled dataset and report fragment sizes",
		Example: `  fastestimator split data.pkl --counts 100,50
  fastestimator split data.pkl --fractions 0.1,0.1 --seed 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(counts) == 0) == (len(fractions) == 0) {
				return errors.New("exactly one of --counts or --fractions is required")
			}
			if err := checkFile(args[0]); err != nil {
				return err
			}
			ds, err := dataset.NewPickleDataset(args[0])
			if err != nil {
				return err
			}

			var frags []*dataset.InMemoryDataset
			if len(counts) > 0 {
				frags, err = dataset.SplitCounts(ds.InMemoryDataset, seed, counts...)
			} else {
				frags, err = dataset.SplitFractions(ds.InMemoryDataset, seed, fractions...)
			}
			if err != nil {
				return err
			}
			return reportSplit(cmd.OutOrStdout(), ds.InMemoryDataset, frags)
		},
	}
	cmd.Flags().IntSliceVar(&counts, "counts", nil, "Number of records per fragment")
	cmd.Flags().Float64SliceVar(&fractions, "fractions", nil, "Fraction of records per fragment")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed for choosing records")
	return cmd
}

func reportSplit(w io.Writer, source *dataset.InMemoryDataset, frags []*dataset.InMemoryDataset) error {
	table := newTable(w, "FRAGMENT", "RECORDS")
	for i, f := range frags {
		table.Append([]string{strconv.Itoa(i), strconv.Itoa(f.Len())})
	}
	table.Append([]string{"remaining", strconv.Itoa(source.Len())})
	table.Render()
	return nil
}
