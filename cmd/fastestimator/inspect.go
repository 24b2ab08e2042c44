package main

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/fastestimator/fastestimator/internal/dataset"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect PICKLE",
		Short: "Summarize the columns of a pickled dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFile(args[0]); err != nil {
				return err
			}
			ds, err := dataset.NewPickleDataset(args[0])
			if err != nil {
				return err
			}
			return inspect(cmd.OutOrStdout(), ds.InMemoryDataset)
		},
	}
}

// columnSummary describes one column of a dataset.
type columnSummary struct {
	name     string
	kind     string
	count    int
	mean     float64
	std      float64
	min, max float64
	numeric  bool
}

func summarize(records []dataset.Record) []columnSummary {
	if len(records) == 0 {
		return nil
	}
	names := make([]string, 0, len(records[0]))
	for k := range records[0] {
		names = append(names, k)
	}
	slices.Sort(names)

	out := make([]columnSummary, 0, len(names))
	for _, name := range names {
		s := columnSummary{name: name, numeric: true}
		values := make([]float64, 0, len(records))
		for _, r := range records {
			v, ok := r[name]
			if !ok {
				continue
			}
			s.count++
			kind := fmt.Sprintf("%T", v)
			if v == nil {
				kind = "nil"
			}
			switch {
			case s.kind == "":
				s.kind = kind
			case s.kind != kind:
				s.kind = "mixed"
			}
			f, ok := asFloat(v)
			if !ok {
				s.numeric = false
				continue
			}
			values = append(values, f)
		}
		if s.numeric && len(values) > 0 {
			s.mean, s.std = stat.MeanStdDev(values, nil)
			s.min, s.max = slices.Min(values), slices.Max(values)
		} else {
			s.numeric = false
		}
		out = append(out, s)
	}
	return out
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func inspect(w io.Writer, ds *dataset.InMemoryDataset) error {
	records := ds.Records()
	fmt.Fprintf(w, "records: %d\n", len(records))
	if p := ds.ParentPath(); p != "" {
		fmt.Fprintf(w, "parent:  %s\n", p)
	}
	fmt.Fprintln(w)

	table := newTable(w, "COLUMN", "TYPE", "COUNT", "MEAN", "STD", "MIN", "MAX")
	for _, s := range summarize(records) {
		row := []string{s.name, s.kind, strconv.Itoa(s.count), "-", "-", "-", "-"}
		if s.numeric {
			row[3] = formatFloat(s.mean)
			row[4] = formatFloat(s.std)
			row[5] = formatFloat(s.min)
			row[6] = formatFloat(s.max)
		}
		table.Append(row)
	}
	table.Render()
	return nil
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "-"
	}
	return strconv.FormatFloat(f, 'g', 6, 64)
}
