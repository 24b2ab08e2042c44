package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fastestimator/fastestimator/internal/checkpoint"
)

func newCheckpointCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkpoint FILE",
		Short: "List the tensors and metadata of a saved checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := checkpoint.Open(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			meta := c.Metadata()
			for _, k := range slices.Sorted(maps.Keys(meta)) {
				fmt.Fprintf(w, "%s: %s\n", k, meta[k])
			}
			fmt.Fprintln(w)

			table := newTable(w, "NAME", "SHAPE", "BYTES")
			for _, info := range c.Tensors() {
				table.Append([]string{info.Name, fmt.Sprint(info.Shape), strconv.FormatInt(info.Size, 10)})
			}
			table.Render()
			return nil
		},
	}
}
