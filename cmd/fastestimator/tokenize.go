package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fastestimator/fastestimator/internal/op"
	"github.com/fastestimator/fastestimator/internal/op/numpyop"
	"github.com/fastestimator/fastestimator/internal/tensor"
)

func newTokenizeCmd() *cobra.Command {
	var (
		encoding  string
		maxLength int
		lower     bool
	)
	cmd := &cobra.Command{
		Use:     "tokenize TEXT...",
		Short:   "Encode text into token ids with a tiktoken encoding",
		Example: `  fastestimator tokenize "Hello, world!" --encoding cl100k_base --max-length 8`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := numpyop.NewTikToken(encoding)
			if err != nil {
				return err
			}

			keys := make([]string, len(args))
			data := make([]any, len(args))
			for i, a := range args {
				keys[i] = "text" + strconv.Itoa(i)
				data[i] = a
			}
			o, err := numpyop.NewTokenize(numpyop.TokenizeConfig{
				Inputs:    keys,
				Outputs:   keys,
				Tokenizer: tok,
				ToLower:   lower,
				MaxLength: maxLength,
			})
			if err != nil {
				return err
			}
			out, err := o.Forward(data, op.State{})
			if err != nil {
				return err
			}

			table := newTable(cmd.OutOrStdout(), "TEXT", "TOKENS", "IDS")
			for i, v := range out {
				ids := v.(*tensor.Tensor).Data()
				parts := make([]string, len(ids))
				for j, id := range ids {
					parts[j] = strconv.Itoa(int(id))
				}
				table.Append([]string{args[i], strconv.Itoa(len(ids)), strings.Join(parts, " ")})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&encoding, "encoding", "cl100k_base", "tiktoken encoding name")
	cmd.Flags().IntVar(&maxLength, "max-length", 0, "Pad or truncate to this many ids (0 keeps the natural length)")
	cmd.Flags().BoolVar(&lower, "lower", false, "Lowercase text before encoding")
	return cmd
}
