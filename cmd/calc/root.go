package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "calc",
		Short:        "Evaluate calculator expressions and loan math",
		SilenceUsage: true,
	}
	root.AddCommand(newEvalCmd(), newAmortizeCmd(), newCompoundCmd())
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
