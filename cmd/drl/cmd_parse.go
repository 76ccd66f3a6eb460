package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/drl/format"
	"github.com/dhamidi/drl/rule/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a rule file and dump the descriptor tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read rule file: %w", err)
			}

			p := parser.New(data, parser.WithSource(filepath.Base(filename)))
			pkg := p.ParseCompilationUnit()

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewJSONEncoder(os.Stdout)
			case "tree":
				encoder = format.NewTreeEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(pkg); err != nil {
				return fmt.Errorf("encode: %w", err)
			}

			for _, parseErr := range p.Errors() {
				fmt.Fprintln(os.Stderr, parseErr)
			}
			if p.HasErrors() {
				return fmt.Errorf("%d parse errors", len(p.Errors()))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, tree)")

	return cmd
}
