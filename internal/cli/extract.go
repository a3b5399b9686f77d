package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pms/m/internal/prescription"
)

var extractJSON bool

var extractCmd = &cobra.Command{
	Use:   "extract <file|->",
	Short: "Extract medicine lines from recognised prescription text",
	Long: `Read recognised prescription text from a file (or stdin with -) and print
the "<name> <quantity>" lines that were understood.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			text []byte
			err  error
		)
		if args[0] == "-" {
			text, err = io.ReadAll(cmd.InOrStdin())
		} else {
			text, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		lines := prescription.Extract(string(text))
		out := cmd.OutOrStdout()
		if extractJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string][]prescription.Line{"medicines": lines})
		}
		if len(lines) == 0 {
			warning(out, "no medicine lines recognised")
			return nil
		}
		section(out, "Medicines")
		for _, l := range lines {
			info(out, "%s × %d", l.Name, l.Quantity)
		}
		muted(out, "%d lines", len(lines))
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(extractCmd)
}
