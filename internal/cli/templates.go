package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-note/internal/tmpl"
)

func init() {
	rootCmd.AddCommand(templatesCmd)
}

var templatesCmd = &cobra.Command{
	Use:   "templates [name]",
	Short: "List or print built-in templates",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			_, err := fmt.Fprintln(out, strings.Join(tmpl.BuiltinNames(), "\n"))
			return err
		}
		t, ok := tmpl.Builtin(args[0])
		if !ok {
			return fmt.Errorf("unknown built-in template %q", args[0])
		}
		_, err := fmt.Fprint(out, t)
		return err
	},
}
