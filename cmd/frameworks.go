package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jywlabs/vitetail/internal/project"
	"github.com/jywlabs/vitetail/internal/stub"
	"github.com/spf13/cobra"
)

var frameworksCmd = &cobra.Command{
	Use:   "frameworks",
	Short: "List supported templates",
	Long: `List the templates vitetail can create, the starter files it writes
over the generator output, and the entry script that imports the
stylesheet when Tailwind CSS is added.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printFrameworks(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(frameworksCmd)
}

func printFrameworks(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TEMPLATE\tNAME\tSTARTER FILES\tENTRY")
	for _, fw := range project.Frameworks {
		for _, ts := range []bool{false, true} {
			files, err := stub.Render(fw, project.DefaultName, ts)
			if err != nil {
				return fmt.Errorf("failed to render %s starter files: %w", fw, err)
			}
			paths := make([]string, len(files))
			for i, f := range files {
				paths[i] = f.Path
			}

			req := project.Request{Framework: fw, TypeScript: ts}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", req.Variant(), fw.Label(), strings.Join(paths, ", "), fw.EntryScript(ts))
		}
	}
	return tw.Flush()
}
