package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// mergeCommand creates the merge command, which unions snapshots the way
// incremental knowledge extraction produces them.
func (c *CLI) mergeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "merge [base.json] [incoming.json...]",
		Short: "Merge knowledge graph snapshots",
		Long: `Merge knowledge graph snapshots.

Nodes are keyed by id and links by (source, target, relationship); the first
occurrence wins. Links with unknown endpoints are kept, so a later snapshot
can supply the missing node.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			merged, err := readSnapshot(args...)
			if err != nil {
				return err
			}
			if output == "" {
				return graph.WriteSnapshot(merged, os.Stdout)
			}
			if err := graph.WriteSnapshotFile(merged, output); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			st := merged.Stats()
			printSuccess("Merged %d snapshots", len(args))
			printFile(output)
			printDetail("%d nodes, %d links, %d groups", st.Entities, st.Relations, len(st.Groups))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}
