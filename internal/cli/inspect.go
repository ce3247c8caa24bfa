package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render"
)

// inspectCommand creates the inspect command, which summarizes a snapshot
// without running the simulation.
func (c *CLI) inspectCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect [snapshot.json...]",
		Short: "Summarize a knowledge graph snapshot",
		Long: `Summarize a knowledge graph snapshot.

Prints node and link counts, the groups with their palette colors, and the
links that would be dropped for referencing unknown nodes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readSnapshot(args...)
			if err != nil {
				return err
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}
			rep, err := newReport(s, cfg.NewPalette())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			rep.print(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")

	return cmd
}

// report is the inspect summary of a snapshot.
type report struct {
	graph.Stats
	GroupSizes map[string]int       `json:"group_sizes"`
	Colors     map[string]string    `json:"colors"`
	Dropped    []graph.DanglingLink `json:"-"`
}

func newReport(s graph.Snapshot, palette *render.Palette) (report, error) {
	resolved, err := graph.Resolve(s, false)
	if err != nil {
		return report{}, err
	}
	rep := report{
		Stats:      s.Stats(),
		GroupSizes: make(map[string]int),
		Colors:     make(map[string]string),
		Dropped:    resolved.Dangling,
	}
	for _, n := range resolved.Nodes {
		rep.GroupSizes[n.Group]++
	}
	for _, g := range rep.Groups {
		rep.Colors[g] = palette.Color(g)
	}
	return rep, nil
}

var headerStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func (r report) print(w io.Writer) {
	fmt.Fprintln(w, StyleTitle.Render("Snapshot"))
	fmt.Fprintf(w, "  %s nodes · %s links · %s groups · %s self-loops\n\n",
		StyleNumber.Render(strconv.Itoa(r.Entities)),
		StyleNumber.Render(strconv.Itoa(r.Relations)),
		StyleNumber.Render(strconv.Itoa(len(r.Groups))),
		StyleNumber.Render(strconv.Itoa(r.SelfLoops)))

	rows := make([][]string, 0, len(r.Groups))
	for _, g := range r.Groups {
		name := g
		if name == "" {
			name = "(none)"
		}
		rows = append(rows, []string{"●", name, strconv.Itoa(r.GroupSizes[g]), r.Colors[g]})
	}
	groups := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Group", "Nodes", "Color").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 && row < len(r.Groups) {
				return lipgloss.NewStyle().Foreground(lipgloss.Color(r.Colors[r.Groups[row]]))
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	fmt.Fprintln(w, groups.Render())

	if len(r.Dropped) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleWarning.Render(fmt.Sprintf("%d link(s) reference unknown nodes and will be dropped", len(r.Dropped))))
	dropped := make([][]string, 0, len(r.Dropped))
	for _, d := range r.Dropped {
		dropped = append(dropped, []string{strconv.Itoa(d.Position), d.Link.Source, d.Link.Relationship, d.Link.Target, d.Missing})
	}
	fmt.Fprintln(w, table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Source", "Relationship", "Target", "Missing").
		Rows(dropped...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 4 {
				return lipgloss.NewStyle().Foreground(colorRed)
			}
			return lipgloss.NewStyle()
		}).
		Render())
}
