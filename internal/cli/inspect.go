package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/dataset"
	"github.com/matzehuels/canopy/pkg/tree"
	"github.com/matzehuels/canopy/pkg/widget"
)

type inspectOpts struct {
	id      int
	all     bool
	toggles []int
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{id: -1}

	cmd := &cobra.Command{
		Use:   "inspect [file|sample]",
		Short: "Print the tree outline with node ids, or one node's metadata",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, name, err := c.loadItems(args)
			if err != nil {
				return err
			}
			w := widget.New(items, widget.Options{Logger: loggerFromContext(cmd.Context())})
			for _, id := range opts.toggles {
				if err := w.Tree().Toggle(tree.ID(id)); err != nil {
					return fmt.Errorf("toggle %d: %w", id, err)
				}
			}
			if opts.id >= 0 {
				return c.printNode(w, tree.ID(opts.id))
			}
			c.printOutline(w.Tree(), name, dataset.Count(items), opts.all)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.id, "id", -1, "show one node's metadata")
	cmd.Flags().BoolVar(&opts.all, "all", false, "include hidden nodes")
	cmd.Flags().IntSliceVarP(&opts.toggles, "toggle", "t", nil, "node ids to toggle first, in order")
	return cmd
}

func (c *CLI) printNode(w *widget.Widget, id tree.ID) error {
	in, err := w.Inspect(id)
	if err != nil {
		return err
	}
	n, _ := w.Tree().Node(id)
	fmt.Fprintln(c.out, StyleTitle.Render(in.Name))
	printKeyValue(c.out, "id", strconv.Itoa(int(in.ID)))
	printKeyValue(c.out, "state", n.State.String())
	printKeyValue(c.out, "depth", strconv.Itoa(n.Depth))
	if n.Parent != tree.RootID {
		p, _ := w.Tree().Node(n.Parent)
		printKeyValue(c.out, "parent", fmt.Sprintf("%s (%d)", p.Name, p.ID))
	}
	printKeyValue(c.out, "metadata", in.Metadata)
	return nil
}

// outlineRows lists nodes in pre-order as table rows: id, indented label,
// state and a metadata marker.
func outlineRows(t *tree.Tree, all bool) [][]string {
	var ids []tree.ID
	if all {
		t.Walk(func(n tree.Node) bool {
			if n.ID != tree.RootID {
				ids = append(ids, n.ID)
			}
			return true
		})
	} else {
		ids = t.Visible()
	}

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		n, _ := t.Node(id)
		icon := iconLeaf
		switch n.State {
		case tree.Expanded:
			icon = iconExpanded
		case tree.Collapsed:
			icon = iconCollapsed
		}
		meta := ""
		if n.Metadata != "" {
			meta = "i"
		}
		label := strings.Repeat("  ", n.Depth-1) + icon + " " + n.Name
		rows = append(rows, []string{strconv.Itoa(int(id)), label, n.State.String(), meta})
	}
	return rows
}

func (c *CLI) printOutline(t *tree.Tree, name string, total int, all bool) {
	rows := outlineRows(t, all)
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Node", "State", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 || col == 2 {
				return lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	fmt.Fprintln(c.out, StyleTitle.Render(name))
	fmt.Fprintln(c.out, tbl.Render())
	printInfo(c.out, "%d of %d nodes shown", len(rows), total)
}
