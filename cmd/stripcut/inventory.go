package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StripCut/internal/project"
)

func newInventoryCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "List or import strip profiles and supply presets",
	}
	cmd.PersistentFlags().StringVar(&path, "inventory", project.DefaultInventoryPath(), "path to the inventory file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the strip profiles and supply presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := project.LoadInventory(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "STRIP\tW/m\tVOLTAGE\tREEL_M")
			for _, s := range inv.Strips {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Name, fmtNum(s.WattsPerMetre), fmtNum(s.Voltage), fmtNum(s.ReelLength))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(out)
			tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SUPPLY\tCAPACITY\tPRICE")
			for _, s := range inv.Supplies {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, fmtNum(s.Capacity), fmtNum(s.Price))
			}
			return tw.Flush()
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge presets from another inventory file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			existing, err := project.LoadInventory(path)
			if err != nil {
				return err
			}
			merged, err := project.ImportInventory(args[0], existing)
			if err != nil {
				return err
			}
			if err := project.SaveInventory(path, merged); err != nil {
				return err
			}
			slog.Info("inventory merged", "file", args[0],
				"strips_added", len(merged.Strips)-len(existing.Strips),
				"supplies_added", len(merged.Supplies)-len(existing.Supplies))
			return nil
		},
	}

	cmd.AddCommand(listCmd, importCmd)
	return cmd
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
