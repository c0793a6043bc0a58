package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StripCut/internal/model"
	"github.com/piwi3910/StripCut/internal/project"
)

func newConfigCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file and inventory",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(g.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", g.configPath)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := project.SaveAppConfig(g.configPath, model.DefaultAppConfig()); err != nil {
				return err
			}
			slog.Info("wrote", "file", g.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(g.cfg)
		},
	}

	var inventoryPath string
	exportCmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Back up the config and inventory to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := project.LoadInventory(inventoryPath)
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], g.cfg, inv); err != nil {
				return err
			}
			slog.Info("wrote", "file", args[0])
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore the config and inventory from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(g.configPath, data.Config); err != nil {
				return err
			}
			if err := project.SaveInventory(inventoryPath, data.Inventory); err != nil {
				return err
			}
			slog.Info("restored", "backup", args[0], "version", data.Version,
				"config", g.configPath, "inventory", inventoryPath)
			return nil
		},
	}

	for _, c := range []*cobra.Command{exportCmd, importCmd} {
		c.Flags().StringVar(&inventoryPath, "inventory", project.DefaultInventoryPath(), "path to the inventory file")
	}

	cmd.AddCommand(initCmd, showCmd, exportCmd, importCmd)
	return cmd
}
