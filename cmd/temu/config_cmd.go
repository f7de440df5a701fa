package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/temu/internal/config"
)

func newConfigCmd(flags *runFlags) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage temu configuration",
		Long:  `Manage the temu configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath(flags)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	var force bool
	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Long: `Write the default configuration file

An existing file is left alone unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath(flags)
			if err != nil {
				return err
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default configuration written to %s\n", path)
			return nil
		},
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(flags)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal(path)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	configCmd.AddCommand(configPathCmd, configInitCmd, configShowCmd)
	return configCmd
}

// configFilePath returns --config or the default location.
func configFilePath(flags *runFlags) (string, error) {
	if flags.configPath != "" {
		return flags.configPath, nil
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return "", fmt.Errorf("could not determine config path: %w", err)
	}
	return path, nil
}

// loadConfig reads the config file. A broken file is reported and the
// defaults are used instead.
func loadConfig(flags *runFlags) (*config.UserConfig, string, error) {
	path, err := configFilePath(flags)
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintln(os.Stderr, "Using default settings...")
		cfg = config.DefaultConfig()
	}
	return cfg, path, nil
}
