package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/solardash/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set solardash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(out, "max_upload_mb: %d\n", cfg.MaxUploadMB)
		fmt.Fprintf(out, "read_timeout_sec: %d\n", cfg.ReadTimeoutSec)
		fmt.Fprintf(out, "write_timeout_sec: %d\n", cfg.WriteTimeoutSec)
		fmt.Fprintf(out, "shutdown_timeout_sec: %d\n", cfg.ShutdownTimeoutSec)
		fmt.Fprintf(out, "preview_rows: %d\n", cfg.PreviewRows)
		fmt.Fprintf(out, "max_rows: %d\n", cfg.MaxRows)
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		}
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		atoi := func() (int, error) {
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return 0, fmt.Errorf("invalid int for %s: %v", key, val)
			}
			return i, nil
		}
		var err error
		switch key {
		case "listen_addr":
			cfg.ListenAddr = val
		case "max_upload_mb":
			cfg.MaxUploadMB, err = atoi()
		case "read_timeout_sec":
			cfg.ReadTimeoutSec, err = atoi()
		case "write_timeout_sec":
			cfg.WriteTimeoutSec, err = atoi()
		case "shutdown_timeout_sec":
			cfg.ShutdownTimeoutSec, err = atoi()
		case "preview_rows":
			cfg.PreviewRows, err = atoi()
		case "max_rows":
			cfg.MaxRows, err = atoi()
		case "delimiter":
			switch val {
			case "tab", "\t":
				val = `\t`
			case "auto":
				val = ""
			}
			cfg.Delimiter = val
		case "log_level":
			switch val {
			case "debug", "info", "warn", "error":
				cfg.LogLevel = val
			default:
				return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
			}
		case "log_format":
			switch val {
			case "console", "json":
				cfg.LogFormat = val
			default:
				return fmt.Errorf("invalid log_format: %s (use console or json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
