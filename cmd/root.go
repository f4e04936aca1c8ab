package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rcalder/wharf/internal/app"
	"github.com/rcalder/wharf/internal/config"
	"github.com/rcalder/wharf/internal/log"
	"github.com/rcalder/wharf/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "wharf",
	Short:   "A terminal workbench activity bar",
	Long:    `A terminal workbench shell with a dock of pinnable panel launchers, contributed by extension manifests and remembered across sessions.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/wharf/config.yaml)")
	rootCmd.Flags().Bool("debug", false,
		"enable debug logging")
	rootCmd.Flags().Bool("ephemeral", false,
		"keep placeholder state in memory only")
	rootCmd.Flags().StringP("manifests", "m", "",
		"extension manifest directory")

	_ = viper.BindPFlag("ephemeral", rootCmd.Flags().Lookup("ephemeral"))
	_ = viper.BindPFlag("manifest_dir", rootCmd.Flags().Lookup("manifests"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("state_path", defaults.StatePath)
	viper.SetDefault("manifest_dir", defaults.ManifestDir)
	viper.SetDefault("ephemeral", defaults.Ephemeral)
	viper.SetDefault("bar.width", defaults.Bar.Width)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .wharf/config.yaml (current directory)
		// 2. ~/.config/wharf/config.yaml (user config)
		if _, err := os.Stat(".wharf/config.yaml"); err == nil {
			viper.SetConfigFile(".wharf/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "wharf"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			home, homeErr := os.UserHomeDir()
			if homeErr == nil {
				defaultPath := filepath.Join(home, ".config", "wharf", "config.yaml")
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	if debug, _ := cmd.Flags().GetBool("debug"); debug || os.Getenv("WHARF_DEBUG") != "" {
		cleanup, err := log.InitWithTeaLog(config.DefaultLogPath(), "wharf")
		if err != nil {
			return fmt.Errorf("initializing debug log: %w", err)
		}
		defer cleanup()
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}

	zone.NewGlobal()

	model, err := app.New(cfg, provider)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, runErr := p.Run()

	if closeErr := model.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}

	if runErr != nil {
		return fmt.Errorf("running program: %w", runErr)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
