// Package root contains the root command for the application
package root

import (
	"errors"

	"saikumar/sms-ledger/internal/config"
	"saikumar/sms-ledger/internal/container"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags shared by every command
type CommonFlags struct {
	ConfigFile string
	Database   string
	LogLevel   string
}

var (
	// SharedFlags holds the persistent flag values.
	SharedFlags = CommonFlags{}

	app *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "sms-ledger",
		Short: "Turn bank and UPI SMS alerts into a categorized transaction ledger.",
		Long: `sms-ledger reads exported SMS inboxes, extracts amounts, directions and
counterparties from bank and UPI alerts, assigns each message a transaction
nature and category, and keeps the result in a local SQLite ledger.`,
		SilenceUsage:       true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
	}
)

// Init registers the persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default: search ./config.yaml, ./.sms-ledger, ~/.sms-ledger)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Database, "db", "", "SQLite ledger path (overrides store.database)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (overrides log.level)")
}

func setup(cmd *cobra.Command, _ []string) error {
	if app != nil {
		return nil
	}
	config.LoadEnv()

	cfg, err := config.InitializeConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	if SharedFlags.Database != "" {
		cfg.Store.Database = SharedFlags.Database
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}

	c, err := container.NewContainer(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	app = c
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if app == nil {
		return nil
	}
	err := app.Close()
	app = nil
	return err
}

// ErrNotInitialized is returned when a command runs before setup.
var ErrNotInitialized = errors.New("application container is not initialized")

// App returns the container built for the running command.
func App() (*container.Container, error) {
	if app == nil {
		return nil, ErrNotInitialized
	}
	return app, nil
}

// SetApp installs a prebuilt container, bypassing configuration loading.
func SetApp(c *container.Container) {
	app = c
}
