package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ChicagoDave/gnosis/internal/config"
	"github.com/ChicagoDave/gnosis/internal/logger"
	"github.com/ChicagoDave/gnosis/internal/server"
	"github.com/ChicagoDave/gnosis/pkg/spec"
)

// errInvalid signals a failed validation whose report was already printed.
var errInvalid = errors.New("project has validation errors")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &config.Config{}
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "gnosis",
		Short:         "Deterministic procedural city generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				loaded.Logging.Level = logLevel
			}
			logger.Init(loaded.Logging)
			*cfg = *loaded
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(serveCmd(cfg))

	return rootCmd
}

// cityFlags selects a city and optionally overrides its seed. seedSet
// records whether --seed was given, so seed 0 can be requested.
type cityFlags struct {
	city    string
	seed    uint64
	seedSet bool
}

func (f *cityFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.city, "city", "c", "", "city name (default: the project's initial city)")
	cmd.Flags().Uint64VarP(&f.seed, "seed", "s", 0, "override the city's seed")
}

func (f *cityFlags) resolve(cmd *cobra.Command) {
	f.seedSet = cmd.Flags().Changed("seed")
}

func generateCmd() *cobra.Command {
	var flags cityFlags
	var windowW, windowH int

	cmd := &cobra.Command{
		Use:   "generate [project-path]",
		Short: "Generate a city layout and print the scene JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.resolve(cmd)
			return runGenerate(cmd.OutOrStdout(), args[0], flags, windowW, windowH)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&windowW, "window-width", 0, "fit the viewport to a window of this width")
	cmd.Flags().IntVar(&windowH, "window-height", 0, "fit the viewport to a window of this height")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate every city in a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), args[0])
		},
	}
}

func statsCmd() *cobra.Command {
	var flags cityFlags

	cmd := &cobra.Command{
		Use:   "stats [project-path]",
		Short: "Generate a city layout and print its statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.resolve(cmd)
			return runStats(cmd.OutOrStdout(), args[0], flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func serveCmd(cfg *config.Config) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the local dev server for the host renderer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			project, err := spec.LoadProject(args[0])
			if err != nil {
				return fmt.Errorf("loading project: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(args[0], project, cfg)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port (overrides GNOSIS_PORT)")
	return cmd
}
