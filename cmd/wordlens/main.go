// Package main provides the wordlens CLI.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spacesedan/wordlens/config"
	"github.com/spacesedan/wordlens/internal/app"
	"github.com/spacesedan/wordlens/internal/db"
	"github.com/spacesedan/wordlens/internal/models"
	"github.com/spacesedan/wordlens/internal/search"
)

var (
	configPath  string
	storeDriver string
	analyzeFile string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wordlens",
		Short:         "Text analysis backed by a language model",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file (overrides WORDLENS_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store", "", "store driver: memory, sqlite, postgres, valkey, dynamodb")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(os.Stdout)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			a.StartMonitor(ctx)
			return a.Serve(ctx)
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Analyze text given as an argument, with --file, or on stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), args, analyzeFile)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.Analysis.Analyze(cmd.Context(), text)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "read the text from a file")
	return cmd
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Check whether term occurs in the last analyzed text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return errors.New("term is required")
			}
			store, err := openStore(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer store.Close()

			res := search.NewService(store).Search(cmd.Context(), args[0])
			if res.Outcome == search.StorageError {
				return fmt.Errorf("search failed: %w", res.Err)
			}
			return printJSON(cmd.OutOrStdout(), models.SearchResponse{Term: res.Term, Found: res.Found()})
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the last analyzed text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("failed to reset store: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "store cleared")
			return nil
		},
	}
}

func loadConfig(logOut io.Writer) (config.Config, error) {
	if configPath != "" {
		if err := os.Setenv("WORDLENS_CONFIG", configPath); err != nil {
			return config.Config{}, err
		}
	}
	if storeDriver != "" {
		if err := os.Setenv("STORE_DRIVER", storeDriver); err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := app.Bootstrap(logOut)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func openStore(ctx context.Context, logOut io.Writer) (db.LastAnalysisStore, error) {
	cfg, err := loadConfig(logOut)
	if err != nil {
		return nil, err
	}
	return db.Open(ctx, cfg.Store)
}

// readText prefers the argument, then --file, then stdin. The text is kept
// byte for byte.
func readText(stdin io.Reader, args []string, file string) (string, error) {
	switch {
	case len(args) == 1 && file != "":
		return "", errors.New("pass text either as an argument or with --file, not both")
	case len(args) == 1:
		return args[0], nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return "", errors.New("no text given")
		}
		return string(data), nil
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
