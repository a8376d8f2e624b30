package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"farmer-market-web/internal/apiclient"
	"farmer-market-web/internal/app"
	"farmer-market-web/internal/config"
	"farmer-market-web/internal/logger"
	"farmer-market-web/internal/storage"

	"github.com/spf13/cobra"
)

// cliNamespace keeps the CLI's keys apart from browser sessions on a shared
// backend.
const cliNamespace = "cli"

// cli carries the state shared by every subcommand.
type cli struct {
	cfg     *config.Config
	asJSON  bool
	backend storage.Backend
	app     *app.Container
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	c := &cli{cfg: cfg}

	root := &cobra.Command{
		Use:   "farmer",
		Short: "Farmer market client from the terminal",
		Long: `farmer drives the same stores, session and account flows the web client
uses, backed by a local key-value store.

State persists between runs, so "farmer signin" followed by "farmer nav
/dashboard" behaves like a browser that stayed signed in.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return c.close()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&cfg.StorageDriver, "driver", cfg.StorageDriver, "storage driver: memory, file, sqlite, postgres or redis")
	f.StringVar(&cfg.StoragePath, "store", cfg.StoragePath, "storage directory for the file and sqlite drivers")
	f.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "marketplace API base URL")
	f.BoolVar(&c.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(
		c.navCmd(),
		c.whoamiCmd(),
		c.signinCmd(),
		c.logoutCmd(),
		c.produceCmd(),
		c.deliveriesCmd(),
		c.ordersCmd(),
		c.systemCmd(),
	)
	return root
}

func (c *cli) open(ctx context.Context) error {
	if c.app != nil {
		return nil
	}
	backend, err := storage.Open(ctx, c.cfg)
	if err != nil {
		return err
	}
	api := apiclient.New(c.cfg.APIBaseURL, c.cfg.RequestTimeout)
	container, err := app.New(ctx, storage.Namespace(backend, cliNamespace), api)
	if err != nil {
		backend.Close()
		return err
	}
	c.backend = backend
	c.app = container
	return nil
}

func (c *cli) close() error {
	if c.backend == nil {
		return nil
	}
	err := c.backend.Close()
	c.backend, c.app = nil, nil
	return err
}

// print writes v as indented JSON when --json is set, otherwise text.
func (c *cli) print(w io.Writer, v any, text func(io.Writer)) error {
	if c.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func main() {
	cfg := config.LoadConfig()
	logger.Init("cli")
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
