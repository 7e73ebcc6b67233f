package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinic/clinic/internal/config"
	"github.com/clinic/clinic/internal/domain/prescription"
	"github.com/clinic/clinic/internal/domain/settings"
	"github.com/clinic/clinic/internal/platform/assets"
	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/internal/platform/rxpdf"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic records API server",
	}
	root.AddCommand(serveCmd())
	root.AddCommand(dbCmd())
	root.AddCommand(renderCmd())
	return root
}

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

// loadConfig loads and validates the process configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	return db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the clinic tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := db.EnsureSchema(ctx, pool)
			if err != nil {
				return fmt.Errorf("schema bootstrap failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema ready (%d statements).\n", n)
			return nil
		},
	})
	return cmd
}

type renderOptions struct {
	id     int64
	out    string
	format string
}

func (o *renderOptions) validate() error {
	if o.id <= 0 {
		return fmt.Errorf("--id is required")
	}
	o.format = strings.ToLower(o.format)
	if o.format != "pdf" && o.format != "png" {
		return fmt.Errorf("--format must be pdf or png, got %q", o.format)
	}
	if o.out == "" {
		o.out = fmt.Sprintf("prescription_%d.%s", o.id, o.format)
	}
	return nil
}

func renderCmd() *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one prescription to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Env)

			ctx := context.Background()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			clinic, err := settings.LoadFile(cfg.SettingsFile, logger)
			if err != nil {
				return err
			}
			rc, err := newRenderConfig(cfg, clinic, logger)
			if err != nil {
				return err
			}
			svc := prescription.NewService(prescription.NewRepoPG(pool), rc, logger)

			var out []byte
			if opts.format == "png" {
				out, err = svc.RenderPreview(ctx, opts.id)
			} else {
				out, err = svc.RenderPDF(ctx, opts.id)
			}
			if err != nil {
				return err
			}
			if err := os.WriteFile(opts.out, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.out, err)
			}
			abs, _ := filepath.Abs(opts.out)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes).\n", abs, len(out))
			return nil
		},
	}
	cmd.Flags().Int64Var(&opts.id, "id", 0, "Prescription id")
	cmd.Flags().StringVar(&opts.out, "out", "", "Output file (default prescription_<id>.<format>)")
	cmd.Flags().StringVar(&opts.format, "format", "pdf", "Output format: pdf or png")
	return cmd
}

// newRenderConfig opens the asset store and builds the renderers used to
// print prescriptions.
func newRenderConfig(cfg *config.Config, clinic settings.Provider, logger zerolog.Logger) (prescription.RenderConfig, error) {
	files, err := assets.NewFSStore(cfg.AssetsDir)
	if err != nil {
		return prescription.RenderConfig{}, err
	}
	preview, err := rxpdf.NewPNGRenderer(rxpdf.DefaultPreviewScale, logger)
	if err != nil {
		return prescription.RenderConfig{}, err
	}
	return prescription.RenderConfig{
		Settings:       clinic,
		Assets:         files,
		SignatureAsset: cfg.SignatureAsset,
		PDF:            rxpdf.NewPDFRenderer(logger),
		Preview:        preview,
	}, nil
}
