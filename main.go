package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yourusername/invoice-builder/config"
	"github.com/yourusername/invoice-builder/export"
	"github.com/yourusername/invoice-builder/handlers"
	"github.com/yourusername/invoice-builder/invoice"
	"github.com/yourusername/invoice-builder/metrics"
	"github.com/yourusername/invoice-builder/middleware"
	"github.com/yourusername/invoice-builder/storage"
	"go.uber.org/zap"
)

const serviceName = "invoice-builder"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "invoicer",
		Short:         "Invoice builder with live preview and PDF export",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(serveCmd(), exportCmd(), businessesCmd())
	return cmd
}

// app is everything a command needs: configuration, logger and a
// controller initialised from the persisted businesses.
type app struct {
	cfg        *config.Config
	log        *zap.Logger
	controller *invoice.Controller
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := config.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		// the store degrades to a session that does not persist
		log.Error("database unavailable, businesses will not be saved", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}

	var kv storage.KeyValue
	switch {
	case db != nil:
		kv = storage.NewGormKeyValue(db)
	case cfg.DBDriver == config.DriverMemory:
		kv = storage.NewMemoryKeyValue()
	}

	controller := invoice.NewController(storage.NewStore(kv, log), invoice.WithLogger(log))
	controller.Initialize(ctx)

	return &app{cfg: cfg, log: log, controller: controller}, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.log.Sync()

			gin.SetMode(gin.ReleaseMode)
			handler := handlers.NewInvoiceHandler(a.controller, export.NewExporter(a.log), a.log)
			srv := &http.Server{
				Addr:              ":" + a.cfg.Port,
				Handler:           setupRouter(handler, a.log),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info("starting server", zap.String("service", serviceName), zap.String("port", a.cfg.Port))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("failed to start server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			a.log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func exportCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the PDF of a new invoice for the selected business",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.log.Sync()

			if outDir == "" {
				outDir = a.cfg.ExportDir
			}
			path, err := export.NewExporter(a.log).ExportFile(cmd.Context(), a.controller.Invoice(), outDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (defaults to EXPORT_DIR)")
	return cmd
}

func businessesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "businesses",
		Short: "List stored businesses",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.log.Sync()

			st := a.controller.State()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "\tID\tNAME\tCURRENCY")
			for _, b := range st.Businesses {
				marker := ""
				if b.ID == st.SelectedBusinessID {
					marker = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", marker, b.ID, b.DisplayName(), b.Currency)
			}
			return tw.Flush()
		},
	}
}

func setupRouter(handler *handlers.InvoiceHandler, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORS())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Editor pages
	router.GET("/", handler.Page)
	router.GET("/preview", handler.Preview)

	api := router.Group("/api/v1")
	{
		api.GET("/state", handler.GetState)
		api.GET("/totals", handler.GetTotals)
		api.GET("/currencies", handler.ListCurrencies)

		// Invoice endpoints
		api.PATCH("/invoice", handler.UpdateInvoice)
		api.POST("/invoice/reset", handler.ResetInvoice)
		api.GET("/invoice/pdf", handler.DownloadPDF)

		// Line item endpoints
		api.POST("/line-items", handler.AddLineItem)
		api.PATCH("/line-items/:id", handler.UpdateLineItem)
		api.DELETE("/line-items/:id", handler.RemoveLineItem)

		// Business endpoints
		api.GET("/businesses", handler.ListBusinesses)
		api.POST("/businesses", handler.AddBusiness)
		api.PUT("/businesses/:id/select", handler.SelectBusiness)
		api.DELETE("/businesses/:id", handler.DeleteBusiness)
	}

	return router
}
