package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cli/browser"
	"github.com/spf13/cobra"

	"github.com/networkteam/e2esuite/config"
	"github.com/networkteam/e2esuite/report"
)

var showReportCmd = &cobra.Command{
	Use:   "show-report [dir]",
	Short: "Serve the HTML report of the last run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShowReport,
}

var (
	portFlag   int
	hostFlag   string
	noOpenFlag bool
)

func init() {
	showReportCmd.Flags().IntVar(&portFlag, "port", 9323, "Port to serve the report on")
	showReportCmd.Flags().StringVar(&hostFlag, "host", "localhost", "Host to serve the report on")
	showReportCmd.Flags().BoolVar(&noOpenFlag, "no-open", false, "Do not open the report in a browser")
}

func runShowReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := cfg.Logger(cmd.ErrOrStderr())

	dir := config.DefaultReportDir
	if html, ok := cfg.Reporter(config.ReporterHTML); ok && html.OutputFolder != "" {
		dir = html.OutputFolder
	}
	if len(args) > 0 {
		dir = args[0]
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("no report found: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", net.JoinHostPort(hostFlag, strconv.Itoa(portFlag)))
	if err != nil {
		return fmt.Errorf("listening: %w", err)
	}

	server := &http.Server{
		Handler:           report.NewHandler(dir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := "http://" + listener.Addr().String() + "/"
	logger.Info("Serving report", "dir", dir, "url", url)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving HTML report at %s. Press Ctrl+C to quit.\n", url)

	if !noOpenFlag {
		if err := browser.OpenURL(url); err != nil {
			logger.Warn("Could not open browser", "error", err)
		}
	}

	errs := make(chan error, 1)
	go func() {
		errs <- server.Serve(listener)
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving report: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
