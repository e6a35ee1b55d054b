package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/halvard/askgate/internal"
	"github.com/spf13/cobra"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ask/rebuild/gate API over HTTP",
		Long:  `Build the index and expose it over HTTP, with health and metrics endpoints.`,
		RunE:  runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	svc, err := loadService(cmd)
	if err != nil {
		return err
	}

	if _, err := svc.Rebuild(cmd.Context()); err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = svc.Config().Server.Addr
	}

	e := internal.NewServer(svc)

	go func() {
		<-cmd.Context().Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s\n", addr)
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
