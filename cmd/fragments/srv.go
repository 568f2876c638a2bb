package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fragments/internal/auth"
	"fragments/internal/config"
	"fragments/internal/convert"
	"fragments/internal/server"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the fragments API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSrv(cmd, cfg)
		},
	}
}

func runSrv(cmd *cobra.Command, cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("config not initialized")
	}
	logger := slog.Default().With("component", "server")

	addr, err := server.ListenAddr(cfg.APIURL)
	if err != nil {
		return err
	}

	if cfg.Auth.HtpasswdFile == "" {
		return fmt.Errorf("auth.htpasswd_file is required; create one with: fragments passwd <user> --file <path>")
	}
	users, err := auth.LoadHtpasswd(cfg.Auth.HtpasswdFile)
	if err != nil {
		return err
	}
	if users.Len() == 0 {
		logger.Warn("htpasswd file has no users; every request will be rejected", "path", cfg.Auth.HtpasswdFile)
	}
	logger.Info("loaded htpasswd users", "path", cfg.Auth.HtpasswdFile, "count", users.Len())

	backend, closeBackend, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer closeBackend()

	srv := server.New(addr, backend, users, server.Options{
		APIURL:       cfg.APIURL,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Engine:       convert.New(),
		Version:      version,
	}, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}
