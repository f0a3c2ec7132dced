package cmd

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gatehouse-sec/gatehouse/internal/acl"
	"github.com/gatehouse-sec/gatehouse/internal/api"
	"github.com/gatehouse-sec/gatehouse/internal/csrf"
	"github.com/gatehouse-sec/gatehouse/internal/logging"
	"github.com/gatehouse-sec/gatehouse/internal/service"
	"github.com/gatehouse-sec/gatehouse/internal/source"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Gatehouse server",
	Long: `Serves the decision API: access checks, anti-forgery sessions and
	tokens, and the admin surface (explain, rules, audits).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := f.LoadPolicyConfig()
		if err != nil {
			return fmt.Errorf("loading policy: %w", err)
		}

		manager, err := acl.NewManager(cfg.Rules)
		if err != nil {
			return fmt.Errorf("building rule set: %w", err)
		}
		log.Info().Msgf("Loaded %d access entries", manager.Current().Len())

		tokens, err := csrf.NewService(cfg.CSRF)
		if err != nil {
			return fmt.Errorf("building token service: %w", err)
		}

		auditor, err := BuildAuditor(cfg.Audit)
		if err != nil {
			return fmt.Errorf("building auditor: %w", err)
		}
		defer func() {
			if err := auditor.Close(); err != nil {
				log.Error().Err(err).Msg("closing auditor")
			}
		}()

		adminKey, err := resolveAdminKey()
		if err != nil {
			return err
		}

		guard := service.NewGuard(manager, tokens, csrf.NewKeyring(), auditor)
		srv := api.NewServer(guard, auditor)

		server := &http.Server{
			Addr:    addr,
			Handler: srv.Routes(adminKey),
		}

		// background reload keeps the rule set in sync with the file
		reloadCtx, stopReload := context.WithCancel(cmd.Context())
		defer stopReload()
		if cfg.Reload != nil {
			src := source.NewFileSource(
				f.PolicyPath,
				cfg.Reload.Interval,
				manager,
				logging.NewZLogger(log.Logger),
			)
			go src.Run(reloadCtx)
			log.Info().Msgf("Reloading policy every %s", cfg.Reload.Interval)
		}

		go func() {
			log.Info().Msgf("Starting server on %s...", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

// resolveAdminKey returns the signing key for admin route tokens. Without a
// configured key an ephemeral one is generated; admin tokens then only work
// for the lifetime of this process.
func resolveAdminKey() ([]byte, error) {
	if encoded := viper.GetString(AdminKeyKey); encoded != "" {
		key, err := base64.RawURLEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decoding admin key: %w", err)
		}
		return key, nil
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating admin key: %w", err)
	}
	log.Warn().Msg("No admin key configured, generated an ephemeral one. " +
		"Set GATEHOUSE_ADMIN_KEY to keep admin tokens valid across restarts.")
	return key, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "address to listen on")
	serveCmd.Flags().String("admin-key", "", "base64url signing key for admin tokens")
	_ = viper.BindPFlag(AdminKeyKey, serveCmd.Flags().Lookup("admin-key"))

	f.bindPolicyFlag(serveCmd.Flags())
	_ = serveCmd.MarkFlagRequired("policy")
}
