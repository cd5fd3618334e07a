package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/board"
	"github.com/mesh-intelligence/taskboard/internal/httpapi"
)

// shutdownTimeout bounds how long serve waits for in-flight requests.
const shutdownTimeout = 10 * time.Second

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the taskboard HTTP API. Requests need a bearer JWT whose sub claim
is the owner id. Configure auth.secret for HS256 tokens or auth.jwks_url for
RS256 tokens.`,
		Args: args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = a.cfg.GetString(cfgKeyHTTPAddr)
			}

			auth, err := a.authenticator()
			if err != nil {
				return err
			}
			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			e := echo.New()
			e.HideBanner = true
			e.HidePort = true
			e.Use(middleware.Recover())
			e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
				AllowOrigins: []string{"*"},
				AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			}))
			httpapi.Register(e, board.NewService(backend, a.log), auth, a.log)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				a.log.WithField("addr", addr).Info("serving HTTP API")
				errc <- e.Start(addr)
			}()

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return systemError(fmt.Errorf("http server: %w", err))
				}
				return nil
			case <-ctx.Done():
			}

			a.log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				return systemError(fmt.Errorf("http shutdown: %w", err))
			}
			return nil
		},
	}
	cmd.Flags().String("addr", "", "listen address (default: config http.addr)")
	return cmd
}

// authenticator builds the bearer token validator from config. A JWKS URL
// takes precedence over a shared secret.
func (a *app) authenticator() (*httpapi.Auth, error) {
	audience := a.cfg.GetString(cfgKeyAuthAudience)
	issuer := a.cfg.GetString(cfgKeyAuthIssuer)

	if url := a.cfg.GetString(cfgKeyAuthJWKSURL); url != "" {
		jwks, err := keyfunc.Get(url, keyfunc.Options{
			RefreshInterval: time.Hour,
			RefreshErrorHandler: func(err error) {
				a.log.WithError(err).Warn("refreshing JWKS")
			},
		})
		if err != nil {
			return nil, systemError(fmt.Errorf("jwks: %w", err))
		}
		return httpapi.NewJWKSAuth(jwks, audience, issuer), nil
	}
	if secret := a.cfg.GetString(cfgKeyAuthSecret); secret != "" {
		return httpapi.NewHMACAuth([]byte(secret), audience, issuer), nil
	}
	return nil, userError(errors.New("serve: set auth.secret or auth.jwks_url in config.yaml"))
}
