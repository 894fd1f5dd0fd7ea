package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"github.com/Zachkp/portfolio/internal/assets"
	"github.com/Zachkp/portfolio/internal/blog"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/github"
	"github.com/Zachkp/portfolio/internal/log"
	"github.com/Zachkp/portfolio/internal/profile"
	"github.com/Zachkp/portfolio/internal/server"
)

func main() {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log.Configure(log.Config{Level: settings.Logging.Level, Pretty: settings.Logging.Pretty})
	logger := log.WithComponent("main")
	gin.SetMode(settings.Server.Mode)

	if err := run(settings, logger); err != nil {
		logger.Fatal().Err(err).Msg("portfolio server stopped")
	}
}

func run(settings *config.Settings, logger zerolog.Logger) error {
	cfg, err := config.LoadProfile(settings.Server.ConfigPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gh := github.NewClient(settings.GitHub.APIURL, settings.GitHub.Token, settings.GitHub.Timeout, log.WithComponent("github"))
	articles := blog.NewClient(settings.GitHub.Timeout, log.WithComponent("blog"))
	loader := profile.NewLoader(cfg, gh, articles, settings.GitHub.ProfileTTL, log.WithComponent("profile"))

	holder := config.NewHolder(settings.Server.ConfigPath, cfg, log.WithComponent("config"))
	holder.OnChange(func(next *config.Profile) {
		if next.Base != cfg.Base {
			logger.Warn().Str("base", next.Base).Msg("base changed; restart to remount routes")
		}
		loader.SetConfig(next)
	})
	if err := holder.Watch(ctx); err != nil {
		logger.Warn().Err(err).Msg("config watcher unavailable, edits need a restart")
	}
	loader.Start(ctx)

	relay := newRelay(settings)
	sessions := contact.NewSessions(settings.Contact.SessionTTL, func() *contact.Submitter {
		return contact.NewSubmitter(relay,
			contact.WithResetAfter(settings.Contact.ResetAfter),
			contact.WithLogger(log.WithComponent("contact")),
		)
	})
	defer sessions.Close()

	public := os.DirFS(".")
	images := assets.NewResolver(
		assets.NewSiteFetcher(public, cfg.Base, settings.Contact.Timeout, "static", "images"),
		log.WithComponent("assets"),
	)

	srv, err := server.New(server.Options{
		Base:      cfg.Base,
		Profiles:  loader,
		Sessions:  sessions,
		Images:    images,
		Public:    public,
		Logger:    log.WithComponent("http"),
		RateRPS:   settings.Contact.RateRPS,
		RateBurst: settings.Contact.RateBurst,
		Secure:    settings.IsRelease(),
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              ":" + settings.Server.Port,
		Handler:           srv.Handler(),
		ReadTimeout:       settings.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      settings.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", httpServer.Addr).
			Str("base", cfg.Base).
			Str("relay", settings.Contact.Relay).
			Msg("portfolio server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	loader.Wait()
	return nil
}

func newRelay(settings *config.Settings) contact.Relay {
	c := settings.Contact
	if c.Relay == config.RelaySMTP {
		return contact.NewSMTPRelay(c.SMTP.Host, c.SMTP.Port, c.SMTP.User, c.SMTP.Pass, c.SMTP.To)
	}
	return contact.NewFormRelay(c.FormURL, c.Timeout)
}
