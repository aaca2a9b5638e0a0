package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"babylog/internal/grpcweb"
	"babylog/internal/handler"
	"babylog/internal/i18n"
	"babylog/internal/middleware"
	"babylog/internal/report"
	"babylog/internal/rpc"
	"babylog/internal/telegram"
	"babylog/internal/tracker"
	"babylog/internal/tz"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the telegram bot and the grpc server",
		Long: `Run every enabled transport until SIGINT or SIGTERM.

The telegram bot runs when BOT_TOKEN is set; the grpc server runs unless
GRPC_PORT=off; the grpc-web bridge runs when WEB_PORT is set. The schema
is applied at startup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) (err error) {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if !cfg.TelegramEnabled() && !cfg.GRPCEnabled() {
		return errors.New("nothing to serve: set BOT_TOKEN or GRPC_PORT")
	}
	tag, err := i18n.Parse(cfg.Locale)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, st.Close()) }()
	if err := st.Migrate(ctx); err != nil {
		return err
	}
	log.Info("storage ready", zap.String("backend", cfg.StorageBackend))

	locker, closeLocker, err := newLocker(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeLocker()) }()

	zones := tz.NewResolver(st, tz.SystemZones(), locker)
	sleep := tracker.NewSleepTracker(zones, st, locker, nil, log.Named("sleep"))
	feeding := tracker.NewFeedingRecorder(zones, st, nil, log.Named("feeding"))
	reports := report.NewBuilder(st, zones, nil)

	rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer rl.Stop()

	var (
		lis     net.Listener
		grpcSrv *grpc.Server
		httpSrv *http.Server
		bot     *telegram.Bot
	)

	if cfg.GRPCEnabled() {
		lis, err = net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		grpcSrv = rpc.NewServer(rpc.NewService(zones, sleep, feeding, reports, log.Named("rpc")), rl, log.Named("rpc"))
	}

	if cfg.WebEnabled() {
		var bridge *grpcweb.Bridge
		bridge, err = grpcweb.New("localhost:"+cfg.GRPCPort, log.Named("grpcweb"))
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, bridge.Close()) }()
		httpSrv = &http.Server{
			Addr:              ":" + cfg.WebPort,
			Handler:           bridge.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	if cfg.TelegramEnabled() {
		var api *tgbotapi.BotAPI
		api, err = telegram.Connect(cfg.BotToken)
		if err != nil {
			return err
		}
		h := handler.New(handler.Deps{
			Zones:   zones,
			Sleep:   sleep,
			Feeding: feeding,
			Reports: reports,
			Prompts: st,
			Locale:  tag,
			Log:     log.Named("handler"),
		})
		bot = telegram.New(api, h, rl, log.Named("telegram"))
	}

	g, gctx := errgroup.WithContext(ctx)

	if grpcSrv != nil {
		g.Go(func() error {
			log.Info("grpc listening", zap.String("addr", lis.Addr().String()))
			return grpcSrv.Serve(lis)
		})
		g.Go(func() error {
			<-gctx.Done()
			grpcSrv.GracefulStop()
			return nil
		})
	}

	if httpSrv != nil {
		g.Go(func() error {
			log.Info("grpc-web listening", zap.String("addr", httpSrv.Addr))
			if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		})
	}

	if bot != nil {
		g.Go(func() error { return bot.Run(gctx) })
	}

	err = g.Wait()
	log.Info("shutting down")
	return err
}
