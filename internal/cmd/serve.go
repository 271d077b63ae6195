package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"samovar/internal/commons"
	"samovar/internal/config"
	"samovar/internal/dto"
	"samovar/internal/infrastructure/logger"
	"samovar/internal/infrastructure/metrics"
	"samovar/internal/infrastructure/mysql"
	"samovar/internal/infrastructure/rabbitmq"
	"samovar/internal/message"
	"samovar/internal/notification"
	"samovar/internal/order"
	"samovar/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return commons.LoadConfig(configPath)
	}
	return config.Load()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Error("connecting to database", zap.Error(err))
		return err
	}
	defer db.Close()
	zapLogger.Info("database connected")

	broker, err := rabbitmq.Connect(cfg.Broker.URL)
	if err != nil {
		zapLogger.Error("connecting to broker", zap.Error(err))
		return err
	}
	defer broker.Close()

	if err := broker.DeclareFanout(dto.OrdersExchange, dto.OrdersQueue); err != nil {
		return err
	}
	if err := broker.DeclareFanout(dto.MessagesExchange, dto.MessagesQueue); err != nil {
		return err
	}
	zapLogger.Info("broker connected")

	sweepMetrics := metrics.NewSweepMetrics()
	serverMetrics := metrics.NewServerMetrics()

	orderModule := order.NewModule(db, cfg, broker, sweepMetrics, zapLogger)
	messageCtrl := message.NewModule(db, broker, zapLogger)

	hub := notification.NewHub(broker, zapLogger)
	manager := notification.NewManager(hub, cfg.Notify.DismissAfter, zapLogger)
	notificationCtrl := notification.NewController(manager, zapLogger)

	router := server.NewRouter(server.RouterConfig{
		Orders:        orderModule,
		Messages:      messageCtrl,
		Notifications: notificationCtrl,
		CronSecret:    cfg.Order.CronSecret,
		Metrics:       serverMetrics,
	}, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server shutdown failed", zap.Error(err))
		return err
	}

	zapLogger.Info("server stopped gracefully")
	return nil
}
