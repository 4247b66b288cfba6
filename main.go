package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"schooladmin_backend/internals/configs"
	database "schooladmin_backend/internals/databases"
	"schooladmin_backend/internals/events"
	yearSvc "schooladmin_backend/internals/features/school/academics/academic_years/service"
	stSvc "schooladmin_backend/internals/features/transport/student_transports/service"
	helper "schooladmin_backend/internals/helpers"
	middlewares "schooladmin_backend/internals/middlewares"
	routes "schooladmin_backend/internals/route"
	"schooladmin_backend/internals/scheduler"
)

func main() {
	configs.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          helper.ErrorHandler,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
	})
	middlewares.SetupMiddlewares(app)

	// DB connect + migrate + pool + warm-up
	database.ConnectDB()
	if err := database.RunMigrations(database.DSN()); err != nil {
		log.Fatalf("[ERROR] migrations failed: %v", err)
	}
	database.TunePool()
	database.WarmUpQueries()

	yearSvc.ActiveYears = yearSvc.NewActiveYearCache(configs.ActiveYearCacheTTL)
	stSvc.InitMidtrans(configs.MidtransServerKey, configs.MidtransUseProd)

	publisher := events.New(configs.AMQPURL, configs.AMQPExchange)
	defer publisher.Close()

	routes.SetupRoutes(app, database.DB, publisher)

	reaper, err := scheduler.StartReaper(database.DB, configs.ReaperCron, configs.ReaperRetentionDays)
	if err != nil {
		log.Fatalf("[ERROR] reaper: %v", err)
	}

	port := configs.GetEnv("PORT", "3000")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[INFO] listening on :%s", port)
		return app.Listen("0.0.0.0:" + port)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("[INFO] shutting down...")

		<-reaper.Stop().Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[ERROR] server stopped: %v", err)
		database.Close()
		os.Exit(1)
	}
	database.Close()
	log.Println("[INFO] bye")
}
