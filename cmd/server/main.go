package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ignatzorin/gig-marketplace/internal/config"
	"github.com/ignatzorin/gig-marketplace/internal/db"
	"github.com/ignatzorin/gig-marketplace/internal/domain/event"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/goroutine"
	httpRouter "github.com/ignatzorin/gig-marketplace/internal/http/router"
	"github.com/ignatzorin/gig-marketplace/internal/infrastructure/events"
	"github.com/ignatzorin/gig-marketplace/internal/infrastructure/memory"
	"github.com/ignatzorin/gig-marketplace/internal/infrastructure/persistence"
	"github.com/ignatzorin/gig-marketplace/internal/interface/http/handler"
	"github.com/ignatzorin/gig-marketplace/internal/logger"
	"github.com/ignatzorin/gig-marketplace/internal/service"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/bid"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/gig"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/lifecycle"
	"github.com/ignatzorin/gig-marketplace/internal/ws"
)

// storage: выбранная реализация хранилища.
type storage struct {
	uow   repository.UnitOfWork
	gigs  repository.GigRepository
	bids  repository.BidRepository
	users repository.UserRepository
	db    *sqlx.DB
}

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if cfg.Env == "development" {
		logger.SetTextFormatter()
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("main: не удалось подготовить хранилище")
	}
	if store.db != nil {
		defer safeClose(store.db)
	}

	hub := ws.NewHub()
	publisher, closePublisher := buildPublisher(ctx, cfg, hub)
	defer closePublisher()

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	authService := service.NewAuthService(store.users, tokenManager)
	engine := lifecycle.NewEngine(store.uow, publisher, lifecycle.WithOperationTimeout(cfg.RequestTimeout))

	handlers := httpRouter.Handlers{
		Auth: handler.NewAuthHandler(authService, handler.CookieConfig{
			Name:   cfg.AuthCookieName,
			Secure: cfg.IsProduction(),
		}),
		Gig: handler.NewGigHandler(
			gig.NewCreateGigUseCase(store.gigs),
			gig.NewGetGigUseCase(store.gigs, store.users),
			gig.NewListOpenGigsUseCase(store.gigs, store.users),
			gig.NewListMyGigsUseCase(store.gigs),
		),
		Bid: handler.NewBidHandler(
			engine,
			bid.NewListGigBidsUseCase(store.gigs, store.bids, store.users),
			bid.NewListMyBidsUseCase(store.bids, store.gigs),
		),
		WS:     handler.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins),
		Health: handler.NewHealthHandler(store.db),
	}

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httpRouter.SetupRouter(cfg, handlers, tokenManager),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		logger.WithFields(logrus.Fields{"port": cfg.HTTPPort, "storage": cfg.StorageDriver}).Info("main: HTTP сервер запущен")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Завершаем сервер при получении сигнала.
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: ошибка остановки http сервера")
		}
		// дожидаемся публикации событий, запущенных до остановки
		if err := goroutine.DefaultRecoveryHandler.Wait(shutdownCtx); err != nil {
			logger.Log.WithError(err).Warn("main: фоновые задачи не завершились")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Log.WithError(err).Fatal("main: сервер завершился с ошибкой")
	}
	logger.Log.Info("main: сервер остановлен")
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Log.Warn("main: используется хранилище в памяти, данные не сохраняются между запусками")
		s := memory.NewStore()
		return &storage{uow: s, gigs: s.Gigs(), bids: s.Bids(), users: s.Users()}, nil
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.PoolConfig{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(dbConn); err != nil {
		safeClose(dbConn)
		return nil, err
	}

	return &storage{
		uow:   persistence.NewUnitOfWork(dbConn),
		gigs:  persistence.NewGigRepositoryAdapter(dbConn),
		bids:  persistence.NewBidRepositoryAdapter(dbConn),
		users: persistence.NewUserRepositoryAdapter(dbConn),
		db:    dbConn,
	}, nil
}

// buildPublisher собирает доставку событий: WebSocket всегда, RabbitMQ при заданном AMQP_URL.
func buildPublisher(ctx context.Context, cfg *config.Config, hub *ws.Hub) (event.Publisher, func()) {
	publishers := events.MultiPublisher{events.NewHubPublisher(hub)}
	if cfg.AMQPURL == "" {
		return publishers, func() {}
	}

	conn, ch, err := events.Connect(ctx, cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		// без брокера сервис работает, события уходят только в WebSocket
		logger.Log.WithError(err).Error("main: RabbitMQ недоступен")
		return publishers, func() {}
	}

	publishers = append(publishers, events.NewAMQPPublisher(ch, cfg.AMQPExchange))
	return publishers, func() {
		_ = ch.Close()
		if err := conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("main: ошибка закрытия соединения RabbitMQ")
		}
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Log.WithError(err).Error("main: ошибка закрытия базы")
	}
}
