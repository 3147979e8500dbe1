package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"gorm.io/gorm"

	"github.com/uslanozan/asset-smith/agent"
	"github.com/uslanozan/asset-smith/config"
	"github.com/uslanozan/asset-smith/database"
	"github.com/uslanozan/asset-smith/events"
	"github.com/uslanozan/asset-smith/logger"
	"github.com/uslanozan/asset-smith/repository"
	"github.com/uslanozan/asset-smith/server"
	"github.com/uslanozan/asset-smith/telemetry"
	"github.com/uslanozan/asset-smith/tools"
)

// App servisin tüm parçalarını bir arada tutar. serve ve ask komutları aynı kurulumu kullanır.
type App struct {
	Cfg      *config.Config
	Log      *logger.Logger
	DB       *gorm.DB
	Repo     *repository.AssetRepo
	Registry *tools.Registry
	Memory   agent.MemoryStore
	Agents   *agent.Factory

	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

func NewApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (app *App, err error) {
	app = &App{Cfg: cfg, Log: log}
	defer func() {
		if err != nil {
			app.Close()
			app = nil
		}
	}()

	// 1. Tracing
	shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry, log)
	if err != nil {
		return app, err
	}
	app.onClose("tracing", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), server.ShutdownTimeout)
		defer cancel()
		return shutdownTracing(ctx)
	})

	// 2. Asset veritabanı
	app.DB, err = database.InitDB(cfg.DB, log)
	if err != nil {
		return app, err
	}
	db := app.DB
	app.onClose("asset db", func() error { return database.Close(db) })

	// 3. Olay yayıncısı
	publisher, err := newPublisher(cfg.Events, log)
	if err != nil {
		return app, err
	}
	app.onClose("publisher", publisher.Close)
	app.Repo = repository.NewAssetRepo(app.DB, log, publisher)

	// 4. Konuşma hafızası
	memory, closeMemory, err := agent.OpenMemoryStore(ctx, cfg.Memory, log)
	if err != nil {
		return app, err
	}
	app.Memory = memory
	app.onClose("memory store", closeMemory)

	// 5. Araçlar ve agent fabrikası
	app.Registry = tools.NewRegistry()
	queryTool, err := tools.NewQueryAssetsTool(app.Repo)
	if err != nil {
		return app, err
	}
	if err := app.Registry.Register(queryTool); err != nil {
		return app, err
	}
	log.Info("tools registered", "count", len(app.Registry.Specs()))

	app.Agents = &agent.Factory{
		Cfg:      cfg,
		Log:      log,
		Registry: app.Registry,
		Memory:   app.Memory,
	}
	return app, nil
}

func (a *App) Router() *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:  a.Cfg.Telemetry.ServiceName,
		Log:          a.Log,
		DB:           a.DB,
		AssetHandler: server.NewAssetHandler(a.Repo, a.Log),
		AgentHandler: server.NewAgentHandler(a.Agents, a.Registry, a.Memory, a.Log),
	})
}

// Close kaynakları açılış sırasının tersine kapatır.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(); err != nil {
			a.Log.Warn("close failed", "resource", c.name, "error", err)
		}
	}
	a.closers = nil
}

func (a *App) onClose(name string, fn func() error) {
	a.closers = append(a.closers, namedCloser{name: name, close: fn})
}

func newPublisher(cfg config.EventsConfig, log *logger.Logger) (events.Publisher, error) {
	if cfg.NATSURL == "" {
		return &events.NoopPublisher{}, nil
	}
	pub, err := events.NewNATSPublisher(cfg.NATSURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("event publisher: %w", err)
	}
	log.Info("publishing asset events", "nats_url", cfg.NATSURL)
	return pub, nil
}
