package main

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/naughtygopher/proberesponder"
	proberespHTTP "github.com/naughtygopher/proberesponder/extensions/http"
	"go.mongodb.org/mongo-driver/mongo"

	xhttp "github.com/prashantkr001/catalog-go/cmd/server/http"
	"github.com/prashantkr001/catalog-go/internal/api"
	"github.com/prashantkr001/catalog-go/internal/config"
	"github.com/prashantkr001/catalog-go/internal/item"
	"github.com/prashantkr001/catalog-go/internal/pkg/logger"
)

func startCatalogHTTPServer(
	ctx context.Context,
	pResp *proberesponder.ProbeResponder,
	fatalErr chan<- error,
	apis *api.API,
	cfg *xhttp.Config,
) (*xhttp.HTTP, error) { //nolint:unparam,nolintlint
	catalogServer := xhttp.New(apis, cfg)
	go func() {
		defer logger.InfoCtx(ctx, fmt.Sprintf("[http] %s:%d shutdown complete", cfg.Host, cfg.Port))
		logger.InfoCtx(ctx, fmt.Sprintf("[http] listening on %s:%d", cfg.Host, cfg.Port))
		pResp.AppendHealthResponse(
			"http/catalogserver",
			fmt.Sprintf("OK: %s", time.Now().Format(time.RFC3339)),
		)
		fatalErr <- catalogServer.Start()
	}()

	return catalogServer, nil
}

func startHealthResponder(
	ctx context.Context,
	ps *proberesponder.ProbeResponder,
	fatalErr chan<- error,
) (*http.Server, error) { //nolint:unparam,nolintlint
	const port = uint16(2000)
	srv := proberespHTTP.Server(ps, "", port)
	go func() {
		defer logger.InfoCtx(ctx, fmt.Sprintf("[http/healthresponder] :%d shutdown complete", port))
		logger.InfoCtx(ctx, fmt.Sprintf("[http/healthresponder] listening on :%d", port))
		fatalErr <- srv.ListenAndServe()
	}()
	return srv, nil
}

// initItemService selects the repository implementation at startup based on
// configuration and injects it into the item service. The returned mongo client
// is nil for the in-memory backend.
func initItemService(ctx context.Context, cfg *config.Config) (*mongo.Client, *item.Service, error) {
	if cfg.Storage.Backend == config.StorageBackendMemory {
		logger.InfoCtx(ctx, "[storage] using in-memory item store")
		itemSvc, err := item.NewService(item.NewMemoryPersistentStore(cfg.Storage.SeedDemoItems))
		return nil, itemSvc, err
	}

	mongoClient, mongoDB, err := initializeMongoDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	itemPersistence, err := item.NewMongoPersistentStore(ctx, mongoDB, cfg.MongoDB.Collection)
	if err != nil {
		return nil, nil, err
	}

	itemSvc, err := item.NewService(itemPersistence)
	return mongoClient, itemSvc, err
}

func start(
	ctx context.Context,
	cfg *config.Config,
	probestatus *proberesponder.ProbeResponder,
	fatalErr chan<- error,
) (
	mongoClient *mongo.Client,
	hserver *xhttp.HTTP,
) {
	err := initAPM(ctx, cfg)
	if err != nil {
		panic(err)
	}

	mongoClient, itemService, err := initItemService(ctx, cfg)
	if err != nil {
		panic(err)
	}

	apiService := api.NewService(itemService)

	hConfig := xhttp.Config(cfg.HTTP)
	hConfig.EnableAccesslog = slices.Contains(
		[]string{config.EnvDevelopment, config.EnvCI},
		cfg.Environment,
	)
	hserver, err = startCatalogHTTPServer(ctx, probestatus, fatalErr, apiService, &hConfig)
	if err != nil {
		panic(err)
	}

	return mongoClient, hserver
}
