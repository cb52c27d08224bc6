package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hema-storefront/internal/cart"
	"hema-storefront/internal/catalog"
	"hema-storefront/internal/checkout"
	"hema-storefront/internal/config"
	"hema-storefront/internal/database"
	cartHandler "hema-storefront/internal/handler/cart"
	checkoutHandler "hema-storefront/internal/handler/checkout"
	storefrontHandler "hema-storefront/internal/handler/storefront"
	cartRepository "hema-storefront/internal/repository/cart"
	productRepository "hema-storefront/internal/repository/product"
	"hema-storefront/internal/search"
	"hema-storefront/internal/server"

	Firestore "firebase.google.com/go/v4"

	cartEventPublisher "hema-storefront/internal/eventpublisher/cart"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

const memoryCacheSize = 1024

type repositories struct {
	products productRepository.IRepository
	cart     cartRepository.IRepository
	close    func()
}

func main() {

	cnf := config.LoadConfigOrPanic()
	setupLogger(cnf.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	defer close(sigs)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	restClient := database.NewRestClient(cnf.Backend.Url, cnf.Backend.ApiKey, cnf.Backend.RequestTimeout)

	repos := createRepositoriesOrPanic(ctx, cnf, restClient)
	defer repos.close()

	embeddings := createEmbeddingCache(ctx, cnf.Redis)

	publisher := cartEventPublisher.New()
	catalogService := catalog.NewService(repos.products)
	cartSync := cart.NewSynchronizer(repos.cart, cnf.Storefront.CustomerId, publisher)
	searchClient := search.NewClient(restClient, cnf.Backend.SearchFunction)
	similar := search.NewSimilar(restClient, cnf.Backend.SimilarityRPC, repos.products)
	gate := search.Gate{
		Threshold:    cnf.Storefront.RelevanceThreshold,
		FallbackSize: cnf.Storefront.FallbackSize,
	}

	if !cnf.Log.Pretty {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := server.New(cnf.HTTP.Port, cnf.HTTP.Timeout,
		storefrontHandler.New(catalogService, searchClient, embeddings, similar, gate, cnf.Storefront.PageSize),
		cartHandler.New(cartSync, catalogService, publisher),
		checkoutHandler.New(cartSync, checkout.NewCalculator(cnf.Storefront.DeliveryFee)),
	)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return publisher.Start(gctx)
	})

	snap := cartSync.Load(gctx)
	log.Info().Int("items", len(snap.Items)).Int("count", snap.Count).Msg("cart loaded")

	group.Go(func() error {
		return srv.Start(gctx)
	})

	select {
	case <-sigs:
		// Received a termination signal, continue to shutdown
	case <-gctx.Done():
		// errgroup encountered an error, continue to shutdown
	}

	cancel() // cancel the root context to signal all the consumers

	done := make(chan error, 1)
	go func() { done <- group.Wait() }()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("storefront stopped with error")
			os.Exit(1)
		}
		log.Info().Msg("storefront stopped")
	case <-time.After(time.Second * 5):
		log.Warn().Msg("shutdown grace period expired")
		os.Exit(1)
	case <-sigs:
		// Forcefully terminate the app with a signal
		os.Exit(1)
	}
}

func setupLogger(cnf config.Log) {
	level, err := zerolog.ParseLevel(cnf.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cnf.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func createRepositoriesOrPanic(ctx context.Context, cnf config.Config, restClient *database.RestClient) repositories {
	switch cnf.Backend.Driver {
	case config.DriverPostgres:
		db := createPostgresOrPanic(ctx, cnf.Postgres)
		return repositories{
			products: productRepository.NewPostgres(db),
			cart:     cartRepository.NewPostgres(db),
			close:    func() { db.Close() },
		}

	case config.DriverFirestore:
		app := createFirestoreAppOrPanic(ctx, cnf.Firebase)
		firestoreClient := createFirestoreClientOrPanic(ctx, app, cnf.Firebase.WriteTimeoutSecond)
		return repositories{
			products: productRepository.New(&firestoreClient),
			cart:     cartRepository.New(&firestoreClient),
			close:    func() { firestoreClient.Close() },
		}
	}

	return repositories{
		products: productRepository.NewRest(restClient),
		cart:     cartRepository.NewRest(restClient),
		close:    func() {},
	}
}

func createPostgresOrPanic(ctx context.Context, cnf config.Postgres) *sql.DB {
	db, err := database.OpenPostgres(ctx, cnf.Dsn)
	if err != nil {
		panic(err)
	}
	return db
}

func createFirestoreAppOrPanic(ctx context.Context, cnf config.Firebase) *Firestore.App {
	FirestoreCreds, err := json.Marshal(cnf)
	if err != nil {
		panic(err)
	}

	sa := option.WithCredentialsJSON(FirestoreCreds)
	app, err := Firestore.NewApp(ctx, &Firestore.Config{ProjectID: cnf.ProjectId}, sa)
	if err != nil {
		panic(err)
	}
	return app
}

func createFirestoreClientOrPanic(ctx context.Context, app *Firestore.App, writeTimeout time.Duration) database.FirestoreClient {
	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		panic(err)
	}
	return database.New(firestoreClient, writeTimeout)
}

// createEmbeddingCache prefers redis when configured and falls back to process memory.
func createEmbeddingCache(ctx context.Context, cnf config.Redis) search.EmbeddingCache {
	if cnf.Addr == "" {
		return search.NewMemoryCache(cnf.TTL, memoryCacheSize)
	}

	client, err := search.OpenRedis(ctx, cnf.Addr, cnf.Password, cnf.DB)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, caching embeddings in memory")
		return search.NewMemoryCache(cnf.TTL, memoryCacheSize)
	}
	return search.NewRedisCache(client, cnf.TTL)
}
