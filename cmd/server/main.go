package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Luismorlan/yatube/app_config"
	"github.com/Luismorlan/yatube/blog"
	"github.com/Luismorlan/yatube/cache"
	"github.com/Luismorlan/yatube/feed"
	"github.com/Luismorlan/yatube/file_store"
	"github.com/Luismorlan/yatube/server"
	"github.com/Luismorlan/yatube/server/middlewares"
	. "github.com/Luismorlan/yatube/utils"
	"github.com/Luismorlan/yatube/utils/dotenv"
	. "github.com/Luismorlan/yatube/utils/flag"
	. "github.com/Luismorlan/yatube/utils/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

func cleanup() {
	CloseProfiler()
	CloseTracer()
	Log.Info("web server shutdown")
}

func newPageCache(ctx context.Context, config app_config.ServerAppConfig) (cache.PageCache, error) {
	var pageCache cache.PageCache
	switch config.CACHE_BACKEND {
	case app_config.RedisCacheBackend:
		client, err := GetRedisClient(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "connect redis")
		}
		pageCache = cache.NewRedisPageCache(client, config.IndexCacheTTL())
	default:
		pageCache = cache.NewMemoryPageCache(nil, config.IndexCacheTTL())
	}
	return cache.WithMetrics(pageCache, NewDogStatsdClient()), nil
}

func newImageStore(config app_config.ServerAppConfig) (file_store.ImageStore, error) {
	if config.IMAGE_STORE == app_config.S3ImageStore {
		return file_store.NewS3ImageStore(config.S3_REGION, config.S3_BUCKET, config.IMAGE_URL_PREFIX)
	}
	return file_store.NewLocalImageStore(config.LOCAL_IMAGE_DIR, config.IMAGE_URL_PREFIX)
}

func setupServer(ctx context.Context, config app_config.ServerAppConfig) (*server.Server, error) {
	db, err := GetDBConnection()
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}
	if err := DatabaseSetupAndMigration(db); err != nil {
		return nil, err
	}

	pageCache, err := newPageCache(ctx, config)
	if err != nil {
		return nil, err
	}
	images, err := newImageStore(config)
	if err != nil {
		return nil, err
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if dotenv.IsProdEnv() {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		Log.Warn("JWT_SECRET not set, using an insecure development secret")
		secret = "yatube-development-secret"
	}

	blogService := blog.NewService(db, images)
	return server.NewServer(
		feed.NewComposer(db, config.PAGE_SIZE),
		blogService,
		pageCache,
		images,
		middlewares.NewAuthenticator(secret, config.SessionTTL(), blogService),
	), nil
}

func main() {
	flag.Parse()
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	InitLogger()

	if DatadogEnabled() {
		StartTracer(*ServiceName)
		StartProfiler(*ServiceName)
	}
	defer cleanup()

	config, err := app_config.ParseServerAppConfig(*AppConfigPath)
	if err != nil {
		Log.Fatalf("%+v", err)
	}
	s, err := setupServer(context.Background(), config)
	if err != nil {
		Log.Fatalf("%+v", err)
	}

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(gintrace.Middleware(*ServiceName))
	s.RegisterRoutes(router)

	Log.Info("web server starts up")
	if err := router.Run(fmt.Sprintf(":%d", *Port)); err != nil {
		Log.Errorln("web server stopped: ", err)
	}
}
