// cache_admin drops every cached index page from the shared redis page
// cache, so all web server replicas render fresh pages on their next request.
//
//	go run cmd/cache_admin/main.go -app_config_path=cmd/server/config.yaml
package main

import (
	"context"
	"flag"
	"time"

	"github.com/Luismorlan/yatube/app_config"
	"github.com/Luismorlan/yatube/cache"
	. "github.com/Luismorlan/yatube/utils"
	"github.com/Luismorlan/yatube/utils/dotenv"
	. "github.com/Luismorlan/yatube/utils/flag"
	. "github.com/Luismorlan/yatube/utils/log"
)

const invalidateTimeout = 30 * time.Second

func main() {
	flag.Set("service", CacheAdmin)
	flag.Parse()
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	InitLogger()

	config, err := app_config.ParseServerAppConfig(*AppConfigPath)
	if err != nil {
		Log.Fatalf("%+v", err)
	}
	if config.CACHE_BACKEND != app_config.RedisCacheBackend {
		Log.Warnf("CACHE_BACKEND is %q, each web server holds its own cache that expires in %s", config.CACHE_BACKEND, config.IndexCacheTTL())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
	defer cancel()
	client, err := GetRedisClient(ctx)
	if err != nil {
		Log.Fatalln("fail to connect redis: ", err)
	}
	defer client.Close()

	pageCache := cache.WithMetrics(cache.NewRedisPageCache(client, config.IndexCacheTTL()), NewDogStatsdClient())
	if err := pageCache.Invalidate(ctx); err != nil {
		Log.Fatalf("fail to invalidate page cache: %+v", err)
	}
	Log.Info("page cache invalidated")
}
