package app_config

import (
	"io/ioutil"
	"time"

	"github.com/Luismorlan/yatube/cache"
	"github.com/Luismorlan/yatube/paginator"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	MemoryCacheBackend = "memory"
	RedisCacheBackend  = "redis"

	LocalImageStore = "local"
	S3ImageStore    = "s3"
)

// This is the app config of the web server and the cache admin tool.
type ServerAppConfig struct {
	// Posts per page on every paginated page.
	PAGE_SIZE int `yaml:"PAGE_SIZE"`
	// How long a rendered index page is served from cache.
	INDEX_CACHE_TTL_SECOND int64 `yaml:"INDEX_CACHE_TTL_SECOND"`
	// "memory" keeps the cache in process, "redis" shares it between
	// replicas and lets cache_admin invalidate it.
	CACHE_BACKEND string `yaml:"CACHE_BACKEND"`
	// "local" writes uploads under LOCAL_IMAGE_DIR and serves them from
	// /media/, "s3" uploads them to S3_BUCKET.
	IMAGE_STORE     string `yaml:"IMAGE_STORE"`
	LOCAL_IMAGE_DIR string `yaml:"LOCAL_IMAGE_DIR"`
	S3_REGION       string `yaml:"S3_REGION"`
	S3_BUCKET       string `yaml:"S3_BUCKET"`
	// Public url prefix of stored images, e.g. a CDN in front of the bucket.
	IMAGE_URL_PREFIX string `yaml:"IMAGE_URL_PREFIX"`
	// Lifetime of a login session in hours.
	SESSION_TTL_HOUR int64 `yaml:"SESSION_TTL_HOUR"`
}

func DefaultServerAppConfig() ServerAppConfig {
	return ServerAppConfig{
		PAGE_SIZE:              paginator.DefaultPerPage,
		INDEX_CACHE_TTL_SECOND: int64(cache.DefaultTTL / time.Second),
		CACHE_BACKEND:          MemoryCacheBackend,
		IMAGE_STORE:            LocalImageStore,
		LOCAL_IMAGE_DIR:        "media",
		IMAGE_URL_PREFIX:       "/media/",
		SESSION_TTL_HOUR:       14 * 24,
	}
}

// ParseServerAppConfig reads the yaml file at path on top of the defaults.
func ParseServerAppConfig(path string) (ServerAppConfig, error) {
	c := DefaultServerAppConfig()
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "read app config")
	}
	if err = yaml.Unmarshal(yamlFile, &c); err != nil {
		return c, errors.Wrap(err, "unmarshal app config")
	}
	return c, c.validate()
}

func (c ServerAppConfig) validate() error {
	if c.PAGE_SIZE <= 0 {
		return errors.Errorf("PAGE_SIZE must be positive, got %d", c.PAGE_SIZE)
	}
	if c.INDEX_CACHE_TTL_SECOND <= 0 {
		return errors.Errorf("INDEX_CACHE_TTL_SECOND must be positive, got %d", c.INDEX_CACHE_TTL_SECOND)
	}
	switch c.CACHE_BACKEND {
	case MemoryCacheBackend, RedisCacheBackend:
	default:
		return errors.Errorf("unknown CACHE_BACKEND %q", c.CACHE_BACKEND)
	}
	switch c.IMAGE_STORE {
	case LocalImageStore:
	case S3ImageStore:
		if c.S3_BUCKET == "" || c.S3_REGION == "" {
			return errors.New("IMAGE_STORE s3 needs S3_REGION and S3_BUCKET")
		}
	default:
		return errors.Errorf("unknown IMAGE_STORE %q", c.IMAGE_STORE)
	}
	return nil
}

func (c ServerAppConfig) IndexCacheTTL() time.Duration {
	return time.Duration(c.INDEX_CACHE_TTL_SECOND) * time.Second
}

func (c ServerAppConfig) SessionTTL() time.Duration {
	return time.Duration(c.SESSION_TTL_HOUR) * time.Hour
}
