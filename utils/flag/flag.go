/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across binaries and
	service-agnostic. Call flag.Parse() from main, never from init, otherwise
	go test flags are rejected.
*/

package flag

import (
	"flag"
)

const (
	WebServer  = "web_server"
	CacheAdmin = "cache_admin"
)

var (
	ServiceName   *string
	AppConfigPath *string
	Port          *int
)

func init() {
	ServiceName = flag.String("service", WebServer, "'web_server' or 'cache_admin'")
	AppConfigPath = flag.String("app_config_path", "cmd/server/config.yaml", "path to server app config")
	Port = flag.Int("port", 8080, "port the web server listens on")
}
