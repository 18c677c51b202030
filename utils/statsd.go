package utils

import (
	"os"

	"github.com/DataDog/datadog-go/statsd"
	. "github.com/Luismorlan/yatube/utils/log"
)

const defaultDogStatsdAddr = "127.0.0.1:8125"

// NewDogStatsdClient returns a client to the local Datadog agent, falling back
// to a no-op client when the agent address can't be resolved.
func NewDogStatsdClient() statsd.ClientInterface {
	addr := os.Getenv("DD_DOGSTATSD_ADDR")
	if addr == "" {
		addr = defaultDogStatsdAddr
	}
	client, err := statsd.New(addr, statsd.WithNamespace("yatube."))
	if err != nil {
		Log.Warn("statsd disabled: ", err)
		return &statsd.NoOpClient{}
	}
	return client
}
