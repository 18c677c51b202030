package utils

import (
	"os"
	"strconv"

	"github.com/Luismorlan/yatube/utils/dotenv"
	. "github.com/Luismorlan/yatube/utils/log"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

func datadogEnv() string {
	if dotenv.IsProdEnv() {
		return "production"
	}
	return "development"
}

// DatadogEnabled reports whether DD_TRACE_ENABLED turns on tracing and
// profiling. Unset or malformed means off.
func DatadogEnabled() bool {
	enabled, err := strconv.ParseBool(os.Getenv("DD_TRACE_ENABLED"))
	return err == nil && enabled
}

// StartTracer starts the Datadog tracer for the given service.
func StartTracer(serviceName string) {
	tracer.Start(
		tracer.WithService(serviceName),
		tracer.WithEnv(datadogEnv()),
	)
	Log.Info("tracer initialized")
}

// Stop tracer, OK to be closed multiple times
func CloseTracer() {
	tracer.Stop()
}
