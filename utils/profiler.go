package utils

import (
	. "github.com/Luismorlan/yatube/utils/log"
	"gopkg.in/DataDog/dd-trace-go.v1/profiler"
)

// StartProfiler starts the Datadog continuous profiler. Failing to start is
// not fatal for a web server, it only loses profiles.
func StartProfiler(serviceName string) {
	if err := profiler.Start(
		profiler.WithService(serviceName),
		profiler.WithEnv(datadogEnv()),
		profiler.WithProfileTypes(
			profiler.CPUProfile,
			profiler.HeapProfile,
		),
	); err != nil {
		Log.Error("fail to start profiler: ", err)
	}
}

// Stop profiler, OK to be closed multiple times
func CloseProfiler() {
	profiler.Stop()
}
