package bootstrap

import (
	"sync"

	"github.com/reecen9696/casino-rollup/common/mlog"
	"github.com/reecen9696/casino-rollup/common/mzap"
)

var (
	loggerOnce sync.Once
	sharedLogger mlog.Logger
)

// logger returns the process-wide structured logger, built once.
func logger() mlog.Logger {
	loggerOnce.Do(func() {
		sharedLogger = mzap.InitializeLogger()
	})

	return sharedLogger
}
