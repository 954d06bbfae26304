package server

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StartPprofServer starts the pprof server on a separate port.
// This should only be accessible internally or via SSH tunnel.
func StartPprofServer(port string, logger *zap.Logger) {
	pprofRouter := gin.New()
	pprof.Register(pprofRouter)

	go func() {
		logger.Info("Starting pprof server", zap.String("addr", port))
		if err := pprofRouter.Run(port); err != nil {
			logger.Error("Pprof server stopped", zap.Error(err))
		}
	}()
}
