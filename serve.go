package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/donutnomad/flowcase/internal/server"
	"github.com/donutnomad/flowcase/render"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// runServe 启动 HTTP API，收到退出信号后优雅关闭
func (a *app) runServe() int {
	if !*verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(server.Options{
		Config:   a.cfg,
		Registry: render.Global(),
		Metrics:  a.metrics,
		Gatherer: prometheus.DefaultGatherer,
		Logger:   a.logger,
	})
	if err := srv.Run(ctx, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
