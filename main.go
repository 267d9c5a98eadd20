package main

import (
	"github.com/feipenta/penta-web/internal/config"
	"github.com/feipenta/penta-web/internal/logger"
	"github.com/feipenta/penta-web/internal/server"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		panic(err)
	}
	logger.Infof("service is starting, host: %s, port: %s", cfg.Server.Host, cfg.Server.Port)
	server.Start(cfg)
}
