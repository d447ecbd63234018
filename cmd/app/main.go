package main

import (
	"inn/config"
	"inn/di"
	"inn/shared/logger"

	_ "inn/docs"
)

// @title Inn API
// @version 1.0
// @description Hotel room inventory and reservation service.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
