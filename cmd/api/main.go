package main

import (
	"context"
	"os"

	"github.com/cgmis/guidance/internal/cli"
	"github.com/cgmis/guidance/internal/pkg/logger"
)

// @title CGMIS API
// @version 1.0
// @description Career guidance office API: students, counseling sessions, dashboard metrics and analytics.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:4000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization, as "Bearer <token>"

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
