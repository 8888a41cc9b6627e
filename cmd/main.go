package main

import (
	"os"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/app"

	"github.com/sirupsen/logrus"
)

// @title Money Transfer Comparison API
// @version 1.0
// @description Compares money-transfer costs across providers.
// @BasePath /api/v1
func main() {
	if err := app.Run(); err != nil {
		logrus.WithError(err).Error("Application terminated with error")
		os.Exit(1)
	}
}
