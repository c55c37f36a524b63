package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/gitscribe/internal/cli"
	"github.com/temirov/gitscribe/internal/utils"
)

// main is the entry point for the gitscribe command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(false)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage, zap.Error(applicationExecutionError))
	}
}
