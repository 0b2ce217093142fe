package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/temirov/dirtree/internal/cli"
	"github.com/temirov/dirtree/internal/utils"
)

// main is the entry point for the dirtree command.
func main() {
	debugEnabled, _ := strconv.ParseBool(os.Getenv(utils.DebugEnvironmentVariable))
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(debugEnabled)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(loggerInstance); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
