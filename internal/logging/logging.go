// Package logging configures the process-wide apex/log setup. The level
// comes from the GROUNDWORK_LOG env variable; handlers and commands share
// the same initialization.
package logging

import (
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/json"
)

// Init installs the log handler and level. Interactive commands get the cli
// handler; Lambda runtimes log JSON lines so CloudWatch can index fields.
func Init() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		log.SetHandler(json.New(os.Stdout))
	} else {
		log.SetHandler(cli.New(os.Stderr))
	}
	log.SetLevel(levelFromEnv())
}

func levelFromEnv() log.Level {
	switch strings.ToLower(os.Getenv("GROUNDWORK_LOG")) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}
