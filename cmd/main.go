package main

import (
	"context"
	"os"

	"github.com/desertthunder/cloudup/internal/shared"
)

func main() {
	runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(nil)})
	app := rootCommand(runner)

	if err := app.Run(context.Background(), os.Args); err != nil {
		runner.logger.Fatalf("application error: %v", err)
	}
}
