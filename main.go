package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rcrdcsnv/LifelistTracker-sub001/cmd"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/buildinfo"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/catalog"
)

// Injected at build time with -ldflags "-X main.version=... -X main.buildDate=...".
var (
	version   string
	buildDate string
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := catalog.NewApp(buildinfo.NewContext(version, buildDate), os.Stdout)
	err := cmd.RootCommand(app).ExecuteContext(ctx)
	if closeErr := app.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
