package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/calvinmclean/challengerwifi/controller"
	"github.com/calvinmclean/challengerwifi/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if os.Getenv("ENABLE_UI") == "true" {
		runUI(ctx)
		return
	}

	runCLI(ctx)
}

func runUI(ctx context.Context) {
	monitor := ui.NewMonitorUI()

	monitor.Run(ctx, func(ctx context.Context, cfg controller.Config) error {
		c, err := controller.New(cfg)
		if err != nil {
			return err
		}
		defer c.Close()

		c.AddObserver(monitor)
		return c.Run(ctx, io.MultiWriter(os.Stdout, monitor))
	})
}

func runCLI(ctx context.Context) {
	c, err := controller.NewFromEnv()
	if err != nil {
		log.Fatalf("error creating controller: %v", err)
	}
	defer c.Close()

	err = c.Run(ctx, os.Stdout)
	if err != nil {
		log.Fatalf("error running sequence: %v", err)
	}
}
