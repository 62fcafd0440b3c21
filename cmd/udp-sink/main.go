package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/calvinmclean/challengerwifi/sink"
	"github.com/calvinmclean/challengerwifi/twchart"
)

func main() {
	var addr, twchartAddr, sessionName string
	flag.StringVar(&addr, "addr", ":8080", "UDP address to listen on")
	flag.StringVar(&twchartAddr, "twchart", "", "TWChart server address. Payloads are only printed when this is empty")
	flag.StringVar(&sessionName, "session", "Challenger WiFi", "Session name for TWChart")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var reporter sink.Reporter = sink.NoopReporter{}
	if twchartAddr != "" {
		client := twchart.NewClient(twchartAddr)
		id, err := client.CreateSession(ctx, sessionName)
		if err != nil {
			log.Fatalf("error creating session: %v", err)
		}
		log.Printf("created TWChart session %s", id)
		reporter = client
	}

	s, err := sink.Listen(addr, reporter, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("listening on %s", s.Addr())

	err = s.Run(ctx)
	if err != nil {
		log.Fatalf("error receiving payloads: %v", err)
	}
}
