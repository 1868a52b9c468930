package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"terravox/internal/config"
	"terravox/internal/viewer"
	"terravox/internal/world"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML settings file (optional)")
		seed       = flag.Int64("seed", 0, "terrain seed; overrides the config file when nonzero")
		ticks      = flag.Int("ticks", 600, "ticks to run before exiting; 0 runs until interrupted")
		feedAddr   = flag.String("feed", "", "websocket mesh feed listen address, e.g. :8080 (empty disables)")
		flat       = flag.Bool("flat", false, "flat plane terrain instead of noise")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			log.Fatalf("terravox: %v", err)
		}
		cfg = loaded
	}
	cfg.Apply()
	if *seed != 0 {
		cfg.Seed = *seed
	}

	var field *world.Field
	if *flat {
		field = world.NewFlatField(cfg.Field.GroundLevel)
	} else {
		field = world.NewField(cfg.Seed, cfg.Field)
	}

	manager := world.NewManager(field)
	defer manager.Close()

	ctx, cancel := signalContext()
	defer cancel()

	run := &runState{manager: manager}

	if *feedAddr != "" {
		feed, err := viewer.NewFeed()
		if err != nil {
			log.Fatalf("terravox: %v", err)
		}
		defer feed.Close()
		feed.Attach(manager)
		feed.OnViewer(run.requestViewer)
		run.feed = feed

		mux := http.NewServeMux()
		mux.Handle("/ws", feed)
		srv := &http.Server{
			Addr:              *feedAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			_ = srv.Shutdown(shutdownCtx)
		}()
		go func() {
			log.Printf("terravox: mesh feed listening on %s", *feedAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("terravox: feed: %v", err)
			}
		}()
	}

	fmt.Printf("terravox seed=%d flat=%v render=%d vertical=%d ticks=%d\n",
		cfg.Seed, *flat, config.GetRenderDistance(), config.GetVerticalRange(), *ticks)

	run.loop(ctx, *ticks, *feedAddr != "")
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
