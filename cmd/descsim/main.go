// Command descsim runs a simulated rendering plugin and its consumers over
// a shared region, printing descriptor statistics as it goes.
//
//	descsim -role both -config descsim.toml
//	descsim -role producer &
//	descsim -role consumer
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"gosuda.org/dodesc"
	"gosuda.org/dodesc/internal/config"
	"gosuda.org/dodesc/internal/logging"
	"gosuda.org/dodesc/internal/shm"
)

const version = "v0.1.0"

func main() {
	configPath := flag.String("config", "", "TOML configuration file (optional)")
	role := flag.String("role", "both", "Role: producer, consumer, both")
	level := flag.String("level", "", "Log level override: debug, info, warn, error")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("descsim %s\n", version)
		return
	}

	log := logging.Named("descsim")

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			log.Fatal("failed to load configuration", "err", err)
		}
		cfg = c
	}
	if *level != "" {
		cfg.Log.Level = *level
	}
	if err := logging.SetLevel(cfg.Log.Level); err != nil {
		log.Fatal("invalid log level", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if d := cfg.Sim.Duration.Std(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	if err := run(ctx, cfg, *role, *configPath); err != nil {
		log.Fatal("simulation failed", "err", err)
	}
	log.Info("simulation finished")
}

func run(ctx context.Context, cfg *config.Config, role, configPath string) error {
	_, err := simulate(ctx, cfg, role, configPath)
	return err
}

// simulate runs the roles until ctx is done and returns the producer, if
// one ran. The producer's server outlives ctx until every consumer has
// closed its sessions, so that their unregistrations are answered.
func simulate(ctx context.Context, cfg *config.Config, role, configPath string) (*producer, error) {
	if role != "producer" && role != "consumer" && role != "both" {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	log := logging.Named("descsim")

	region, err := mapRegion(cfg, role)
	if err != nil {
		return nil, err
	}
	defer region.Close()
	log.Info("region mapped", "path", region.Name(), "size", region.Size(), "role", role)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if configPath != "" {
		g.Go(func() error {
			return ignoreDone(config.Watch(ctx, configPath, func(c *config.Config) {
				if err := logging.SetLevel(c.Log.Level); err != nil {
					log.Warn("ignoring log level", "level", c.Log.Level, "err", err)
				}
			}))
		})
	}

	var (
		p        *producer
		serveErr = make(chan error, 1)
	)
	serveCtx, stopServe := context.WithCancel(context.Background())
	defer stopServe()

	if role != "consumer" {
		if p, err = newProducer(region.Bytes(), cfg); err != nil {
			return nil, err
		}
		go func() {
			err := ignoreDone(p.serve(serveCtx))
			if err != nil {
				cancel()
			}
			serveErr <- err
		}()
		g.Go(func() error { return ignoreDone(p.run(ctx)) })
	} else {
		serveErr <- nil
	}
	if role != "producer" {
		g.Go(func() error { return ignoreDone(consume(ctx, region.Bytes(), cfg)) })
	}

	err = g.Wait()
	stopServe()
	return p, errors.Join(err, <-serveErr)
}

// mapRegion creates the region for roles that run a producer and opens
// the existing one for a lone consumer.
func mapRegion(cfg *config.Config, role string) (*shm.Region, error) {
	var (
		region *shm.Region
		err    error
	)
	if role == "consumer" {
		region, err = shm.Open(cfg.Region.Path)
	} else {
		region, err = shm.Create(cfg.Region.Path, int(dodesc.SizeRegion(cfg.Layout())))
	}
	if err != nil {
		return nil, err
	}

	if cfg.Region.Pin {
		if err := region.Pin(); err != nil {
			return nil, errors.Join(err, region.Close())
		}
	}
	return region, nil
}

func ignoreDone(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// shutdownContext bounds the teardown calls made after ctx is done.
func shutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Second)
}
