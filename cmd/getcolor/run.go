package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hanamizuki10/get-color-for-windows/internal/dispatch"
	"github.com/hanamizuki10/get-color-for-windows/internal/logging"
	"github.com/hanamizuki10/get-color-for-windows/internal/sampler"
	"github.com/hanamizuki10/get-color-for-windows/internal/server"
	"github.com/hanamizuki10/get-color-for-windows/internal/ui"
)

const dispatchQueue = 64

func runInteractive() error {
	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.close()

	tty := ui.IsTerminal(os.Stdout)
	console := ui.NewConsole(os.Stdout, ui.WithInPlace(tty), ui.WithSwatch(tty && e.cfg.Swatch))
	views := ui.Views{console}

	var hub *server.Hub
	if serve {
		hub = server.NewHub()
		views = append(views, hub)
	}

	loop := dispatch.New(dispatchQueue)
	s, err := e.newSampler(loop, views)
	if err != nil {
		loop.Shutdown(context.Background())
		return err
	}

	var srv *server.Server
	if serve {
		srv = server.New(s, hub, e.health)
		if _, err := srv.Start(e.cfg.Listen); err != nil {
			loop.Shutdown(context.Background())
			return err
		}
	}

	loop.Post(func() { views.SetState(sampler.Stopped) })
	if e.cfg.Autostart {
		s.Start()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, quit := context.WithCancel(ctx)
	defer quit()

	go func() {
		toggle := func() {
			if _, err := s.Toggle(); err != nil {
				log.Warn("toggle", logging.KeyError, err)
			}
		}
		if err := ui.ReadKeys(ctx, os.Stdin, toggle, quit); err != nil && ctx.Err() == nil {
			log.Warn("reading keyboard input", logging.KeyError, err)
		}
	}()

	<-ctx.Done()
	shutdown(e, s, srv, loop, console.Close)
	return nil
}

func serveOnly() error {
	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.close()

	hub := server.NewHub()
	loop := dispatch.New(dispatchQueue)
	s, err := e.newSampler(loop, hub)
	if err != nil {
		loop.Shutdown(context.Background())
		return err
	}

	srv := server.New(s, hub, e.health)
	if _, err := srv.Start(e.cfg.Listen); err != nil {
		loop.Shutdown(context.Background())
		return err
	}
	if e.cfg.Autostart {
		s.Start()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdown(e, s, srv, loop, nil)
	return nil
}

// shutdown stops sampling first so nothing new is posted, then drains the
// HTTP server and the dispatch loop. finalize runs on the loop last.
func shutdown(e *env, s *sampler.Sampler, srv *server.Server, loop *dispatch.Loop, finalize func()) {
	log.Info("shutting down")
	if err := s.Close(); err != nil {
		log.Warn("sampler did not stop cleanly", logging.KeyError, err)
	}

	if srv != nil {
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Warn("http server shutdown", logging.KeyError, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.StopTimeout()+time.Second)
	defer cancel()
	if finalize != nil {
		loop.Call(ctx, finalize)
	}
	loop.Shutdown(ctx)
}
