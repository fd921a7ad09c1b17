package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/san-kum/tcvsim/internal/config"
	"github.com/san-kum/tcvsim/internal/sim"
)

// Server replays a scenario in real time onto a Hub, restarting it each
// time the duration elapses.
type Server struct {
	hub      *Hub
	scenario *config.Scenario
	fps      int
	logger   *slog.Logger
}

func NewServer(sc *config.Scenario, fps int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if fps < 1 {
		fps = 60
	}
	return &Server{
		hub:      NewHub(logger),
		scenario: sc,
		fps:      fps,
		logger:   logger,
	}
}

func (s *Server) Hub() *Hub { return s.hub }

// Handler serves the frame stream on /ws and the scenario on /scenario.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.hub.ServeWS)
	mux.HandleFunc("/scenario", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.scenario); err != nil {
			s.logger.Warn("encoding scenario", "err", err)
		}
	})
	return mux
}

// Simulate loops the scenario until ctx is done, broadcasting one frame per
// tick of the frame rate.
func (s *Server) Simulate(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()

	for pass := 1; ; pass++ {
		world, err := s.scenario.Build()
		if err != nil {
			return err
		}

		simulator := sim.New(world).WithLogger(s.logger)
		simulator.AddObserver(s.hub)

		s.logger.Info("streaming scenario", "scenario", s.scenario.Name, "pass", pass)
		err = simulator.RunWithCallback(ctx, s.scenario.SimConfig(), func(sim.Frame) bool {
			select {
			case <-ctx.Done():
				return false
			case <-ticker.C:
				return true
			}
		})
		if err != nil && !errors.Is(err, sim.ErrInvalidState) {
			return err
		}
		if err != nil {
			s.logger.Warn("scenario diverged, restarting", "err", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// ListenAndServe runs the HTTP server and the simulation until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 2)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	simCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		errCh <- s.Simulate(simCtx)
	}()

	s.logger.Info("listening", "addr", addr, "fps", s.fps)

	var err error
	select {
	case <-ctx.Done():
	case err = <-errCh:
	}

	cancel()
	s.hub.Close()
	shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()
	if serr := srv.Shutdown(shutdownCtx); serr != nil && err == nil {
		err = serr
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}
