// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ChainSafe/gossamer-primitives/internal/httpserver"
	"github.com/ChainSafe/gossamer-primitives/internal/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "metrics"))

// ErrServerExitedUnexpectedly is returned when the metrics
// server exits without error before being ready.
var ErrServerExitedUnexpectedly = errors.New("metrics server exited unexpectedly")

// Server is a metrics http server
type Server struct {
	cancel context.CancelFunc
	server *httpserver.Server
	done   chan error
}

// NewServer is a constructor for metrics server
func NewServer(address string) (s *Server) {
	m := http.NewServeMux()
	m.Handle("/metrics", promhttp.Handler())
	return &Server{
		server: httpserver.New("metrics", address, m, logger),
	}
}

// Start will start a dedicated metrics server.
func (s *Server) Start() (err error) {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	ready := make(chan struct{})
	s.done = make(chan error)

	go s.server.Run(ctx, ready, s.done)

	select {
	case <-ready:
		logger.Infof("metrics served at http://%s/metrics", s.server.GetAddress())
		return nil
	case err := <-s.done:
		cancel()
		close(s.done)
		if err != nil {
			return err
		}
		return ErrServerExitedUnexpectedly
	}
}

// Address returns the address the server listens on.
// It blocks until the server is listening.
func (s *Server) Address() string {
	return s.server.GetAddress()
}

// Stop will stop the metrics server
func (s *Server) Stop() (err error) {
	s.cancel()
	select {
	case err := <-s.done:
		close(s.done)
		if err != nil {
			return err
		}
		return nil
	case <-time.NewTimer(30 * time.Second).C:
		return fmt.Errorf("metrics server exit timeout")
	}
}
