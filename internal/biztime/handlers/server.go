// Package handlers exposes the BizTime services over HTTP and runs the gRPC
// health endpoint next to it. It decodes and validates requests, shapes the
// JSON responses and translates errors into status codes in one place.
package handlers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HandlerFunc serves one route. Returned errors are written by the server
// as an error envelope.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, params map[string]string) error

// Route binds a handler to a method and a path pattern such as
// "/companies/{code}".
type Route struct {
	Method  string
	Pattern string
	Handler HandlerFunc
}

// RouteProvider is implemented by every resource handler.
type RouteProvider interface {
	Routes() []Route
}

// Server holds references to both a gRPC server and an HTTP server.
type Server struct {
	grpcServer      *grpc.Server
	health          *health.Server
	httpServer      *http.Server
	mux             *runtime.ServeMux
	logger          *zap.Logger
	grpcEndpoint    string
	httpEndpoint    string
	shutdownTimeout time.Duration
}

// NewServer constructs a Server with separate endpoints for gRPC and HTTP.
func NewServer(
	grpcPort int,
	httpPort int,
	logger *zap.Logger,
	grpcOpts ...grpc.ServerOption,
) *Server {
	logger = logger.Named("server")
	s := &Server{
		grpcServer:      grpc.NewServer(grpcOpts...),
		health:          health.NewServer(),
		logger:          logger,
		grpcEndpoint:    fmt.Sprintf(":%d", grpcPort),
		httpEndpoint:    fmt.Sprintf(":%d", httpPort),
		shutdownTimeout: 5 * time.Second,
	}
	s.mux = runtime.NewServeMux(runtime.WithRoutingErrorHandler(s.routingError))
	s.httpServer = &http.Server{
		Addr:              s.httpEndpoint,
		Handler:           requestLogger(s.mux, logger.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// SetShutdownTimeout bounds how long Stop waits for in-flight HTTP requests.
func (s *Server) SetShutdownTimeout(d time.Duration) {
	if d > 0 {
		s.shutdownTimeout = d
	}
}

// Register mounts the routes of each provider on the HTTP mux.
func (s *Server) Register(providers ...RouteProvider) error {
	for _, p := range providers {
		for _, route := range p.Routes() {
			if err := s.handle(route); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Server) handle(route Route) error {
	h := instrument(route.Pattern, func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		if err := route.Handler(w, r, params); err != nil {
			writeError(w, r, err, s.logger)
		}
	})
	if err := s.mux.HandlePath(route.Method, route.Pattern, h); err != nil {
		return fmt.Errorf("failed to register %s %s: %w", route.Method, route.Pattern, err)
	}
	return nil
}

// Handler returns the complete HTTP handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// routingError answers unknown paths and methods with the error envelope.
func (s *Server) routingError(_ context.Context, _ *runtime.ServeMux, _ runtime.Marshaler, w http.ResponseWriter, _ *http.Request, status int) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Message: http.StatusText(status),
		Status:  status,
	}})
}

// Start runs the gRPC and HTTP servers concurrently, returning on the first error.
func (s *Server) Start() error {
	var wg sync.WaitGroup
	wg.Add(2)
	errChan := make(chan error, 2)

	// Start gRPC Server
	go func() {
		defer wg.Done()
		s.logger.Info("Starting gRPC server", zap.String("endpoint", s.grpcEndpoint))
		lis, err := net.Listen("tcp", s.grpcEndpoint)
		if err != nil {
			errChan <- fmt.Errorf("gRPC listen error: %w", err)
			return
		}
		s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		if err := s.grpcServer.Serve(lis); err != nil {
			errChan <- fmt.Errorf("gRPC serve error: %w", err)
		}
	}()

	// Start HTTP Server
	go func() {
		defer wg.Done()
		s.logger.Info("Starting HTTP server", zap.String("endpoint", s.httpEndpoint))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP serve error: %w", err)
		}
	}()

	go func() {
		wg.Wait()
		close(errChan)
	}()

	for err := range errChan {
		if err != nil {
			return err
		}
	}
	return nil
}

// Stop gracefully shuts down both gRPC and HTTP servers.
func (s *Server) Stop() {
	s.logger.Info("Shutting down servers...")
	s.health.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.grpcServer.GracefulStop()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	s.logger.Info("Servers stopped")
}
