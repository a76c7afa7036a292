// Package gateway exposes the swap service over HTTP.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"solana-swap-gateway/internal/domain"
	"solana-swap-gateway/internal/observability"
	"solana-swap-gateway/internal/program"
)

// maxBodyBytes caps request bodies at 1 MiB.
const maxBodyBytes = 1 << 20

// swapAck is the fixed /swap response body. Submission happens in the
// background; the caller observes the outcome through logs and metrics.
const swapAck = "Request swap received"

// SwapExecutor runs one swap end to end. swap.Service satisfies it.
type SwapExecutor interface {
	ExecuteSwap(ctx context.Context, amount uint32) (*domain.SwapReceipt, error)
}

// Server is the HTTP surface of the gateway.
type Server struct {
	executor     SwapExecutor
	logger       *log.Logger
	allowHeaders string

	// swapTimeout bounds each background swap execution.
	swapTimeout time.Duration
}

// NewServer creates a Server. allowHeaders is the comma-separated value for
// the CORS Access-Control-Allow-Headers response header.
func NewServer(executor SwapExecutor, logger *log.Logger, allowHeaders string) *Server {
	if allowHeaders == "" {
		allowHeaders = "Content-Type"
	}
	return &Server{
		executor:     executor,
		logger:       logger,
		allowHeaders: allowHeaders,
		swapTimeout:  2 * time.Minute,
	}
}

// Handler builds the route table wrapped with CORS and request metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", s.handlePing)
	mux.HandleFunc("/swap", s.handleSwap)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", observability.Handler())
	return s.corsMiddleware(s.metricsMiddleware(mux))
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Printf("HTTP server shutdown: %v", err)
		}
	}()

	s.logger.Printf("listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusBadRequest)
		return
	}

	var instruction program.SwapInstruction
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&instruction); err != nil {
		http.Error(w, "malformed swap request", http.StatusBadRequest)
		return
	}

	observability.RecordSwapReceived()

	// The request context dies with the response; the swap runs on its own.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.swapTimeout)
		defer cancel()

		receipt, err := s.executor.ExecuteSwap(ctx, instruction.Amount)
		if err != nil {
			s.logger.Printf("swap amount=%d failed: %v", instruction.Amount, err)
			return
		}
		s.logger.Printf("swap amount=%d confirmed, signature=%s counter=%d",
			instruction.Amount, receipt.Signature, receipt.Counter)
	}()

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(swapAck))
}

// metricsMiddleware counts served requests by path and status.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		observability.RecordHTTPRequest(r.URL.Path, strconv.Itoa(recorder.status))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
