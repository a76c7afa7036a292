// Package main runs the swap gateway: an HTTP front end that turns swap
// requests into on-chain program transactions, confirms them, and reads the
// resulting state back.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"solana-swap-gateway/internal/gateway"
	"solana-swap-gateway/internal/journal"
	"solana-swap-gateway/internal/solana"
	"solana-swap-gateway/internal/storage"
	chstore "solana-swap-gateway/internal/storage/clickhouse"
	"solana-swap-gateway/internal/storage/memory"
	pgstore "solana-swap-gateway/internal/storage/postgres"
	"solana-swap-gateway/internal/swap"
)

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	rpcEndpoint := flag.String("rpc-endpoint", envOr("SOLANA_RPC_ENDPOINT", "http://127.0.0.1:8899"), "Solana RPC HTTP endpoint")
	wsEndpoint := flag.String("ws-endpoint", os.Getenv("SOLANA_WS_ENDPOINT"), "Solana WebSocket endpoint (confirmation via signatureSubscribe; polling when empty)")
	listenAddr := flag.String("listen", envOr("LISTEN_ADDR", "127.0.0.1:5050"), "Gateway HTTP listen address")
	playerKeypair := flag.String("player-keypair", envOr("PLAYER_KEYPAIR", defaultKeypairPath()), "Player keypair file (generated if absent)")
	tokenPrice := flag.Uint("token-price", uintEnvOr("TOKEN_PRICE", 2), "Lamports per swapped token")
	allowHeaders := flag.String("allow-headers", envOr("CORS_ALLOW_HEADERS", "Content-Type"), "Comma-separated CORS Access-Control-Allow-Headers value")
	confirmTimeout := flag.Duration("confirm-timeout", 60*time.Second, "Transaction confirmation timeout")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string for the receipt journal")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string for the analytics journal")
	useMemory := flag.Bool("use-memory", false, "Use in-memory receipt journal instead of PostgreSQL/ClickHouse")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[gateway] ", log.LstdFlags|log.Lshortfile)

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <program-keypair.json>\n\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	programKeypairPath := flag.Arg(0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create journal stores
	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create journal stores: %v", err)
	}
	defer cleanup()

	// RPC client and confirmer
	rpc := solana.NewHTTPClient(*rpcEndpoint)
	var confirmer swap.Confirmer
	if *wsEndpoint != "" {
		ws, err := solana.NewWSClient(ctx, *wsEndpoint, nil)
		if err != nil {
			logger.Fatalf("Failed to connect WebSocket: %v", err)
		}
		defer ws.Close()
		confirmer = swap.NewWSConfirmer(ws)
		logger.Printf("confirming via signatureSubscribe on %s", *wsEndpoint)
	} else {
		confirmer = swap.NewPollingConfirmer(rpc, time.Second)
		logger.Println("confirming via getSignatureStatuses polling")
	}

	recorder := journal.NewRecorder(logger, stores...)
	service, err := swap.NewService(swap.Config{
		ProgramKeypairPath: programKeypairPath,
		PlayerKeypairPath:  *playerKeypair,
		TokenPrice:         uint32(*tokenPrice),
		ConfirmTimeout:     *confirmTimeout,
	}, rpc, confirmer, recorder, logger)
	if err != nil {
		logger.Fatalf("Failed to create swap service: %v", err)
	}

	// Provisioning strictly precedes listening.
	bootCtx, bootCancel := context.WithTimeout(ctx, 2*time.Minute)
	if err := service.Bootstrap(bootCtx); err != nil {
		bootCancel()
		logger.Fatalf("Bootstrap failed: %v", err)
	}
	bootCancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	server := gateway.NewServer(service, logger, *allowHeaders)
	if err := server.ListenAndServe(ctx, *listenAddr); err != nil {
		logger.Fatalf("HTTP server error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// createStores selects the receipt journal backends. Both DSNs are optional;
// with neither set (or -use-memory) receipts stay in process memory.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) ([]storage.ReceiptStore, func(), error) {
	if useMemory || (postgresDSN == "" && clickhouseDSN == "") {
		return []storage.ReceiptStore{memory.NewReceiptStore()}, func() {}, nil
	}

	var stores []storage.ReceiptStore
	var cleanups []func()

	if postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		stores = append(stores, pgstore.NewReceiptStore(pool))
		cleanups = append(cleanups, pool.Close)
	}

	if clickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, clickhouseDSN)
		if err != nil {
			for _, c := range cleanups {
				c()
			}
			return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		stores = append(stores, chstore.NewReceiptStore(conn))
		cleanups = append(cleanups, func() { conn.Close() })
	}

	cleanup := func() {
		for _, c := range cleanups {
			c()
		}
	}
	return stores, cleanup, nil
}

// defaultKeypairPath is the Solana CLI's default identity location.
func defaultKeypairPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "id.json"
	}
	return filepath.Join(home, ".config", "solana", "id.json")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func uintEnvOr(key string, fallback uint) uint {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var parsed uint
	if _, err := fmt.Sscanf(v, "%d", &parsed); err != nil {
		return fallback
	}
	return parsed
}

// loadEnvFile loads .env into the environment without overriding existing
// variables.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
