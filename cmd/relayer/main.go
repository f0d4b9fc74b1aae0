package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/axelar-network/solana-bridge/pkg/relayer/amplifierpb"
	"github.com/axelar-network/solana-bridge/pkg/relayer/config"
	"github.com/axelar-network/solana-bridge/pkg/relayer/includer"
	"github.com/axelar-network/solana-bridge/pkg/relayer/metrics"
	"github.com/axelar-network/solana-bridge/pkg/relayer/sentinel"
	"github.com/axelar-network/solana-bridge/pkg/relayer/store"
	"github.com/axelar-network/solana-bridge/pkg/relayer/verifier"
)

// HealthStatus tracks the running state of each configured transport
// direction for the /health endpoint.
type HealthStatus struct {
	Status    string `json:"status"` // "starting", "ok", "degraded", "error"
	Sentinel  string `json:"sentinel"`
	Includer  string `json:"includer"`
	Verifier  string `json:"verifier"`
	Database  string `json:"database"`
	UptimeSec int64  `json:"uptime_seconds"`

	mu        sync.RWMutex
	startTime time.Time
}

func newHealthStatus() *HealthStatus {
	return &HealthStatus{
		Status:    "starting",
		Sentinel:  "disabled",
		Includer:  "disabled",
		Verifier:  "unknown",
		Database:  "unknown",
		startTime: time.Now(),
	}
}

func (h *HealthStatus) set(field *string, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	*field = value
	h.recompute()
}

func (h *HealthStatus) recompute() {
	if h.Database == "disconnected" || h.Verifier == "error" {
		h.Status = "error"
		return
	}
	if h.Sentinel == "error" || h.Includer == "error" {
		h.Status = "degraded"
		return
	}
	h.Status = "ok"
}

func (h *HealthStatus) ToJSON() []byte {
	h.mu.Lock()
	h.UptimeSec = int64(time.Since(h.startTime).Seconds())
	h.mu.Unlock()

	h.mu.RLock()
	defer h.mu.RUnlock()
	data, _ := json.Marshal(h)
	return data
}

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	var (
		overridePath = flag.String("config", "", "optional YAML override file layered on top of AXELAR_SOLANA_ env vars")
		showHelp     = flag.Bool("help", false, "show help message")
	)
	flag.Parse()
	if *showHelp {
		printHelp()
		return
	}

	cfg, err := config.LoadWithOverrides(*overridePath)
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	health := newHealthStatus()

	dbClient, err := store.NewClient(cfg, store.WithLogger(log.New(log.Writer(), "[store] ", log.LstdFlags)))
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer dbClient.Close()
	if err := dbClient.MigrateUp(context.Background()); err != nil {
		log.Fatalf("running migrations: %v", err)
	}
	health.set(&health.Database, "connected")

	reg := prometheus.NewRegistry()
	verifierMetrics := metrics.NewVerifier(reg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	v := verifier.New(256, verifier.WithMetrics(verifierMetrics))

	amplifierConn, err := grpc.NewClient(cfg.VerifierRPC, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("dialing amplifier at %s: %v", cfg.VerifierRPC, err)
	}
	defer amplifierConn.Close()
	amplifierClient := amplifierpb.NewClient(amplifierConn)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runVerifier(ctx, amplifierClient, v, dbClient, health)
	}()

	if cfg.SentinelRPC != "" && cfg.SentinelGatewayAddress != "" {
		health.set(&health.Sentinel, "connecting")
		wsClient, err := ws.Connect(ctx, cfg.SentinelRPC)
		if err != nil {
			log.Fatalf("connecting sentinel websocket: %v", err)
		}
		defer wsClient.Close()

		gatewayProgramID, err := solana.PublicKeyFromBase58(cfg.SentinelGatewayAddress)
		if err != nil {
			log.Fatalf("parsing sentinel gateway address: %v", err)
		}
		sub, err := wsClient.LogsSubscribeMentions(gatewayProgramID, rpc.CommitmentFinalized)
		if err != nil {
			log.Fatalf("subscribing to gateway logs: %v", err)
		}

		s := sentinel.New(gatewayProgramID, "solana")
		wg.Add(1)
		go func() {
			defer wg.Done()
			health.set(&health.Sentinel, "running")
			if err := s.Run(ctx, wsLogSubscription{sub}, v); err != nil && ctx.Err() == nil {
				log.Printf("sentinel exited: %v", err)
				health.set(&health.Sentinel, "error")
			}
		}()
	}

	if cfg.SolanaIncluderRPC != "" && len(cfg.SolanaIncluderKeypair) != 0 {
		health.set(&health.Includer, "connecting")
		rpcClient := rpc.New(cfg.SolanaIncluderRPC)
		gatewayProgramID, err := solana.PublicKeyFromBase58(cfg.SentinelGatewayAddress)
		if err != nil {
			log.Fatalf("parsing includer gateway address: %v", err)
		}
		inc, err := includer.New(rpcClient, cfg.SolanaIncluderKeypair, gatewayProgramID)
		if err != nil {
			log.Fatalf("constructing includer: %v", err)
		}
		_ = inc // wired into the Axelar->Solana API once that surface is exposed by the upstream approver
		health.set(&health.Includer, "running")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(health.ToJSON())
	})
	mux.Handle("/metrics", metrics.Handler(reg))

	httpServer := &http.Server{
		Addr:    cfg.HealthcheckBindAddr,
		Handler: mux,
	}
	go func() {
		log.Printf("relayer healthcheck listening on %s", cfg.HealthcheckBindAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("healthcheck server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("shutting down relayer...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("healthcheck server shutdown error: %v", err)
	}

	wg.Wait()
	log.Printf("relayer stopped")
}

func runVerifier(ctx context.Context, client *amplifierpb.Client, v *verifier.Verifier, recorder verifier.SignatureRecorder, health *HealthStatus) {
	stream, err := client.Verify(ctx)
	if err != nil {
		log.Printf("opening verify stream: %v", err)
		health.set(&health.Verifier, "error")
		return
	}
	health.set(&health.Verifier, "running")
	if err := v.Run(ctx, stream, recorder); err != nil && ctx.Err() == nil {
		log.Printf("verifier exited: %v", err)
		health.set(&health.Verifier, "error")
	}
}

// wsLogSubscription adapts gagliardetto/solana-go's ws.LogSubscription to
// sentinel.Subscription.
type wsLogSubscription struct {
	sub *ws.LogSubscription
}

func (w wsLogSubscription) Recv(ctx context.Context) (*sentinel.LogEntry, error) {
	result, err := w.sub.Recv(ctx)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	entry := &sentinel.LogEntry{
		Signature: result.Value.Signature.String(),
		Logs:      result.Value.Logs,
	}
	if result.Value.Err != nil {
		entry.Err = fmt.Errorf("%v", result.Value.Err)
	}
	return entry, nil
}

func (w wsLogSubscription) Close() error {
	w.sub.Unsubscribe()
	return nil
}

func printHelp() {
	fmt.Println("axelar-solana relayer")
	fmt.Println()
	fmt.Println("Configuration is sourced from environment variables under the")
	fmt.Println("AXELAR_SOLANA_ prefix (see pkg/relayer/config), optionally overridden")
	fmt.Println("by a YAML file passed via -config.")
	fmt.Println()
	flag.PrintDefaults()
}
