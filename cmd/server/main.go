package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	persistlog "monument.ai/internal/persistence/log"
	"monument.ai/internal/protocol"
	"monument.ai/internal/sim/catalogs"
	"monument.ai/internal/sim/goals"
	"monument.ai/internal/sim/match"
	"monument.ai/internal/sim/tuning"
	"monument.ai/internal/sim/world"
	"monument.ai/internal/telemetry"
	"monument.ai/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		goalsPath  = flag.String("goals", "", "path to goals.yaml (default: <configs>/goals.yaml)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite index (events/audits/catalogs)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	envCfg, err := parseEnv()
	if err != nil {
		logger.Fatalf("%v", err)
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}
	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}
	gp := strings.TrimSpace(*goalsPath)
	if gp == "" {
		gp = filepath.Join(*configDir, "goals.yaml")
	}
	gcfg, err := goals.Load(gp)
	if err != nil {
		logger.Fatalf("load goals: %v", err)
	}
	worldID := tune.Match.WorldID
	if gcfg.WorldID != "" && gcfg.WorldID != worldID {
		logger.Fatalf("goals.yaml world_id %q does not match tuning match.world_id %q", gcfg.WorldID, worldID)
	}

	w, err := world.New(world.WorldConfig{ID: worldID}, cats)
	if err != nil {
		logger.Fatalf("world: %v", err)
	}
	if err := gcfg.Populate(w); err != nil {
		logger.Fatalf("populate world: %v", err)
	}
	reg, err := gcfg.Registry()
	if err != nil {
		logger.Fatalf("goals: %v", err)
	}

	m, err := match.New(match.Config{
		TickRateHz:       tune.TickRateHz,
		EndOnCompletion:  tune.Match.EndOnCompletion,
		AutoRefill:       tune.Wool.AutoRefillEnabled(),
		RefillEveryTicks: tune.RefillIntervalTicks(),
	}, w, reg, logger)
	if err != nil {
		logger.Fatalf("match: %v", err)
	}

	matchDir := filepath.Join(*dataDir, "matches", worldID)
	if err := os.MkdirAll(matchDir, 0o755); err != nil {
		logger.Fatalf("data dir: %v", err)
	}

	eventLog := persistlog.NewEventLogger(matchDir)
	auditLog := persistlog.NewAuditLogger(matchDir)
	defer eventLog.Close()
	defer auditLog.Close()
	m.AddEventSink(eventLog)
	m.AddAuditSink(auditLog)

	metrics := telemetry.New(envCfg.MetricsNamespace, worldID, m)
	m.AddEventSink(metrics)
	m.AddAuditSink(metrics)

	// Optional read-model index; it never blocks the match loop.
	idx, err := openIndex(matchDir, envCfg, *disableDB)
	if err != nil {
		logger.Fatalf("open index: %v", err)
	}
	if idx != nil {
		defer idx.Close()
		if err := idx.UpsertCatalogs(*configDir, gp, cats, tune); err != nil {
			logger.Printf("index: upsert catalogs: %v", err)
		}
		idx.RecordMatch(worldID, tune.TickRateHz)
		m.AddEventSink(idx)
		m.AddAuditSink(idx)
		_ = metrics.AddGauge("index_queue_depth", "Index writer backlog.", func() float64 {
			return float64(idx.Stats().QueueDepth)
		})
	} else {
		logger.Printf("index disabled")
	}

	ctx, cancel := signalContext()
	defer cancel()

	go func() {
		if err := m.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("match stopped: %v", err)
		}
	}()

	mux := newMux(m, metrics, envCfg.adminHTTP(), logger)
	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("match %s: %d goals, refill every %s (auto=%v); listening on %s",
		worldID, len(reg.Goals()), tune.Wool.RefillInterval(), tune.Wool.AutoRefillEnabled(), *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

type statusSource interface {
	ws.Match
	Status(ctx context.Context) (protocol.StatusMsg, error)
	Stats() match.Stats
}

func newMux(m statusSource, metrics *telemetry.Recorder, enableAdmin bool, logger *log.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/v1/ws", ws.NewServer(m, logger).Handler())

	if !enableAdmin {
		logger.Printf("admin endpoints disabled (MONUMENT_ENABLE_ADMIN_HTTP=false)")
		return mux
	}
	// Local-only admin endpoints.
	mux.HandleFunc("/admin/v1/state", func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		st, err := m.Status(ctx)
		if err != nil {
			http.Error(rw, err.Error(), http.StatusServiceUnavailable)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(struct {
			Status protocol.StatusMsg `json:"status"`
			Stats  match.Stats        `json:"stats"`
		}{Status: st, Stats: m.Stats()})
	})
	return mux
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

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
