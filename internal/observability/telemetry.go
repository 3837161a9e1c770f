package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/pick-ledger/internal/config"
	"github.com/riskibarqy/pick-ledger/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
)

// Telemetry owns the exporters and debug servers started for one process.
type Telemetry struct {
	logger *logging.Logger
	stops  []namedStop
}

type namedStop struct {
	name string
	fn   func(context.Context) error
}

// Start brings up tracing and log export, continuous profiling and the pprof
// side server according to cfg. Components that are disabled are skipped.
// On error everything started so far is stopped again.
func Start(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{logger: logger}

	starters := []struct {
		name string
		fn   func(config.Config, *logging.Logger) (func(context.Context) error, error)
	}{
		{"uptrace", startUptrace},
		{"pyroscope", startPyroscope},
		{"pprof", startPprof},
	}
	for _, s := range starters {
		stop, err := s.fn(cfg, logger)
		if err != nil {
			_ = t.Shutdown(ctx)
			return nil, fmt.Errorf("start %s: %w", s.name, err)
		}
		if stop != nil {
			t.stops = append(t.stops, namedStop{name: s.name, fn: stop})
		}
	}
	return t, nil
}

// Shutdown stops components in reverse start order and joins their errors.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	var errs []error
	for i := len(t.stops) - 1; i >= 0; i-- {
		s := t.stops[i]
		if err := s.fn(ctx); err != nil {
			t.logger.Warn("telemetry shutdown failed", "component", s.name, "error", err)
			errs = append(errs, err)
		}
	}
	t.stops = nil
	return errors.Join(errs...)
}

func startUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	logging.SetMirror(nil)
	if !cfg.UptraceEnabled || strings.TrimSpace(cfg.UptraceDSN) == "" {
		logger.Info("uptrace disabled", "enabled", cfg.UptraceEnabled, "dsn_set", cfg.UptraceDSN != "")
		return nil, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)
	if cfg.UptraceLogsEnabled {
		logging.SetMirror(newUptraceLogMirror(cfg.ServiceVersion))
	}
	logger.Info("uptrace enabled", "service_name", cfg.ServiceName, "logs_enabled", cfg.UptraceLogsEnabled)

	return func(ctx context.Context) error {
		logging.SetMirror(nil)
		return uptrace.Shutdown(ctx)
	}, nil
}

func startPyroscope(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if !cfg.PyroscopeEnabled {
		return nil, nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags:              map[string]string{"env": cfg.AppEnv, "service": cfg.ServiceName},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexDuration,
		},
	})
	if err != nil {
		return nil, err
	}
	logger.Info("pyroscope enabled", "server_address", cfg.PyroscopeServerAddress, "application", cfg.PyroscopeAppName)

	return func(context.Context) error { return profiler.Stop() }, nil
}

func startPprof(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if !cfg.PprofEnabled {
		return nil, nil
	}

	srv := &http.Server{
		Addr:              cfg.PprofAddr,
		Handler:           pprofMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("pprof server starting", "addr", cfg.PprofAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof server failed", "error", err)
		}
	}()
	return srv.Shutdown, nil
}

func pprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}
