package observability

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/pick-ledger/internal/platform/logging"
	"github.com/shopspring/decimal"
	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
)

const logMirrorScope = "pick-ledger/internal/platform/logging"

// quietPaths are request paths whose access logs stay local.
var quietPaths = map[string]struct{}{
	"/healthz": {},
}

type logMirror struct {
	logger otellog.Logger
	now    func() time.Time
}

func newUptraceLogMirror(serviceVersion string) logging.MirrorFunc {
	m := &logMirror{
		logger: otelglobal.Logger(logMirrorScope, otellog.WithInstrumentationVersion(serviceVersion)),
		now:    time.Now,
	}
	return m.emit
}

func (m *logMirror) emit(ctx context.Context, level logging.Level, msg string, args ...any) {
	if isQuietAccessLog(msg, args) {
		return
	}
	severity := severityOf(level)
	if !m.logger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
		return
	}

	ts := m.now().UTC()
	var rec otellog.Record
	rec.SetTimestamp(ts)
	rec.SetObservedTimestamp(ts)
	rec.SetSeverity(severity)
	rec.SetSeverityText(strings.ToUpper(level.String()))
	rec.SetEventName(msg)
	rec.SetBody(otellog.StringValue(msg))
	rec.AddAttributes(logAttributes(args)...)

	m.logger.Emit(ctx, rec)
}

func isQuietAccessLog(msg string, args []any) bool {
	if msg != "http_request" {
		return false
	}
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] != "http_path" {
			continue
		}
		path, _ := args[i+1].(string)
		_, quiet := quietPaths[path]
		return quiet
	}
	return false
}

// logAttributes pairs up key/value args. A non-string key becomes arg_N and a
// trailing key without a value is kept as an empty attribute.
func logAttributes(args []any) []otellog.KeyValue {
	out := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || strings.TrimSpace(key) == "" {
			key = "arg_" + strconv.Itoa(i/2)
		}
		if i+1 == len(args) {
			out = append(out, otellog.Empty(key))
			break
		}
		out = append(out, otellog.KeyValue{Key: key, Value: logValue(args[i+1])})
	}
	return out
}

func severityOf(level logging.Level) otellog.Severity {
	switch level {
	case logging.LevelDebug:
		return otellog.SeverityDebug
	case logging.LevelInfo:
		return otellog.SeverityInfo
	case logging.LevelWarn:
		return otellog.SeverityWarn
	case logging.LevelError:
		return otellog.SeverityError
	}
	if level < logging.LevelDebug {
		return otellog.SeverityTrace
	}
	return otellog.SeverityFatal
}

func logValue(value any) otellog.Value {
	switch v := value.(type) {
	case nil:
		return otellog.Value{}
	case string:
		return otellog.StringValue(v)
	case bool:
		return otellog.BoolValue(v)
	case int:
		return otellog.IntValue(v)
	case int64:
		return otellog.Int64Value(v)
	case uint64:
		return otellog.Int64Value(int64(v))
	case float64:
		return otellog.Float64Value(v)
	case decimal.Decimal:
		return otellog.StringValue(v.StringFixed(2))
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case error:
		return otellog.StringValue(v.Error())
	case fmt.Stringer:
		return otellog.StringValue(v.String())
	default:
		return otellog.StringValue(fmt.Sprint(v))
	}
}
