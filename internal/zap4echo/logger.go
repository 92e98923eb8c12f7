// Package zap4echo adapts zap structured logging and panic recovery
// onto echo's middleware chain for the resample HTTP bridge: one
// request logger and one recoverer, both parameterized by a FieldAdder
// hook the bridge server uses to attach resample-specific fields
// (target DPI, quality, the "num gen" image key) on top of the
// generic HTTP fields below.
package zap4echo

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const DefaultLoggerMsg = "resample request handled"
const DefaultRequestIDHeader = echo.HeaderXRequestID

var defaultLoggerConfig = LoggerConfig{}

type LoggerConfig struct {
	// Only log requests that respond with a status code of
	// 3XX, 4XX, or 5XX, or when the handler returns an error.
	ErrorOnly bool

	// Skip the current request depending on the context.
	Skipper func(c echo.Context) bool

	// Custom string for the `msg` field
	CustomMsg string

	// Don't omit the `caller` field. By default, caller will not be printed.
	//
	// Caller gets printed as `zap4echo/logger.go:121`. That is redundant.
	IncludeCaller bool

	// If true, printing of stack trace will be disabled.
	OmitStackTrace bool

	// If true, particular field will not be printed.
	OmitStatusText bool
	OmitClientIP   bool
	OmitUserAgent  bool
	OmitPath       bool
	OmitRoute      bool
	OmitRequestID  bool

	// Custom header name for request ID
	CustomRequestIDHeader string

	// A function for adding custom fields depending on the context. The
	// bridge server uses this to log the resample options (target DPI,
	// quality, min DPI) or the requested image object-id key alongside
	// every request, since those — not the generic HTTP fields below —
	// are what distinguishes one resample call from another.
	FieldAdder func(c echo.Context) []zapcore.Field
}

func Logger(log *zap.Logger) echo.MiddlewareFunc {
	return LoggerWithConfig(log, defaultLoggerConfig)
}

func LoggerWithConfig(log *zap.Logger, config LoggerConfig) echo.MiddlewareFunc {
	if !config.IncludeCaller {
		log = log.WithOptions(zap.WithCaller(false))
	}

	if config.OmitStackTrace {
		log = log.WithOptions(zap.AddStacktrace(zap.FatalLevel + 1))
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			herr := next(c)
			if herr != nil {
				c.Error(herr)
			}

			if config.Skipper != nil && config.Skipper(c) {
				return nil
			}

			resp := c.Response()
			req := c.Request()

			if config.ErrorOnly && (resp.Status < 300 && herr == nil) {
				return nil
			}

			latency := time.Since(start)
			fields := make([]zapcore.Field, 0, 13)

			fields = append(fields, []zapcore.Field{
				zap.String("proto", req.Proto),
				zap.String("host", req.Host),
				zap.String("method", req.Method),
				zap.Int("status", resp.Status),
				zap.Int64("response_size", resp.Size),
				zap.Duration("latency", latency),
			}...)

			if !config.OmitStatusText {
				fields = append(fields, zap.String("status_text", http.StatusText(resp.Status)))
			}

			if !config.OmitClientIP {
				fields = append(fields, zap.String("client_ip", c.RealIP()))
			}

			if !config.OmitUserAgent {
				fields = append(fields, zap.String("user_agent", req.UserAgent()))
			}

			if !config.OmitPath {
				// Use RequestURI instead of URL.Path.
				// See: https://github.com/golang/go/issues/2782
				fields = append(fields, zap.String("path", req.RequestURI))
			}

			if !config.OmitRoute {
				// The registered route template (e.g. "/v1/image/:key")
				// rather than the raw path, so the three resample
				// operations aggregate cleanly regardless of which
				// object key or query string a given request carried.
				fields = append(fields, zap.String("route", c.Path()))
			}

			if !config.OmitRequestID {
				requestIDHeader := func() string {
					if config.CustomRequestIDHeader != "" {
						return config.CustomRequestIDHeader
					} else {
						return DefaultRequestIDHeader
					}
				}()
				requestID := req.Header.Get(requestIDHeader)
				if requestID == "" {
					requestID = resp.Header().Get(requestIDHeader)
				}
				if requestID != "" {
					fields = append(fields, zap.String("request_id", requestID))
				}
			}

			if config.FieldAdder != nil {
				fields = append(fields, config.FieldAdder(c)...)
			}
			if herr != nil {
				fields = append(fields, zap.Error(herr))
			}

			s := resp.Status
			msg := func() string {
				if config.CustomMsg == "" {
					return DefaultLoggerMsg
				} else {
					return config.CustomMsg
				}
			}()
			switch {
			case s >= 500:
				log.Error(msg, fields...)
			case s >= 400:
				log.Warn(msg, fields...)
			case s >= 300:
				log.Info(msg, fields...)
			default:
				log.Info(msg, fields...)
			}

			// We already handled error with c.Error
			return nil
		}
	}
}
