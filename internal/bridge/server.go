/*
Copyright 2020 The pdfcpu Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package bridge serves the resampler as an embeddable HTTP surface for
// in-browser or same-host callers that would rather speak HTTP than
// import the Go packages directly.
package bridge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pdfresample/pdfresample/internal/zap4echo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	_defaultAddr            = "127.0.0.1:8888"
	_defaultShutdownTimeout = 5 * time.Second
)

// Server hosts the resampler's three HTTP entry points behind an echo
// router with zap request logging and panic recovery.
type Server struct {
	server          *echo.Echo
	addr            string
	notify          chan error
	shutdownTimeout time.Duration
}

// New builds a Server listening on host:port (or 127.0.0.1:8888 when
// port is empty).
func New(host, port string) (*Server, error) {
	addr := fmt.Sprintf("%s:%s", host, port)
	if port == "" {
		addr = _defaultAddr
	}

	e := echo.New()
	e.Logger.SetOutput(io.Discard)
	log, _ := zap.NewDevelopment()

	e.Use(
		zap4echo.LoggerWithConfig(log, zap4echo.LoggerConfig{FieldAdder: resampleLogFields}),
		zap4echo.RecoverWithConfig(log, zap4echo.RecoverConfig{FieldAdder: resampleRecoverFields}),
	)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, echo.HeaderXCSRFToken},
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
	}))
	e.HideBanner = true

	s := &Server{
		server:          e,
		addr:            addr,
		notify:          make(chan error, 1),
		shutdownTimeout: _defaultShutdownTimeout,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.server.POST("/v1/resample", s.handleResample)
	s.server.POST("/v1/resample/report", s.handleResampleReport)
	s.server.GET("/v1/image/:key", s.handleExtractImage)
}

// Start begins serving in the background; receive from Notify() to observe
// a terminal listen error.
func (s *Server) Start() {
	go func() {
		s.notify <- s.server.Start(s.addr)
		close(s.notify)
	}()
}

// Notify returns the channel that receives the listener's terminal error.
func (s *Server) Notify() <-chan error {
	return s.notify
}

// Shutdown gracefully stops the server within the configured timeout.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func serverError(c echo.Context, err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// resampleLogFields attaches the request's resample options (when
// present) and the requested image object-id key (when present) to
// every logged request — the parameters that actually distinguish one
// call to this bridge from another.
func resampleLogFields(c echo.Context) []zapcore.Field {
	var fields []zapcore.Field
	if v := c.QueryParam("dpi"); v != "" {
		fields = append(fields, zap.String("target_dpi", v))
	}
	if v := c.QueryParam("quality"); v != "" {
		fields = append(fields, zap.String("quality", v))
	}
	if v := c.QueryParam("minDpi"); v != "" {
		fields = append(fields, zap.String("min_dpi", v))
	}
	if key := c.Param("key"); key != "" {
		fields = append(fields, zap.String("image_object_id", key))
	}
	return fields
}

func resampleRecoverFields(c echo.Context, _ error) []zap.Field {
	return resampleLogFields(c)
}
