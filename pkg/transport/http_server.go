// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/raywall/book-catalog/pkg/logger"
	"github.com/raywall/book-catalog/pkg/router"
	"github.com/rs/zerolog/log"
)

const (
	HeaderCorrelationID = "x-correlation-id"
	HeaderLatency       = "x-latency-ms"
)

type contextKey string

// ContextKeyCorrID guarda o correlation id no contexto da requisição.
const ContextKeyCorrID contextKey = "correlation_id"

// maxBodyBytes limita o corpo aceito pelo servidor local.
const maxBodyBytes = 1 << 20

// NewHTTPHandler monta o handler HTTP local: cada rota do Router é
// registrada no gorilla/mux sob prefix (ex: "/api"), com OPTIONS liberado.
// Paths e métodos desconhecidos também passam pelo Router, que responde com
// o erro de rota não suportada.
func NewHTTPHandler(r *router.Router, prefix string) http.Handler {
	m := mux.NewRouter()

	sub := m
	if prefix != "" {
		sub = m.PathPrefix(prefix).Subrouter()
	}
	for _, key := range r.Routes() {
		method, path, _ := strings.Cut(key, " ")
		sub.HandleFunc(path, routeHandler(r, prefix, path)).Methods(method, http.MethodOptions)
	}

	fallback := routeHandler(r, prefix, "")
	m.NotFoundHandler = fallback
	m.MethodNotAllowedHandler = fallback

	return ObservabilityMiddleware(m)
}

// StartHTTPServer sobe o servidor local e bloqueia até ctx ser cancelado.
func StartHTTPServer(ctx context.Context, handler http.Handler, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("Servidor HTTP ouvindo em %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("encerrando servidor HTTP")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// routeHandler traduz a requisição HTTP para router.Request. pattern vazio
// indica o handler de fallback, que resolve a rota pelo path concreto.
func routeHandler(rt *router.Router, prefix, pattern string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Msg("falha ao ler body")
			body = nil
		}
		defer r.Body.Close()

		req := router.Request{
			Method:          r.Method,
			Path:            strings.TrimPrefix(r.URL.Path, prefix),
			QueryParameters: firstValues(r.URL.Query()),
			Headers:         firstValues(r.Header),
			Body:            string(body),
		}
		if pattern != "" {
			req.RouteKey = r.Method + " " + pattern
			req.PathParameters = mux.Vars(r)
		}

		resp := rt.Dispatch(r.Context(), req)

		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = w.Write([]byte(resp.Body))
	}
}

func firstValues(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// --- MIDDLEWARE DE OBSERVABILIDADE ---
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode  int
	startTime   time.Time
	wroteHeader bool
}

func (rw *responseWriterWrapper) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	duration := time.Since(rw.startTime)
	rw.Header().Set(HeaderLatency, fmt.Sprintf("%d", duration.Milliseconds()))
	rw.ResponseWriter.WriteHeader(code)
	rw.wroteHeader = true
}

func (rw *responseWriterWrapper) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func ObservabilityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		corrID := r.Header.Get(HeaderCorrelationID)
		if corrID == "" {
			corrID = uuid.NewString()
		}
		w.Header().Set(HeaderCorrelationID, corrID)

		ctx, reqLog := logger.WithCorrelation(r.Context(), corrID)
		ctx = context.WithValue(ctx, ContextKeyCorrID, corrID)

		wrapper := &responseWriterWrapper{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			startTime:      start,
		}

		next.ServeHTTP(wrapper, r.WithContext(ctx))

		reqLog.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Msg("request completed")
	})
}
