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

// Package router é o ponto único de entrada da API: resolve a rota, a
// identidade do chamador e despacha para os serviços de contas e catálogo,
// convertendo o resultado em {statusCode, headers, body}.
//
// O Router não conhece o transporte. Os adaptadores de pkg/transport
// traduzem eventos Lambda e requisições HTTP para Request.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/raywall/book-catalog/pkg/apperror"
	"github.com/raywall/book-catalog/pkg/auth"
	"github.com/raywall/book-catalog/pkg/metrics"
	"github.com/rs/zerolog/log"
)

// AuthMode declara o nível de autenticação exigido por uma rota.
type AuthMode int

const (
	// AuthNone ignora o header Authorization.
	AuthNone AuthMode = iota
	// AuthOptional resolve a identidade se possível; token inválido vira
	// chamador anônimo.
	AuthOptional
	// AuthRequired rejeita a requisição sem identidade válida.
	AuthRequired
)

// Request é a requisição já abstraída do transporte.
type Request struct {
	// RouteKey no formato "METHOD /path/{param}". Quando vazio é resolvido
	// a partir de Method e Path.
	RouteKey        string
	Method          string
	Path            string
	PathParameters  map[string]string
	QueryParameters map[string]string
	Headers         map[string]string
	Body            string
}

// Response é o resultado serializado, pronto para o adaptador.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// HandlerFunc executa a operação de uma rota. caller é nil para anônimos.
type HandlerFunc func(ctx context.Context, req Request, caller *auth.Identity) (status int, body any, err error)

// Route é uma entrada da tabela de rotas.
type Route struct {
	Method string
	Path   string
	Auth   AuthMode
	// AuthMessage substitui a mensagem padrão de header ausente em rotas
	// AuthRequired.
	AuthMessage string
	Handle      HandlerFunc
}

// Key devolve a route key "METHOD /path".
func (r Route) Key() string {
	return r.Method + " " + r.Path
}

// Config agrupa as opções transversais do Router.
type Config struct {
	AllowedOrigins []string
	Recorder       *metrics.Recorder
}

// Router despacha Requests para a tabela de rotas.
type Router struct {
	tokens   *auth.TokenService
	routes   map[string]Route
	patterns []pattern
	cors     corsPolicy
	recorder *metrics.Recorder
}

// New monta o Router. Rotas duplicadas causam panic, como em http.ServeMux.
func New(tokens *auth.TokenService, cfg Config, routes ...Route) *Router {
	r := &Router{
		tokens:   tokens,
		routes:   make(map[string]Route, len(routes)),
		cors:     newCORSPolicy(cfg.AllowedOrigins),
		recorder: cfg.Recorder,
	}
	for _, route := range routes {
		key := route.Key()
		if _, dup := r.routes[key]; dup {
			panic(fmt.Sprintf("router: rota duplicada %q", key))
		}
		r.routes[key] = route
		r.patterns = append(r.patterns, compile(route.Method, route.Path))
	}
	return r
}

// Routes devolve as route keys registradas.
func (r *Router) Routes() []string {
	keys := make([]string, 0, len(r.patterns))
	for _, p := range r.patterns {
		keys = append(keys, p.key())
	}
	return keys
}

// Dispatch processa a requisição até o fim. Nunca devolve erro: toda falha
// vira uma Response com o status correspondente.
func (r *Router) Dispatch(ctx context.Context, req Request) (resp Response) {
	start := time.Now()

	if req.RouteKey == "" {
		key, params, _ := r.Resolve(req.Method, req.Path)
		req.RouteKey = key
		if req.PathParameters == nil {
			req.PathParameters = params
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Ctx(ctx).Error().Interface("panic", rec).Str("route", req.RouteKey).Msg("panic no handler")
			resp = r.errorResponse(ctx, req, fmt.Errorf("panic: %v", rec))
		}
		r.recorder.ObserveRequest(req.RouteKey, resp.StatusCode, time.Since(start))
	}()

	if strings.HasPrefix(req.RouteKey, http.MethodOptions+" ") {
		return r.respond(req, http.StatusOK, struct{}{})
	}

	route, ok := r.routes[req.RouteKey]
	if !ok {
		return r.errorResponse(ctx, req, apperror.UnsupportedRoute(req.RouteKey))
	}

	caller, err := r.identify(ctx, req.Headers, route)
	if err != nil {
		return r.errorResponse(ctx, req, err)
	}

	status, body, err := route.Handle(ctx, req, caller)
	if err != nil {
		return r.errorResponse(ctx, req, err)
	}
	return r.respond(req, status, body)
}

// identify resolve a identidade conforme o AuthMode da rota.
func (r *Router) identify(ctx context.Context, headers map[string]string, route Route) (*auth.Identity, error) {
	if route.Auth == AuthNone {
		return nil, nil
	}

	token, present, err := auth.BearerToken(headers)
	if route.Auth == AuthOptional {
		if !present || err != nil {
			return nil, nil
		}
		id, err := r.tokens.Verify(token)
		if err != nil {
			log.Ctx(ctx).Debug().Err(err).Msg("token ignorado em rota com autenticação opcional")
			return nil, nil
		}
		return id, nil
	}

	if !present || err != nil {
		msg := route.AuthMessage
		if msg == "" {
			msg = apperror.MsgMissingBearer
		}
		return nil, apperror.AuthenticationRequired(msg)
	}
	return r.tokens.Verify(token)
}

func (r *Router) errorResponse(ctx context.Context, req Request, err error) Response {
	status := apperror.StatusCode(err)
	if status == http.StatusInternalServerError {
		log.Ctx(ctx).Error().Err(err).Str("route", req.RouteKey).Msg("erro inesperado")
	}
	return r.respond(req, status, map[string]string{"error": apperror.PublicMessage(err)})
}

func (r *Router) respond(req Request, status int, body any) Response {
	headers := r.cors.headers(headerValue(req.Headers, "Origin"))
	headers["Content-Type"] = "application/json"

	payload, err := json.Marshal(body)
	if err != nil {
		return Response{
			StatusCode: http.StatusInternalServerError,
			Headers:    headers,
			Body:       fmt.Sprintf(`{"error":%q}`, apperror.MsgInternal),
		}
	}
	return Response{StatusCode: status, Headers: headers, Body: string(payload)}
}

func headerValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
