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
	"encoding/base64"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/raywall/book-catalog/pkg/logger"
	"github.com/raywall/book-catalog/pkg/router"
)

// LambdaHandler adapta eventos do API Gateway HTTP API (payload v2) para o Router
type LambdaHandler struct {
	router *router.Router
}

// NewLambdaHandler cria uma nova instância do adaptador
func NewLambdaHandler(r *router.Router) *LambdaHandler {
	return &LambdaHandler{router: r}
}

// Handle processa a requisição Lambda. Erros de negócio viram status HTTP;
// o erro de retorno existe apenas para satisfazer o runtime e é sempre nil.
func (h *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	// 1. Observabilidade (Réplica da lógica do Middleware HTTP)
	start := time.Now()

	// API Gateway v2 entrega os headers em lowercase
	corrID := req.Headers[HeaderCorrelationID]
	if corrID == "" {
		corrID = uuid.NewString()
	}
	ctx, reqLog := logger.WithCorrelation(ctx, corrID)
	ctx = context.WithValue(ctx, ContextKeyCorrID, corrID)

	// 2. Tradução para a requisição abstrata
	method := req.RequestContext.HTTP.Method
	routeReq := router.Request{
		Method:          method,
		Path:            stripStage(req.RawPath, req.RequestContext.Stage),
		PathParameters:  req.PathParameters,
		QueryParameters: req.QueryStringParameters,
		Headers:         req.Headers,
		Body:            req.Body,
	}
	if explicitRouteKey(req.RouteKey) {
		routeReq.RouteKey = req.RouteKey
	} else {
		routeReq.PathParameters = nil
	}

	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			reqLog.Warn().Err(err).Msg("body base64 inválido, ignorando")
			routeReq.Body = ""
		} else {
			routeReq.Body = string(decoded)
		}
	}

	// 3. Dispatch
	resp := h.router.Dispatch(ctx, routeReq)

	// 4. Log Final (Similar ao middleware HTTP)
	reqLog.Info().
		Str("method", method).
		Str("path", req.RawPath).
		Str("route_key", req.RouteKey).
		Int("status", resp.StatusCode).
		Int64("latency_ms", time.Since(start).Milliseconds()).
		Msg("lambda request completed")

	// Injeta headers de observabilidade na resposta
	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	resp.Headers[HeaderCorrelationID] = corrID

	return events.APIGatewayV2HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}, nil
}

// explicitRouteKey diz se a route key do API Gateway identifica uma rota da
// API. "$default" e rotas proxy ("ANY /{proxy+}") exigem resolução pelo path.
func explicitRouteKey(key string) bool {
	return key != "" &&
		key != "$default" &&
		!strings.HasPrefix(key, "ANY ") &&
		!strings.Contains(key, "+}")
}

// stripStage remove o prefixo do stage de rawPath ("/prod/books" -> "/books").
func stripStage(rawPath, stage string) string {
	if stage == "" || stage == "$default" {
		return rawPath
	}
	prefix := "/" + stage
	if rawPath == prefix {
		return "/"
	}
	if strings.HasPrefix(rawPath, prefix+"/") {
		return rawPath[len(prefix):]
	}
	return rawPath
}
