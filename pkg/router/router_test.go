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
package router

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/raywall/book-catalog/pkg/apperror"
	"github.com/raywall/book-catalog/pkg/auth"
	"github.com/raywall/book-catalog/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret-0123456789abcdef"

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(testSecret, time.Hour, "book-catalog")
	require.NoError(t, err)
	return tokens
}

func bearer(t *testing.T, tokens *auth.TokenService, userID string) map[string]string {
	t.Helper()
	token, err := tokens.Issue(userID, userID+"@x.com")
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

// whoami devolve o userId resolvido (ou "anonymous").
func whoami(_ context.Context, _ Request, caller *auth.Identity) (int, any, error) {
	if caller == nil {
		return http.StatusOK, map[string]string{"user": "anonymous"}, nil
	}
	return http.StatusOK, map[string]string{"user": caller.UserID}, nil
}

type recordingProvider struct {
	tags [][]string
}

func (p *recordingProvider) Count(_ string, _ float64, tags []string) error {
	p.tags = append(p.tags, tags)
	return nil
}
func (p *recordingProvider) Gauge(string, float64, []string) error     { return nil }
func (p *recordingProvider) Histogram(string, float64, []string) error { return nil }

func TestDispatch_IdentityModes(t *testing.T) {
	tokens := newTokens(t)
	other, err := auth.NewTokenService("another-secret-0123456789abcdef-xyz", time.Hour, "book-catalog")
	require.NoError(t, err)
	forged, err := other.Issue("mallory", "m@x.com")
	require.NoError(t, err)

	r := New(tokens, Config{},
		Route{Method: http.MethodGet, Path: "/open", Auth: AuthNone, Handle: whoami},
		Route{Method: http.MethodGet, Path: "/maybe", Auth: AuthOptional, Handle: whoami},
		Route{Method: http.MethodGet, Path: "/closed", Auth: AuthRequired, Handle: whoami},
		Route{Method: http.MethodGet, Path: "/mine", Auth: AuthRequired, AuthMessage: "custom", Handle: whoami},
	)
	ctx := context.Background()

	tests := []struct {
		name       string
		key        string
		headers    map[string]string
		wantStatus int
		wantBody   string
	}{
		{"none ignora token", "GET /open", bearer(t, tokens, "alice"), 200, `{"user":"anonymous"}`},
		{"optional com token válido", "GET /maybe", bearer(t, tokens, "alice"), 200, `{"user":"alice"}`},
		{"optional sem token", "GET /maybe", nil, 200, `{"user":"anonymous"}`},
		{"optional com token forjado segue anônimo", "GET /maybe", map[string]string{"Authorization": "Bearer " + forged}, 200, `{"user":"anonymous"}`},
		{"optional com header malformado segue anônimo", "GET /maybe", map[string]string{"Authorization": "Basic abc"}, 200, `{"user":"anonymous"}`},
		{"required com token válido", "GET /closed", bearer(t, tokens, "alice"), 200, `{"user":"alice"}`},
		{"required sem header", "GET /closed", nil, 401, `{"error":"` + apperror.MsgMissingBearer + `"}`},
		{"required com header malformado", "GET /closed", map[string]string{"authorization": "Token abc"}, 401, `{"error":"` + apperror.MsgMissingBearer + `"}`},
		{"required com token forjado", "GET /closed", map[string]string{"Authorization": "Bearer " + forged}, 401, `{"error":"` + apperror.MsgInvalidToken + `"}`},
		{"required com mensagem própria", "GET /mine", nil, 401, `{"error":"custom"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := r.Dispatch(ctx, Request{RouteKey: tt.key, Headers: tt.headers})

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.JSONEq(t, tt.wantBody, resp.Body)
			assert.Equal(t, "application/json", resp.Headers["Content-Type"])
		})
	}
}

func TestDispatch_UnsupportedRoute(t *testing.T) {
	r := New(newTokens(t), Config{})

	resp := r.Dispatch(context.Background(), Request{RouteKey: "PATCH /books"})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Unsupported route: PATCH /books"}`, resp.Body)
}

func TestDispatch_ErrorMapping(t *testing.T) {
	fail := func(err error) HandlerFunc {
		return func(context.Context, Request, *auth.Identity) (int, any, error) { return 0, nil, err }
	}
	r := New(newTokens(t), Config{},
		Route{Method: "GET", Path: "/dup", Handle: fail(apperror.DuplicateEmail())},
		Route{Method: "GET", Path: "/forbidden", Handle: fail(apperror.Forbidden(apperror.MsgNotOwner))},
		Route{Method: "GET", Path: "/boom", Handle: fail(assert.AnError)},
		Route{Method: "GET", Path: "/panic", Handle: func(context.Context, Request, *auth.Identity) (int, any, error) {
			panic("kaboom")
		}},
	)
	ctx := context.Background()

	resp := r.Dispatch(ctx, Request{RouteKey: "GET /dup"})
	assert.Equal(t, 400, resp.StatusCode)
	assert.JSONEq(t, `{"error":"User with this email already exists."}`, resp.Body)

	resp = r.Dispatch(ctx, Request{RouteKey: "GET /forbidden"})
	assert.Equal(t, 403, resp.StatusCode)

	resp = r.Dispatch(ctx, Request{RouteKey: "GET /boom"})
	assert.Equal(t, 500, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Internal server error"}`, resp.Body)
	assert.NotContains(t, resp.Body, assert.AnError.Error())

	resp = r.Dispatch(ctx, Request{RouteKey: "GET /panic"})
	assert.Equal(t, 500, resp.StatusCode)
}

func TestDispatch_OptionsPreflight(t *testing.T) {
	r := New(newTokens(t), Config{}, Route{Method: "GET", Path: "/books/{id}", Handle: whoami})

	resp := r.Dispatch(context.Background(), Request{Method: "OPTIONS", Path: "/books/9"})

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "{}", resp.Body)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, corsAllowMethods, resp.Headers["Access-Control-Allow-Methods"])
}

func TestDispatch_CORSAllowList(t *testing.T) {
	r := New(newTokens(t), Config{AllowedOrigins: []string{"https://books.example.com"}},
		Route{Method: "GET", Path: "/health", Handle: whoami})
	ctx := context.Background()

	resp := r.Dispatch(ctx, Request{RouteKey: "GET /health", Headers: map[string]string{"origin": "https://books.example.com"}})
	assert.Equal(t, "https://books.example.com", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "true", resp.Headers["Access-Control-Allow-Credentials"])

	resp = r.Dispatch(ctx, Request{RouteKey: "GET /health", Headers: map[string]string{"Origin": "https://evil.example.com"}})
	assert.NotContains(t, resp.Headers, "Access-Control-Allow-Origin")
}

func TestDispatch_RecordsMetrics(t *testing.T) {
	provider := &recordingProvider{}
	r := New(newTokens(t), Config{Recorder: metrics.NewRecorder(provider)},
		Route{Method: "GET", Path: "/books/{id}", Handle: whoami})

	r.Dispatch(context.Background(), Request{Method: "GET", Path: "/books/3"})

	require.Len(t, provider.tags, 1)
	assert.Equal(t, []string{"route:GET /books/{id}", "status:200"}, provider.tags[0])
}

func TestResolve(t *testing.T) {
	r := New(newTokens(t), Config{},
		Route{Method: "GET", Path: "/books", Handle: whoami},
		Route{Method: "GET", Path: "/books/{id}", Handle: whoami},
		Route{Method: "DELETE", Path: "/books/{id}", Handle: whoami},
	)

	key, params, ok := r.Resolve("GET", "/books/42")
	assert.True(t, ok)
	assert.Equal(t, "GET /books/{id}", key)
	assert.Equal(t, map[string]string{"id": "42"}, params)

	key, _, ok = r.Resolve("delete", "/books/42/")
	assert.True(t, ok)
	assert.Equal(t, "DELETE /books/{id}", key)

	key, params, ok = r.Resolve("GET", "/books")
	assert.True(t, ok)
	assert.Equal(t, "GET /books", key)
	assert.Empty(t, params)

	key, _, ok = r.Resolve("POST", "/books")
	assert.False(t, ok)
	assert.Equal(t, "POST /books", key)

	_, _, ok = r.Resolve("GET", "/books/1/pages")
	assert.False(t, ok)
}

func TestNew_DuplicateRoutePanics(t *testing.T) {
	assert.Panics(t, func() {
		New(newTokens(t), Config{},
			Route{Method: "GET", Path: "/x", Handle: whoami},
			Route{Method: "GET", Path: "/x", Handle: whoami},
		)
	})
}
