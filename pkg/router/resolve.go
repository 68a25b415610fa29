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
	"net/http"
	"strings"
)

// pattern é um path de rota quebrado em segmentos; "{nome}" casa com
// qualquer segmento não vazio.
type pattern struct {
	method   string
	path     string
	segments []string
}

func compile(method, path string) pattern {
	return pattern{method: method, path: path, segments: split(path)}
}

func (p pattern) key() string {
	return p.method + " " + p.path
}

func (p pattern) match(path string) (map[string]string, bool) {
	segs := split(path)
	if len(segs) != len(p.segments) {
		return nil, false
	}

	params := map[string]string{}
	for i, s := range p.segments {
		if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			if segs[i] == "" {
				return nil, false
			}
			params[s[1:len(s)-1]] = segs[i]
			continue
		}
		if s != segs[i] {
			return nil, false
		}
	}
	return params, true
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Resolve traduz método e path concretos para a route key registrada e os
// parâmetros de path. OPTIONS casa com qualquer path registrado. Sem match,
// devolve "METHOD path" e ok=false.
func (r *Router) Resolve(method, path string) (routeKey string, params map[string]string, ok bool) {
	method = strings.ToUpper(method)
	for _, p := range r.patterns {
		if method != http.MethodOptions && p.method != method {
			continue
		}
		if params, ok := p.match(path); ok {
			return method + " " + p.path, params, true
		}
	}
	return method + " " + path, nil, false
}
