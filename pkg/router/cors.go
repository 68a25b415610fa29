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

import "slices"

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization"
)

type corsPolicy struct {
	wildcard bool
	origins  []string
}

func newCORSPolicy(origins []string) corsPolicy {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return corsPolicy{wildcard: true}
	}
	return corsPolicy{origins: origins}
}

// headers devolve os headers CORS para a origem da requisição. Origens fora
// da lista não recebem Access-Control-Allow-Origin.
func (c corsPolicy) headers(origin string) map[string]string {
	h := map[string]string{
		"Access-Control-Allow-Methods": corsAllowMethods,
		"Access-Control-Allow-Headers": corsAllowHeaders,
	}
	switch {
	case c.wildcard:
		h["Access-Control-Allow-Origin"] = "*"
	case origin != "" && slices.Contains(c.origins, origin):
		h["Access-Control-Allow-Origin"] = origin
		h["Access-Control-Allow-Credentials"] = "true"
		h["Vary"] = "Origin"
	}
	return h
}
