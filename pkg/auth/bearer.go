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
package auth

import (
	"strings"

	"github.com/raywall/book-catalog/pkg/apperror"
)

const bearerPrefix = "bearer "

// BearerToken extrai o token do header Authorization (busca case-insensitive
// pelo nome do header e pelo esquema).
//
// Retorna ok=false quando o header não existe. Um header presente mas fora
// do formato "Bearer <token>" resulta em erro AuthenticationRequired.
func BearerToken(headers map[string]string) (token string, ok bool, err error) {
	value, found := lookupHeader(headers, "Authorization")
	if !found {
		return "", false, nil
	}

	value = strings.TrimSpace(value)
	if len(value) <= len(bearerPrefix) || !strings.EqualFold(value[:len(bearerPrefix)], bearerPrefix) {
		return "", true, apperror.AuthenticationRequired(apperror.MsgMissingBearer)
	}

	token = strings.TrimSpace(value[len(bearerPrefix):])
	if token == "" {
		return "", true, apperror.AuthenticationRequired(apperror.MsgMissingBearer)
	}
	return token, true, nil
}

func lookupHeader(headers map[string]string, name string) (string, bool) {
	if v, ok := headers[name]; ok {
		return v, true
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
