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
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator cria uma nova instância do validador
func NewValidator() *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
	}
}

// Validate realiza validações estruturais (tags) e semânticas (lógica)
func (cv *ConfigValidator) Validate(cfg *ServiceConfig) error {
	// 1. Validação Estrutural (Tags do struct: required, oneof, etc)
	if err := cv.validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errMsgs := make([]string, 0, len(validationErrors))
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("erros de validação estrutural:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("erro de validação estrutural: %w", err)
	}

	// 2. Validação Semântica (Regras de negócio da configuração)
	if err := cv.validateSemantics(cfg); err != nil {
		return fmt.Errorf("erro de validação semântica: %w", err)
	}

	return nil
}

func (cv *ConfigValidator) validateSemantics(cfg *ServiceConfig) error {
	// 1. Placeholders não resolvidos indicam falha silenciosa do injector
	if strings.Contains(cfg.Auth.Secret, "${") {
		return fmt.Errorf("JWT_SECRET contém placeholder não resolvido")
	}

	// 2. "*" não pode ser combinado com origens explícitas
	if len(cfg.CORS.AllowedOrigins) > 1 && slices.Contains(cfg.CORS.AllowedOrigins, "*") {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS: '*' não pode ser combinado com outras origens")
	}

	// 3. O driver em memória não persiste nada: só faz sentido localmente
	if cfg.Storage.Driver == "memory" && cfg.Service.Runtime != "local" {
		return fmt.Errorf("STORAGE_DRIVER=memory só é permitido com SERVICE_RUNTIME=local")
	}

	return nil
}
