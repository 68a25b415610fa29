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
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/raywall/book-catalog/envloader"
	"github.com/raywall/book-catalog/pkg/config/injector"
)

// Load monta a configuração do serviço:
//  1. arquivos .env opcionais (variáveis já exportadas têm precedência)
//  2. variáveis de ambiente via envloader
//  3. placeholders ${env|ssm|secret.*} via injector
//  4. validação estrutural e semântica
func Load(ctx context.Context, resolver injector.Resolver, envFiles ...string) (*ServiceConfig, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("falha ao ler %s: %w", f, err)
		}
	}

	cfg := &ServiceConfig{}
	if err := envloader.Load(cfg); err != nil {
		return nil, fmt.Errorf("falha ao carregar variáveis de ambiente: %w", err)
	}

	if err := injector.New(resolver).Inject(ctx, cfg); err != nil {
		return nil, fmt.Errorf("falha ao resolver placeholders: %w", err)
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
