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
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/raywall/book-catalog/pkg/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Configure inicializa o logger global baseando-se na configuração.
func Configure(cfg config.LoggingConf) zerolog.Logger {
	logger := configure(cfg, os.Stdout)
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger
	return logger
}

func configure(cfg config.LoggingConf, out io.Writer) zerolog.Logger {
	// Define o nível de log (default: info)
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// JSON para produção, Console "bonito" para local se solicitado
	output := out
	if !cfg.Enabled {
		output = io.Discard
	} else if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(output).
		With().
		Timestamp().
		Logger()
}

// WithCorrelation devolve um contexto carregando um logger filho com o
// correlation_id informado. Recuperável com log.Ctx(ctx).
func WithCorrelation(ctx context.Context, correlationID string) (context.Context, zerolog.Logger) {
	l := log.Ctx(ctx).With().Str("correlation_id", correlationID).Logger()
	return l.WithContext(ctx), l
}
