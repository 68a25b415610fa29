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
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/raywall/book-catalog/pkg/bootstrap"
	"github.com/raywall/book-catalog/pkg/transport"
	"github.com/rs/zerolog/log"
)

var (
	// Variáveis injetáveis para mocking
	configLoader  = bootstrap.LoadConfig
	serverStarter = transport.StartHTTPServer
	lambdaStarter = lambda.Start
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal().Err(err).Msg("FATAL: falha na inicialização")
	}
}

// run contém a lógica principal testável
func run(ctx context.Context) error {
	// 1. Carrega Configuração (env + .env.local + placeholders)
	cfg, err := configLoader(ctx)
	if err != nil {
		return err
	}

	// 2. Monta dependências (Boot Time)
	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	// 3. Seleciona Runtime Strategy
	switch cfg.Service.Runtime {
	case "local":
		handler := transport.NewHTTPHandler(app.Router, cfg.Service.PathPrefix)
		return serverStarter(ctx, handler, cfg.Service.Port)
	case "lambda":
		handler := transport.NewLambdaHandler(app.Router)
		lambdaStarter(handler.Handle)
		return nil
	default:
		return fmt.Errorf("runtime desconhecido: %s", cfg.Service.Runtime)
	}
}
