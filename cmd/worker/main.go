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
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/raywall/book-catalog/pkg/bootstrap"
	"github.com/raywall/book-catalog/pkg/queue"
	"github.com/raywall/book-catalog/pkg/transport"
	"github.com/rs/zerolog/log"
)

var (
	// Variáveis injetáveis para mocking
	configLoader    = bootstrap.LoadConfig
	consumerStarter = func(ctx context.Context, c *queue.Consumer) { c.Start(ctx) }
	lambdaStarter   = lambda.Start
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal().Err(err).Msg("FATAL: falha no worker")
	}
}

// run monta o handler de eventos de conta e o entrega ao runtime: long
// polling da fila (local) ou event source mapping SQS (lambda).
func run(ctx context.Context) error {
	cfg, err := configLoader(ctx)
	if err != nil {
		return err
	}

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	handler := queue.NewHandler(app.Catalog, app.Recorder)

	switch cfg.Service.Runtime {
	case "local":
		if cfg.Events.QueueURL == "" {
			return errors.New("ACCOUNT_EVENTS_QUEUE_URL é obrigatório no worker local")
		}
		client, err := app.SQS(ctx)
		if err != nil {
			return err
		}
		consumerStarter(ctx, queue.NewConsumer(client, cfg.Events.QueueURL, handler.Handle))
		return nil
	case "lambda":
		lambdaStarter(transport.NewSQSHandler(handler.Handle).Handle)
		return nil
	default:
		return fmt.Errorf("runtime desconhecido: %s", cfg.Service.Runtime)
	}
}
