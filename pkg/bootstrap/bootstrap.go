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

// Package bootstrap monta o grafo de dependências do serviço a partir da
// configuração: clientes AWS, repositórios, serviços e Router. Usado pelos
// binários de cmd/.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/raywall/book-catalog/pkg/accounts"
	"github.com/raywall/book-catalog/pkg/auth"
	"github.com/raywall/book-catalog/pkg/awsconfig"
	"github.com/raywall/book-catalog/pkg/catalog"
	"github.com/raywall/book-catalog/pkg/config"
	"github.com/raywall/book-catalog/pkg/logger"
	"github.com/raywall/book-catalog/pkg/metrics"
	"github.com/raywall/book-catalog/pkg/observability"
	"github.com/raywall/book-catalog/pkg/queue"
	"github.com/raywall/book-catalog/pkg/router"
	"github.com/raywall/book-catalog/pkg/secrets"
	"github.com/raywall/book-catalog/pkg/storage/dynamo"
	"github.com/raywall/book-catalog/pkg/storage/memory"
	"github.com/rs/zerolog/log"
)

// EnvFile é o arquivo opcional lido antes das variáveis de ambiente.
const EnvFile = ".env.local"

// App concentra as dependências montadas.
type App struct {
	Config   *config.ServiceConfig
	Accounts *accounts.Service
	Catalog  *catalog.Service
	Books    catalog.Repository
	Router   *router.Router
	Recorder *metrics.Recorder

	awsCfg  *aws.Config
	sqs     *sqs.Client
	closers []io.Closer
}

// LoadConfig carrega a configuração resolvendo placeholders ${ssm.*} e
// ${secret.*} na AWS.
func LoadConfig(ctx context.Context) (*config.ServiceConfig, error) {
	resolver := secrets.NewAWSResolver(os.Getenv("AWS_REGION"))
	return config.Load(ctx, resolver, EnvFile)
}

// New monta a aplicação. Clientes AWS só são criados quando o driver ou a
// fila de eventos exigem.
func New(ctx context.Context, cfg *config.ServiceConfig) (*App, error) {
	logger.Configure(cfg.Logging)
	app := &App{Config: cfg}

	// 1. Métricas
	provider, err := observability.SetupMetrics(cfg.Metrics, cfg.Service.Name)
	if err != nil {
		return nil, err
	}
	if c, ok := provider.(io.Closer); ok {
		app.closers = append(app.closers, c)
	}
	app.Recorder = metrics.NewRecorder(provider)

	// 2. Autenticação
	tokens, err := auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	if err != nil {
		return nil, err
	}
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	// 3. Repositórios
	var users accounts.Repository
	switch cfg.Storage.Driver {
	case "memory":
		log.Warn().Msg("STORAGE_DRIVER=memory: dados não são persistidos")
		users = memory.NewUserRepository()
		app.Books = memory.NewBookRepository()
	default:
		awsCfg, err := app.awsConfig(ctx)
		if err != nil {
			return nil, err
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.Storage.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			}
		})
		users = dynamo.NewUserRepository(client, cfg.Storage.UsersTable, cfg.Storage.EmailIndex)
		app.Books = dynamo.NewBookRepository(client, cfg.Storage.BooksTable, cfg.Storage.OwnerIndex)
	}

	// 4. Eventos de conta
	var events accounts.EventPublisher
	if cfg.Events.QueueURL != "" {
		client, err := app.SQS(ctx)
		if err != nil {
			return nil, err
		}
		events = queue.NewPublisher(client, cfg.Events.QueueURL)
	}

	// 5. Serviços e Router
	app.Accounts = accounts.NewService(users, hasher, tokens, events)
	app.Catalog = catalog.NewService(app.Books, cfg.Books.EnforceUpdateOwnership)

	api := &router.API{
		Accounts:             app.Accounts,
		Catalog:              app.Catalog,
		AllowAccountDeletion: cfg.Accounts.AllowDeletion,
	}
	app.Router = router.New(tokens, router.Config{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Recorder:       app.Recorder,
	}, api.Routes()...)

	log.Info().
		Str("service", cfg.Service.Name).
		Str("runtime", cfg.Service.Runtime).
		Str("storage", cfg.Storage.Driver).
		Strs("routes", app.Router.Routes()).
		Msg("serviço inicializado")
	return app, nil
}

// SQS devolve o cliente SQS compartilhado.
func (a *App) SQS(ctx context.Context) (*sqs.Client, error) {
	if a.sqs != nil {
		return a.sqs, nil
	}
	awsCfg, err := a.awsConfig(ctx)
	if err != nil {
		return nil, err
	}
	a.sqs = sqs.NewFromConfig(awsCfg)
	return a.sqs, nil
}

// S3 cria um cliente S3 (usado pelo seed).
func (a *App) S3(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := a.awsConfig(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg), nil
}

// Close libera os recursos abertos (cliente statsd).
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func (a *App) awsConfig(ctx context.Context) (aws.Config, error) {
	if a.awsCfg != nil {
		return *a.awsCfg, nil
	}
	cfg, err := awsconfig.Get(ctx, a.Config.Storage.Region)
	if err != nil {
		return aws.Config{}, fmt.Errorf("bootstrap: carregar configuração AWS: %w", err)
	}
	a.awsCfg = &cfg
	return cfg, nil
}
