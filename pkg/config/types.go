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

import "time"

// ServiceConfig é a configuração raiz do serviço, carregada do ambiente.
type ServiceConfig struct {
	Service  ServiceDetails
	Storage  StorageConf
	Auth     AuthConf
	Accounts AccountsConf
	Books    BooksConf
	CORS     CORSConf
	Events   EventsConf
	Logging  LoggingConf
	Metrics  MetricsConf
}

// ServiceDetails contém os metadados e configurações de runtime do serviço.
type ServiceDetails struct {
	Name       string `env:"SERVICE_NAME" envDefault:"book-catalog" validate:"required,hostname_rfc1123"`
	Runtime    string `env:"SERVICE_RUNTIME" envDefault:"lambda" validate:"required,oneof=local lambda"`
	Port       int    `env:"PORT" envDefault:"3001" validate:"required_if=Runtime local,gte=0,lte=65535"`
	PathPrefix string `env:"API_PATH_PREFIX" envDefault:"/api" validate:"omitempty,startswith=/"`
}

type StorageConf struct {
	Driver     string `env:"STORAGE_DRIVER" envDefault:"dynamodb" validate:"oneof=dynamodb memory"`
	Region     string `env:"AWS_REGION"`
	Endpoint   string `env:"DYNAMODB_ENDPOINT" validate:"omitempty,url"`
	BooksTable string `env:"TABLE_NAME" envDefault:"books" validate:"required"`
	UsersTable string `env:"USERS_TABLE_NAME" envDefault:"users" validate:"required"`
	EmailIndex string `env:"USERS_EMAIL_INDEX" envDefault:"EmailIndex" validate:"required"`
	OwnerIndex string `env:"BOOKS_OWNER_INDEX"` // opcional
}

// AuthConf não tem default para o segredo: sem JWT_SECRET o serviço não sobe.
type AuthConf struct {
	Secret     string        `env:"JWT_SECRET" validate:"required,min=32"`
	TokenTTL   time.Duration `env:"JWT_TTL" envDefault:"1h" validate:"gt=0"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:"book-catalog"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10" validate:"gte=10,lte=31"`
}

type AccountsConf struct {
	AllowDeletion bool `env:"ACCOUNT_DELETION_ENABLED" envDefault:"false"`
}

type BooksConf struct {
	EnforceUpdateOwnership bool `env:"BOOKS_ENFORCE_UPDATE_OWNERSHIP" envDefault:"true"`
}

type CORSConf struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" validate:"min=1"`
}

type EventsConf struct {
	QueueURL string `env:"ACCOUNT_EVENTS_QUEUE_URL" validate:"omitempty,url"`
}

type LoggingConf struct {
	Enabled bool   `env:"LOG_ENABLED" envDefault:"true"`
	Level   string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format  string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`
}

type MetricsConf struct {
	Datadog DatadogConf
}

type DatadogConf struct {
	Enabled   bool   `env:"DD_ENABLED" envDefault:"false"`
	Addr      string `env:"DD_AGENT_HOST" validate:"required_if=Enabled true"`
	Namespace string `env:"DD_NAMESPACE" envDefault:"book_catalog."`
}
