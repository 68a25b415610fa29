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
package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/raywall/book-catalog/pkg/awsconfig"
)

// Fontes aceitas por Resolve.
const (
	SourceSSM    = "ssm"
	SourceSecret = "secret"
)

// Interfaces para abstrair o SDK da AWS (Permite Mocking)
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSResolver busca valores no Parameter Store e no Secrets Manager.
// Os clients só são criados na primeira resolução.
type AWSResolver struct {
	region string

	once    sync.Once
	initErr error
	ssm     SSMClient
	secrets SecretsClient
}

// NewAWSResolver cria um resolver que usa a configuração padrão da AWS.
func NewAWSResolver(region string) *AWSResolver {
	return &AWSResolver{region: region}
}

// NewAWSResolverWithClients cria um resolver com clients já construídos.
func NewAWSResolverWithClients(ssmClient SSMClient, secretsClient SecretsClient) *AWSResolver {
	r := &AWSResolver{ssm: ssmClient, secrets: secretsClient}
	r.once.Do(func() {})
	return r
}

// Resolve devolve o valor de key na fonte indicada.
//
// Para secrets, "id#campo" seleciona um campo de um secret em JSON.
// Parâmetros do SSM são sempre lidos com decrypt.
func (r *AWSResolver) Resolve(ctx context.Context, source, key string) (string, error) {
	r.once.Do(func() { r.initErr = r.init(ctx) })
	if r.initErr != nil {
		return "", r.initErr
	}

	switch source {
	case SourceSSM:
		return getParameter(ctx, r.ssm, key)
	case SourceSecret:
		id, field, _ := strings.Cut(key, "#")
		return getSecret(ctx, r.secrets, id, field)
	}
	return "", fmt.Errorf("secrets: fonte desconhecida %q", source)
}

func (r *AWSResolver) init(ctx context.Context) error {
	cfg, err := awsconfig.Get(ctx, r.region)
	if err != nil {
		return fmt.Errorf("secrets: falha ao carregar configuração AWS: %w", err)
	}
	r.ssm = ssm.NewFromConfig(cfg)
	r.secrets = secretsmanager.NewFromConfig(cfg)
	return nil
}

func getParameter(ctx context.Context, client SSMClient, path string) (string, error) {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(path),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("erro no SSM GetParameter %s: %w", path, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("parâmetro %s sem valor", path)
	}
	return *out.Parameter.Value, nil
}

func getSecret(ctx context.Context, client SecretsClient, secretID, field string) (string, error) {
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return "", fmt.Errorf("erro no SecretsManager %s: %w", secretID, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s sem SecretString", secretID)
	}

	val := *out.SecretString
	if field == "" {
		return val, nil
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return "", fmt.Errorf("secret %s não é um JSON: %w", secretID, err)
	}
	v, ok := data[field]
	if !ok {
		return "", fmt.Errorf("campo %q não encontrado no secret %s", field, secretID)
	}
	return fmt.Sprintf("%v", v), nil
}
