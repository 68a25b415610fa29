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
package dyndb

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var (
	// ErrNotFound – erro padrão quando o item não existe
	ErrNotFound = errors.New("dyndb: item not found")

	// ErrConditionFailed é retornado quando a condição de uma escrita
	// condicional (PutIf, DeleteIf, PutUnique, DeleteUnique) não é satisfeita.
	ErrConditionFailed = errors.New("dyndb: condition check failed")
)

// DynamoDBClient interface para abstrair o cliente DynamoDB
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store: interface principal (genérica)
type Store[T any] interface {
	Get(ctx context.Context, hashKey, sortKey any) (*T, error)
	Put(ctx context.Context, item T) error
	Delete(ctx context.Context, hashKey, sortKey any) error

	// PutIf grava o item somente se a condição for satisfeita.
	PutIf(ctx context.Context, item T, cond expression.ConditionBuilder) error
	// DeleteIf remove o item somente se a condição for satisfeita.
	DeleteIf(ctx context.Context, hashKey, sortKey any, cond expression.ConditionBuilder) error

	// PutUnique insere o item e um registro-guarda por atributo único na
	// mesma transação. Falha com ErrConditionFailed se o item ou qualquer
	// guarda já existir.
	PutUnique(ctx context.Context, item T, uniques ...Unique) error
	// DeleteUnique remove o item e seus registros-guarda na mesma transação.
	DeleteUnique(ctx context.Context, hashKey, sortKey any, uniques ...Unique) error

	BatchWrite(ctx context.Context, puts []T, deletes [][2]any) error

	// Query e Scan retornam QueryBuilder[T]
	Query() *QueryBuilder[T]
	Scan() *QueryBuilder[T]
}

// Unique descreve um atributo cujo valor não pode se repetir na tabela.
type Unique struct {
	Attribute string
	Value     string
}

// GuardKey é a chave do registro-guarda que reserva o valor.
func (u Unique) GuardKey() string {
	return fmt.Sprintf("UNIQUE#%s#%s", u.Attribute, u.Value)
}

// TableConfig: configuração da tabela
type TableConfig[T any] struct {
	TableName string
	HashKey   string
	SortKey   string // opcional
}

// QueryBuilder: o builder fluente
type QueryBuilder[T any] struct {
	store       *dynamoStore[T]
	keyCond     *expression.KeyConditionBuilder
	filterCond  *expression.ConditionBuilder
	indexName   *string
	limit       *int32
	lastKey     map[string]types.AttributeValue
	scanForward *bool
	isScan      bool
}

// encodeToken converte o LastEvaluatedKey em um token opaco (base64 de JSON).
func encodeToken(lastKey map[string]types.AttributeValue) (string, error) {
	if len(lastKey) == 0 {
		return "", nil
	}
	var plain map[string]any
	if err := attributevalue.UnmarshalMap(lastKey, &plain); err != nil {
		return "", err
	}
	b, err := json.Marshal(plain)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// decodeToken faz o caminho inverso de encodeToken.
func decodeToken(token string) (map[string]types.AttributeValue, error) {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	var plain map[string]any
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, err
	}
	return attributevalue.MarshalMap(plain)
}
