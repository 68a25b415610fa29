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
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// === MÉTODOS FLUENTES ===

func (qb *QueryBuilder[T]) Index(name string) *QueryBuilder[T] {
	qb.indexName = aws.String(name)
	return qb
}

func (qb *QueryBuilder[T]) KeyEqual(key string, value any) *QueryBuilder[T] {
	cond := expression.KeyEqual(expression.Key(key), expression.Value(value))
	if qb.keyCond == nil {
		qb.keyCond = &cond
	} else {
		tmp := qb.keyCond.And(cond)
		qb.keyCond = &tmp
	}
	return qb
}

func (qb *QueryBuilder[T]) FilterEqual(field string, value any) *QueryBuilder[T] {
	return qb.Where(expression.Equal(expression.Name(field), expression.Value(value)))
}

// Where acrescenta uma condição arbitrária ao filtro (combinada com AND).
func (qb *QueryBuilder[T]) Where(cond expression.ConditionBuilder) *QueryBuilder[T] {
	if qb.filterCond == nil {
		qb.filterCond = &cond
	} else {
		tmp := qb.filterCond.And(cond)
		qb.filterCond = &tmp
	}
	return qb
}

func (qb *QueryBuilder[T]) Limit(n int32) *QueryBuilder[T] {
	qb.limit = &n
	return qb
}

// LastKey retoma a leitura a partir do token devolvido por Exec.
// Tokens inválidos são ignorados e a leitura começa do início.
func (qb *QueryBuilder[T]) LastKey(token string) *QueryBuilder[T] {
	if token == "" {
		return qb
	}
	if key, err := decodeToken(token); err == nil {
		qb.lastKey = key
	}
	return qb
}

// Query inicia uma Query
func (s *dynamoStore[T]) Query() *QueryBuilder[T] {
	return &QueryBuilder[T]{
		store:       s,
		scanForward: aws.Bool(true),
	}
}

// Scan inicia um Scan
func (s *dynamoStore[T]) Scan() *QueryBuilder[T] {
	return &QueryBuilder[T]{
		store:  s,
		isScan: true,
	}
}

// Exec executa uma página da consulta e devolve o token da próxima
func (qb *QueryBuilder[T]) Exec(ctx context.Context) ([]T, string, error) {
	expr, err := qb.build()
	if err != nil {
		return nil, "", err
	}

	items, lastKey, err := qb.page(ctx, expr, qb.lastKey)
	if err != nil {
		return nil, "", err
	}

	result, err := unmarshalItems[T](items)
	if err != nil {
		return nil, "", err
	}
	token, err := encodeToken(lastKey)
	if err != nil {
		return nil, "", fmt.Errorf("dynamostore: encode token failed: %w", err)
	}
	return result, token, nil
}

// All percorre todas as páginas (LastEvaluatedKey) até o fim. O Limit, se
// informado, vale por página.
func (qb *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	expr, err := qb.build()
	if err != nil {
		return nil, err
	}

	var (
		result []T
		start  = qb.lastKey
	)
	for {
		items, lastKey, err := qb.page(ctx, expr, start)
		if err != nil {
			return nil, err
		}
		page, err := unmarshalItems[T](items)
		if err != nil {
			return nil, err
		}
		result = append(result, page...)

		if len(lastKey) == 0 {
			return result, nil
		}
		start = lastKey
	}
}

func (qb *QueryBuilder[T]) build() (expression.Expression, error) {
	if qb.keyCond == nil && qb.filterCond == nil {
		return expression.Expression{}, nil
	}

	builder := expression.NewBuilder()
	if qb.keyCond != nil {
		builder = builder.WithKeyCondition(*qb.keyCond)
	}
	if qb.filterCond != nil {
		builder = builder.WithFilter(*qb.filterCond)
	}

	expr, err := builder.Build()
	if err != nil {
		return expression.Expression{}, fmt.Errorf("dynamostore: build expression failed: %w", err)
	}
	return expr, nil
}

func (qb *QueryBuilder[T]) page(
	ctx context.Context,
	expr expression.Expression,
	start map[string]types.AttributeValue,
) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error) {
	if qb.isScan || qb.keyCond == nil {
		out, err := qb.store.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(qb.store.cfg.TableName),
			IndexName:                 qb.indexName,
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			Limit:                     qb.limit,
			ExclusiveStartKey:         start,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("dynamostore: scan failed: %w", err)
		}
		return out.Items, out.LastEvaluatedKey, nil
	}

	out, err := qb.store.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(qb.store.cfg.TableName),
		IndexName:                 qb.indexName,
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     qb.limit,
		ScanIndexForward:          qb.scanForward,
		ExclusiveStartKey:         start,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("dynamostore: query failed: %w", err)
	}
	return out.Items, out.LastEvaluatedKey, nil
}

func unmarshalItems[T any](items []map[string]types.AttributeValue) ([]T, error) {
	result := make([]T, 0, len(items))
	for _, item := range items {
		var t T
		if err := attributevalue.UnmarshalMap(item, &t); err != nil {
			return nil, fmt.Errorf("dynamostore: unmarshal failed: %w", err)
		}
		result = append(result, t)
	}
	return result, nil
}
