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
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// batchWriteLimit é o máximo de operações aceito por BatchWriteItem.
const batchWriteLimit = 25

// Espera entre reenvios de UnprocessedItems: dobra a cada tentativa até o teto.
var (
	retryBaseDelay = 50 * time.Millisecond
	retryMaxDelay  = 2 * time.Second
)

type dynamoStore[T any] struct {
	client DynamoDBClient
	cfg    TableConfig[T]
}

// New cria um store reutilizável
func New[T any](client DynamoDBClient, cfg TableConfig[T]) Store[T] {
	return &dynamoStore[T]{
		client: client,
		cfg:    cfg,
	}
}

// Get item por chave primária
func (s *dynamoStore[T]) Get(ctx context.Context, hashKey, sortKey any) (*T, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.cfg.TableName),
		Key:            s.key(hashKey, sortKey),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamostore: get failed: %w", err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var item T
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("dynamostore: unmarshal failed: %w", err)
	}
	return &item, nil
}

// Put item (upsert)
func (s *dynamoStore[T]) Put(ctx context.Context, item T) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamostore: marshal failed: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.cfg.TableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("dynamostore: put failed: %w", err)
	}
	return nil
}

// PutIf grava o item aplicando uma ConditionExpression
func (s *dynamoStore[T]) PutIf(ctx context.Context, item T, cond expression.ConditionBuilder) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamostore: marshal failed: %w", err)
	}

	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("dynamostore: build condition failed: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(s.cfg.TableName),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return conditionalError("put", err)
	}
	return nil
}

// Delete item
func (s *dynamoStore[T]) Delete(ctx context.Context, hashKey, sortKey any) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.cfg.TableName),
		Key:       s.key(hashKey, sortKey),
	})
	if err != nil {
		return fmt.Errorf("dynamostore: delete failed: %w", err)
	}
	return nil
}

// DeleteIf remove o item aplicando uma ConditionExpression
func (s *dynamoStore[T]) DeleteIf(ctx context.Context, hashKey, sortKey any, cond expression.ConditionBuilder) error {
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("dynamostore: build condition failed: %w", err)
	}

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(s.cfg.TableName),
		Key:                       s.key(hashKey, sortKey),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return conditionalError("delete", err)
	}
	return nil
}

// PutUnique grava o item e os registros-guarda numa única TransactWriteItems
func (s *dynamoStore[T]) PutUnique(ctx context.Context, item T, uniques ...Unique) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamostore: marshal failed: %w", err)
	}

	notExists, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name(s.cfg.HashKey))).
		Build()
	if err != nil {
		return fmt.Errorf("dynamostore: build condition failed: %w", err)
	}

	items := make([]types.TransactWriteItem, 0, len(uniques)+1)
	items = append(items, types.TransactWriteItem{
		Put: &types.Put{
			TableName:                aws.String(s.cfg.TableName),
			Item:                     av,
			ConditionExpression:      notExists.Condition(),
			ExpressionAttributeNames: notExists.Names(),
		},
	})
	for _, u := range uniques {
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:                aws.String(s.cfg.TableName),
				Item:                     s.guardKey(u),
				ConditionExpression:      notExists.Condition(),
				ExpressionAttributeNames: notExists.Names(),
			},
		})
	}

	if _, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		return conditionalError("transact put", err)
	}
	return nil
}

// DeleteUnique remove o item e libera os registros-guarda
func (s *dynamoStore[T]) DeleteUnique(ctx context.Context, hashKey, sortKey any, uniques ...Unique) error {
	items := make([]types.TransactWriteItem, 0, len(uniques)+1)
	items = append(items, types.TransactWriteItem{
		Delete: &types.Delete{
			TableName: aws.String(s.cfg.TableName),
			Key:       s.key(hashKey, sortKey),
		},
	})
	for _, u := range uniques {
		items = append(items, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(s.cfg.TableName),
				Key:       s.guardKey(u),
			},
		})
	}

	if _, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		return conditionalError("transact delete", err)
	}
	return nil
}

// BatchWrite: puts + deletes (máx 25 por chamada)
func (s *dynamoStore[T]) BatchWrite(ctx context.Context, puts []T, deletes [][2]any) error {
	var writeRequests []types.WriteRequest

	// PUTs
	for _, item := range puts {
		itemMap, err := attributevalue.MarshalMap(item)
		if err != nil {
			return fmt.Errorf("batchwrite: marshal put item failed: %w", err)
		}
		writeRequests = append(writeRequests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: itemMap},
		})
	}

	// DELETEs
	for _, k := range deletes {
		writeRequests = append(writeRequests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{Key: s.key(k[0], k[1])},
		})
	}

	for i := 0; i < len(writeRequests); i += batchWriteLimit {
		end := min(i+batchWriteLimit, len(writeRequests))

		pending := map[string][]types.WriteRequest{
			s.cfg.TableName: writeRequests[i:end],
		}
		// UnprocessedItems são reenviados até esvaziar ou o contexto expirar
		for attempt := 0; ; attempt++ {
			out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return fmt.Errorf("batchwrite failed: %w", err)
			}
			pending = out.UnprocessedItems
			if len(pending) == 0 {
				break
			}
			if err := backoff(ctx, attempt); err != nil {
				return fmt.Errorf("batchwrite interrupted: %w", err)
			}
		}
	}
	return nil
}

// backoff dorme retryBaseDelay * 2^attempt (limitado a retryMaxDelay) ou
// até o contexto ser cancelado.
func backoff(ctx context.Context, attempt int) error {
	delay := retryMaxDelay
	if attempt < 16 {
		delay = min(retryBaseDelay<<attempt, retryMaxDelay)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *dynamoStore[T]) key(hashKey, sortKey any) map[string]types.AttributeValue {
	key := map[string]types.AttributeValue{
		s.cfg.HashKey: attr(hashKey),
	}
	if s.cfg.SortKey != "" && sortKey != nil {
		key[s.cfg.SortKey] = attr(sortKey)
	}
	return key
}

// guardKey monta a chave do registro-guarda. Em tabelas com sort key o
// mesmo valor é repetido nas duas chaves.
func (s *dynamoStore[T]) guardKey(u Unique) map[string]types.AttributeValue {
	g := u.GuardKey()
	if s.cfg.SortKey != "" {
		return s.key(g, g)
	}
	return s.key(g, nil)
}

// conditionalError traduz falhas de condição do SDK para ErrConditionFailed.
func conditionalError(op string, err error) error {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return ErrConditionFailed
	}

	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, r := range tce.CancellationReasons {
			if aws.ToString(r.Code) == "ConditionalCheckFailed" {
				return ErrConditionFailed
			}
		}
	}
	return fmt.Errorf("dynamostore: %s failed: %w", op, err)
}

// attr converte qualquer valor para types.AttributeValue
func attr(v any) types.AttributeValue {
	if v == nil {
		return &types.AttributeValueMemberNULL{Value: true}
	}
	av, err := attributevalue.Marshal(v)
	if err != nil {
		return &types.AttributeValueMemberNULL{Value: true}
	}
	return av
}
