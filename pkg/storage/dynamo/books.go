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

// Package dynamo implementa os repositórios de livros e usuários sobre o
// dyndb.Store. As regras de posse e unicidade viram ConditionExpressions,
// de forma que a checagem e a escrita acontecem numa única chamada.
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/raywall/book-catalog/dyndb"
	"github.com/raywall/book-catalog/pkg/catalog"
)

const (
	attrID        = "id"
	attrOwnerID   = "ownerId"
	attrIsPrivate = "isPrivate"
)

// BookRepository persiste livros na tabela de livros (hash key "id").
type BookRepository struct {
	store      dyndb.Store[catalog.Book]
	ownerIndex string
}

// NewBookRepository cria o repositório. Com ownerIndex vazio as listagens
// por dono usam Scan com filtro.
func NewBookRepository(client dyndb.DynamoDBClient, table, ownerIndex string) *BookRepository {
	return &BookRepository{
		store: dyndb.New(client, dyndb.TableConfig[catalog.Book]{
			TableName: table,
			HashKey:   attrID,
		}),
		ownerIndex: ownerIndex,
	}
}

func (r *BookRepository) Get(ctx context.Context, id int64) (*catalog.Book, error) {
	book, err := r.store.Get(ctx, id, nil)
	if errors.Is(err, dyndb.ErrNotFound) {
		return nil, catalog.ErrBookNotFound
	}
	return book, err
}

// ListVisible filtra no servidor: públicos, legados sem isPrivate e, se
// houver chamador, os livros dele.
func (r *BookRepository) ListVisible(ctx context.Context, callerID string) ([]catalog.Book, error) {
	cond := expression.Or(
		expression.AttributeNotExists(expression.Name(attrIsPrivate)),
		expression.Equal(expression.Name(attrIsPrivate), expression.Value(false)),
	)
	if callerID != "" {
		cond = cond.Or(expression.Equal(expression.Name(attrOwnerID), expression.Value(callerID)))
	}

	books, err := r.store.Scan().Where(cond).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("dynamo: list visible books: %w", err)
	}
	return books, nil
}

func (r *BookRepository) ListByOwner(ctx context.Context, ownerID string) ([]catalog.Book, error) {
	var (
		books []catalog.Book
		err   error
	)
	if r.ownerIndex != "" {
		books, err = r.store.Query().Index(r.ownerIndex).KeyEqual(attrOwnerID, ownerID).All(ctx)
	} else {
		books, err = r.store.Scan().FilterEqual(attrOwnerID, ownerID).All(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("dynamo: list books of %s: %w", ownerID, err)
	}
	return books, nil
}

func (r *BookRepository) Put(ctx context.Context, b catalog.Book) error {
	return r.store.Put(ctx, b)
}

// PutOwned: attribute_not_exists(id) OR ownerId = :owner
func (r *BookRepository) PutOwned(ctx context.Context, b catalog.Book) error {
	cond := expression.Or(
		expression.AttributeNotExists(expression.Name(attrID)),
		expression.Equal(expression.Name(attrOwnerID), expression.Value(b.OwnerID)),
	)
	err := r.store.PutIf(ctx, b, cond)
	if errors.Is(err, dyndb.ErrConditionFailed) {
		return catalog.ErrNotOwner
	}
	return err
}

// DeleteOwned: ownerId = :owner. Item inexistente também falha na condição.
func (r *BookRepository) DeleteOwned(ctx context.Context, id int64, ownerID string) error {
	cond := expression.Equal(expression.Name(attrOwnerID), expression.Value(ownerID))
	err := r.store.DeleteIf(ctx, id, nil, cond)
	if errors.Is(err, dyndb.ErrConditionFailed) {
		return catalog.ErrNotOwner
	}
	return err
}

func (r *BookRepository) DeleteMany(ctx context.Context, ids []int64) error {
	keys := make([][2]any, len(ids))
	for i, id := range ids {
		keys[i] = [2]any{id, nil}
	}
	return r.store.BatchWrite(ctx, nil, keys)
}
