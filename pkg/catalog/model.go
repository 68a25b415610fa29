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
package catalog

import (
	"context"
	"errors"
)

var (
	// ErrBookNotFound indica que não existe livro com o id.
	ErrBookNotFound = errors.New("catalog: book not found")
	// ErrNotOwner é devolvido pelas escritas condicionais quando o livro
	// pertence a outro usuário (ou, no delete, quando não existe).
	ErrNotOwner = errors.New("catalog: caller is not the owner")
)

// Book é o registro da tabela de livros. O id é informado pelo cliente.
// Registros legados podem não ter isPrivate (lido como false) nem ownerId.
type Book struct {
	ID          int64   `dynamodbav:"id" json:"id" yaml:"id"`
	Title       string  `dynamodbav:"title" json:"title" yaml:"title"`
	Author      string  `dynamodbav:"author" json:"author" yaml:"author"`
	Description string  `dynamodbav:"description" json:"description" yaml:"description"`
	Price       float64 `dynamodbav:"price" json:"price" yaml:"price"`
	IsPrivate   bool    `dynamodbav:"isPrivate" json:"isPrivate" yaml:"isPrivate"`
	OwnerID     string  `dynamodbav:"ownerId,omitempty" json:"ownerId,omitempty" yaml:"ownerId,omitempty"`
}

// VisibleTo diz se o livro pode ser visto pelo usuário (vazio = anônimo).
func (b Book) VisibleTo(userID string) bool {
	return !b.IsPrivate || (userID != "" && b.OwnerID == userID)
}

// Repository persiste livros.
type Repository interface {
	Get(ctx context.Context, id int64) (*Book, error)
	// ListVisible devolve os livros públicos (incluindo legados sem
	// isPrivate) e, se callerID não for vazio, também os dele.
	ListVisible(ctx context.Context, callerID string) ([]Book, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Book, error)
	// Put grava sem checar dono (last writer wins).
	Put(ctx context.Context, b Book) error
	// PutOwned grava somente se o livro não existir ou já for de b.OwnerID.
	PutOwned(ctx context.Context, b Book) error
	// DeleteOwned remove somente se o livro existir e for de ownerID.
	DeleteOwned(ctx context.Context, id int64, ownerID string) error
	// DeleteMany remove em lote, sem condição.
	DeleteMany(ctx context.Context, ids []int64) error
}
