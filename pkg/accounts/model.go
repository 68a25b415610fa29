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
package accounts

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrEmailTaken é devolvido pelo repositório quando a inserção atômica
	// encontra o e-mail já reservado.
	ErrEmailTaken = errors.New("accounts: email already registered")
	// ErrUserNotFound indica que não há usuário com o e-mail informado.
	ErrUserNotFound = errors.New("accounts: user not found")
)

// User é o registro persistido na tabela de usuários. Timestamps em epoch ms.
type User struct {
	UserID       string `dynamodbav:"userId" json:"userId"`
	Email        string `dynamodbav:"email" json:"email"`
	PasswordHash string `dynamodbav:"passwordHash" json:"-"`
	CreatedAt    int64  `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt    int64  `dynamodbav:"updatedAt" json:"updatedAt"`
}

// Repository persiste usuários.
type Repository interface {
	// Create insere o usuário somente se o e-mail ainda não existir
	// (insert-if-absent). Falha com ErrEmailTaken caso contrário.
	Create(ctx context.Context, u User) error
	// GetByEmail faz match exato (case-sensitive). Falha com ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// Delete remove o usuário e libera o e-mail.
	Delete(ctx context.Context, u User) error
}

// AccountDeleted é publicado depois que uma conta é removida, para que os
// livros do usuário sejam limpos de forma assíncrona.
type AccountDeleted struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	DeletedAt time.Time `json:"deletedAt"`
}

// EventPublisher entrega eventos do ciclo de vida da conta.
type EventPublisher interface {
	PublishAccountDeleted(ctx context.Context, evt AccountDeleted) error
}
