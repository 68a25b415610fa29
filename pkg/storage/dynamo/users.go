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
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/raywall/book-catalog/dyndb"
	"github.com/raywall/book-catalog/pkg/accounts"
)

const (
	attrUserID = "userId"
	attrEmail  = "email"
)

// UserRepository persiste usuários (hash key "userId") e consulta por e-mail
// através de um GSI. A unicidade do e-mail é garantida por um item-guarda
// gravado na mesma transação do usuário.
type UserRepository struct {
	store      dyndb.Store[accounts.User]
	emailIndex string
}

func NewUserRepository(client dyndb.DynamoDBClient, table, emailIndex string) *UserRepository {
	return &UserRepository{
		store: dyndb.New(client, dyndb.TableConfig[accounts.User]{
			TableName: table,
			HashKey:   attrUserID,
		}),
		emailIndex: emailIndex,
	}
}

func (r *UserRepository) Create(ctx context.Context, u accounts.User) error {
	err := r.store.PutUnique(ctx, u, dyndb.Unique{Attribute: attrEmail, Value: u.Email})
	if errors.Is(err, dyndb.ErrConditionFailed) {
		return accounts.ErrEmailTaken
	}
	return err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*accounts.User, error) {
	users, _, err := r.store.Query().
		Index(r.emailIndex).
		KeyEqual(attrEmail, email).
		Limit(1).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("dynamo: lookup email: %w", err)
	}
	if len(users) == 0 {
		return nil, accounts.ErrUserNotFound
	}
	return &users[0], nil
}

func (r *UserRepository) Delete(ctx context.Context, u accounts.User) error {
	return r.store.DeleteUnique(ctx, u.UserID, nil, dyndb.Unique{Attribute: attrEmail, Value: u.Email})
}
