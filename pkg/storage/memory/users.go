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
package memory

import (
	"context"
	"sync"

	"github.com/raywall/book-catalog/pkg/accounts"
)

// UserRepository indexa usuários por e-mail; o índice é a própria garantia
// de unicidade.
type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]accounts.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byEmail: make(map[string]accounts.User)}
}

func (r *UserRepository) Create(_ context.Context, u accounts.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[u.Email]; exists {
		return accounts.ErrEmailTaken
	}
	r.byEmail[u.Email] = u
	return nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*accounts.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, accounts.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) Delete(_ context.Context, u accounts.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byEmail, u.Email)
	return nil
}
