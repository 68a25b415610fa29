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

// Package memory implementa os repositórios em memória, usados pelo runtime
// local (STORAGE_DRIVER=memory) e pelos testes. Seguem a mesma semântica
// condicional dos repositórios DynamoDB.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/raywall/book-catalog/pkg/catalog"
)

type BookRepository struct {
	mu    sync.RWMutex
	books map[int64]catalog.Book
}

func NewBookRepository(seed ...catalog.Book) *BookRepository {
	r := &BookRepository{books: make(map[int64]catalog.Book, len(seed))}
	for _, b := range seed {
		r.books[b.ID] = b
	}
	return r
}

func (r *BookRepository) Get(_ context.Context, id int64) (*catalog.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return nil, catalog.ErrBookNotFound
	}
	return &b, nil
}

func (r *BookRepository) ListVisible(_ context.Context, callerID string) ([]catalog.Book, error) {
	return r.filter(func(b catalog.Book) bool { return b.VisibleTo(callerID) }), nil
}

func (r *BookRepository) ListByOwner(_ context.Context, ownerID string) ([]catalog.Book, error) {
	return r.filter(func(b catalog.Book) bool { return b.OwnerID == ownerID }), nil
}

func (r *BookRepository) Put(_ context.Context, b catalog.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.books[b.ID] = b
	return nil
}

func (r *BookRepository) PutOwned(_ context.Context, b catalog.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.books[b.ID]; ok && cur.OwnerID != b.OwnerID {
		return catalog.ErrNotOwner
	}
	r.books[b.ID] = b
	return nil
}

func (r *BookRepository) DeleteOwned(_ context.Context, id int64, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.books[id]
	if !ok || cur.OwnerID == "" || cur.OwnerID != ownerID {
		return catalog.ErrNotOwner
	}
	delete(r.books, id)
	return nil
}

func (r *BookRepository) DeleteMany(_ context.Context, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		delete(r.books, id)
	}
	return nil
}

// filter devolve os livros que satisfazem keep, ordenados por id.
func (r *BookRepository) filter(keep func(catalog.Book) bool) []catalog.Book {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Book, 0, len(r.books))
	for _, b := range r.books {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
