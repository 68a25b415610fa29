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
	"fmt"
	"sync"
	"testing"

	"github.com/raywall/book-catalog/pkg/accounts"
	"github.com/raywall/book-catalog/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookRepository_ConditionalWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(catalog.Book{ID: 9, Title: "legacy"})

	require.NoError(t, repo.PutOwned(ctx, catalog.Book{ID: 1, OwnerID: "a"}))
	require.NoError(t, repo.PutOwned(ctx, catalog.Book{ID: 1, OwnerID: "a", Title: "v2"}))
	assert.ErrorIs(t, repo.PutOwned(ctx, catalog.Book{ID: 1, OwnerID: "b"}), catalog.ErrNotOwner)

	assert.ErrorIs(t, repo.DeleteOwned(ctx, 1, "b"), catalog.ErrNotOwner)
	assert.ErrorIs(t, repo.DeleteOwned(ctx, 404, "a"), catalog.ErrNotOwner)
	assert.ErrorIs(t, repo.DeleteOwned(ctx, 9, ""), catalog.ErrNotOwner, "livro sem dono não pode ser removido")
	require.NoError(t, repo.DeleteOwned(ctx, 1, "a"))

	_, err := repo.Get(ctx, 1)
	assert.ErrorIs(t, err, catalog.ErrBookNotFound)
}

func TestBookRepository_Listing(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository(
		catalog.Book{ID: 3, OwnerID: "a", IsPrivate: true},
		catalog.Book{ID: 1, OwnerID: "a"},
		catalog.Book{ID: 2, OwnerID: "b", IsPrivate: true},
		catalog.Book{ID: 4},
	)

	anon, err := repo.ListVisible(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, ids(anon))

	forA, err := repo.ListVisible(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 4}, ids(forA))

	owned, err := repo.ListByOwner(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(owned))

	require.NoError(t, repo.DeleteMany(ctx, []int64{1, 3}))
	owned, _ = repo.ListByOwner(ctx, "a")
	assert.Empty(t, owned)
}

func TestUserRepository_UniqueEmailUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Create(ctx, accounts.User{UserID: fmt.Sprint(i), Email: "same@x.com"})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, accounts.ErrEmailTaken)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)

	u, err := repo.GetByEmail(ctx, "same@x.com")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, *u))

	_, err = repo.GetByEmail(ctx, "same@x.com")
	assert.ErrorIs(t, err, accounts.ErrUserNotFound)
}

func ids(books []catalog.Book) []int64 {
	out := make([]int64, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}
