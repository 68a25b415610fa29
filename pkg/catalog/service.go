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
	"fmt"

	"github.com/raywall/book-catalog/pkg/apperror"
	"github.com/raywall/book-catalog/pkg/auth"
	"github.com/rs/zerolog/log"
)

// MsgNotFound é o corpo devolvido tanto para livro inexistente quanto para
// livro privado de outro usuário.
const MsgNotFound = "not found"

// Service aplica as regras de visibilidade e posse sobre o Repository.
type Service struct {
	repo                   Repository
	enforceUpdateOwnership bool
}

// NewService cria o serviço. Com enforceUpdateOwnership=false o PUT volta a
// ser last-writer-wins, sobrescrevendo o dono anterior.
func NewService(repo Repository, enforceUpdateOwnership bool) *Service {
	return &Service{repo: repo, enforceUpdateOwnership: enforceUpdateOwnership}
}

func callerID(caller *auth.Identity) string {
	if caller == nil {
		return ""
	}
	return caller.UserID
}

// Get devolve o livro se visível ao chamador. Livros privados de terceiros
// são indistinguíveis de inexistentes.
func (s *Service) Get(ctx context.Context, id int64, caller *auth.Identity) (*Book, error) {
	book, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrBookNotFound) {
		return nil, apperror.NotFound(MsgNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get book %d: %w", id, err)
	}

	if !book.VisibleTo(callerID(caller)) {
		return nil, apperror.NotFound(MsgNotFound)
	}
	return book, nil
}

// ListVisible devolve os livros públicos e, para usuários autenticados, os
// próprios livros privados.
func (s *Service) ListVisible(ctx context.Context, caller *auth.Identity) ([]Book, error) {
	uid := callerID(caller)

	books, err := s.repo.ListVisible(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("catalog: list books: %w", err)
	}

	visible := make([]Book, 0, len(books))
	for _, b := range books {
		if b.VisibleTo(uid) {
			visible = append(visible, b)
		}
	}
	return visible, nil
}

// ListOwned devolve todos os livros do chamador, privados ou não.
func (s *Service) ListOwned(ctx context.Context, caller *auth.Identity) ([]Book, error) {
	if caller == nil {
		return nil, apperror.AuthenticationRequired(apperror.MsgMyBooksAuth)
	}

	books, err := s.repo.ListByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list owned books: %w", err)
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// Put grava o livro com ownerId = chamador.
func (s *Service) Put(ctx context.Context, book Book, caller *auth.Identity) error {
	if caller == nil {
		return apperror.AuthenticationRequired(apperror.MsgMissingBearer)
	}
	book.OwnerID = caller.UserID

	if !s.enforceUpdateOwnership {
		if err := s.repo.Put(ctx, book); err != nil {
			return fmt.Errorf("catalog: put book %d: %w", book.ID, err)
		}
		return nil
	}

	err := s.repo.PutOwned(ctx, book)
	if errors.Is(err, ErrNotOwner) {
		log.Ctx(ctx).Warn().Int64("book_id", book.ID).Str("user_id", caller.UserID).Msg("update negado: não é o dono")
		return apperror.Forbidden(apperror.MsgNotOwnerUpdate)
	}
	if err != nil {
		return fmt.Errorf("catalog: put book %d: %w", book.ID, err)
	}
	return nil
}

// Delete remove o livro se o chamador for o dono. Livro inexistente ou sem
// dono também resulta em Forbidden.
func (s *Service) Delete(ctx context.Context, id int64, caller *auth.Identity) error {
	if caller == nil {
		return apperror.AuthenticationRequired(apperror.MsgMissingBearer)
	}

	err := s.repo.DeleteOwned(ctx, id, caller.UserID)
	if errors.Is(err, ErrNotOwner) {
		log.Ctx(ctx).Warn().Int64("book_id", id).Str("user_id", caller.UserID).Msg("delete negado: não é o dono")
		return apperror.Forbidden(apperror.MsgNotOwner)
	}
	if err != nil {
		return fmt.Errorf("catalog: delete book %d: %w", id, err)
	}
	return nil
}

// PurgeOwner remove todos os livros de um usuário (conta removida).
func (s *Service) PurgeOwner(ctx context.Context, ownerID string) (int, error) {
	if ownerID == "" {
		return 0, apperror.Validation("ownerId is required")
	}

	books, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("catalog: list owned books: %w", err)
	}
	if len(books) == 0 {
		return 0, nil
	}

	ids := make([]int64, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	if err := s.repo.DeleteMany(ctx, ids); err != nil {
		return 0, fmt.Errorf("catalog: purge owner %s: %w", ownerID, err)
	}

	log.Ctx(ctx).Info().Str("owner_id", ownerID).Int("count", len(ids)).Msg("livros do usuário removidos")
	return len(ids), nil
}
