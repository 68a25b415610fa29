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
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/raywall/book-catalog/pkg/apperror"
	"github.com/raywall/book-catalog/pkg/auth"
	"github.com/rs/zerolog/log"
)

// Credentials é o corpo de /register e /login.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// Session é o resultado de um login bem-sucedido.
type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// Service implementa registro, login e remoção de contas.
type Service struct {
	repo     Repository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenService
	events   EventPublisher
	validate *validator.Validate

	now   func() time.Time
	newID func() string
}

// NewService cria o serviço de contas. events pode ser nil.
func NewService(repo Repository, hasher *auth.PasswordHasher, tokens *auth.TokenService, events EventPublisher) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		events:   events,
		validate: validator.New(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Register cria um usuário. E-mail duplicado resulta em DuplicateEmail.
func (s *Service) Register(ctx context.Context, in Credentials) (*User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperror.Validation("A valid email and a password of at most 72 bytes are required.")
	}

	// 1. Checagem rápida; a garantia real vem do Create atômico abaixo
	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperror.DuplicateEmail()
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("accounts: lookup email: %w", err)
	}

	// 2. Hash da senha
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("accounts: %w", err)
	}

	// 3. Insert-if-absent
	now := s.now().UnixMilli()
	user := User{
		UserID:       s.newID(),
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apperror.DuplicateEmail()
		}
		return nil, fmt.Errorf("accounts: create user: %w", err)
	}

	log.Ctx(ctx).Info().Str("user_id", user.UserID).Msg("usuário registrado")
	return &user, nil
}

// Login valida as credenciais e emite um token.
func (s *Service) Login(ctx context.Context, in Credentials) (*Session, error) {
	if in.Email == "" || in.Password == "" {
		return nil, apperror.InvalidCredentials()
	}

	user, err := s.repo.GetByEmail(ctx, in.Email)
	if errors.Is(err, ErrUserNotFound) {
		s.hasher.CompareDummy(in.Password)
		return nil, apperror.InvalidCredentials()
	}
	if err != nil {
		return nil, fmt.Errorf("accounts: lookup email: %w", err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, in.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Ctx(ctx).Info().Str("user_id", user.UserID).Msg("login recusado")
		return nil, apperror.InvalidCredentials()
	}

	token, err := s.tokens.Issue(user.UserID, user.Email)
	if err != nil {
		return nil, err
	}
	return &Session{UserID: user.UserID, Email: user.Email, Token: token}, nil
}

// DeleteByEmail remove a conta e publica AccountDeleted. Falha ao publicar
// não desfaz a remoção; fica registrada no log.
func (s *Service) DeleteByEmail(ctx context.Context, email string) error {
	if email == "" {
		return apperror.Validation("email is required")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return apperror.NotFound("User not found")
	}
	if err != nil {
		return fmt.Errorf("accounts: lookup email: %w", err)
	}

	if err := s.repo.Delete(ctx, *user); err != nil {
		return fmt.Errorf("accounts: delete user: %w", err)
	}

	logger := log.Ctx(ctx).With().Str("user_id", user.UserID).Logger()
	logger.Info().Msg("conta removida")

	if s.events == nil {
		return nil
	}
	evt := AccountDeleted{UserID: user.UserID, Email: user.Email, DeletedAt: s.now().UTC()}
	if err := s.events.PublishAccountDeleted(ctx, evt); err != nil {
		logger.Error().Err(err).Msg("falha ao publicar account.deleted; livros do usuário não serão limpos")
	}
	return nil
}
