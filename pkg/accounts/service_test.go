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
package accounts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/raywall/book-catalog/pkg/accounts"
	"github.com/raywall/book-catalog/pkg/apperror"
	"github.com/raywall/book-catalog/pkg/auth"
	"github.com/raywall/book-catalog/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type recordingPublisher struct {
	events []accounts.AccountDeleted
	err    error
}

func (p *recordingPublisher) PublishAccountDeleted(_ context.Context, evt accounts.AccountDeleted) error {
	p.events = append(p.events, evt)
	return p.err
}

// racingRepo simula outra requisição que registrou o mesmo e-mail entre a
// checagem e a inserção.
type racingRepo struct {
	*memory.UserRepository
}

func (r racingRepo) Create(context.Context, accounts.User) error {
	return accounts.ErrEmailTaken
}

func newService(t *testing.T, repo accounts.Repository, events accounts.EventPublisher) (*accounts.Service, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService("accounts-test-secret-0123456789abcdef", time.Hour, "book-catalog")
	require.NoError(t, err)
	return accounts.NewService(repo, auth.NewPasswordHasher(bcrypt.MinCost), tokens, events), tokens
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, memory.NewUserRepository(), nil)

	a, err := svc.Register(ctx, accounts.Credentials{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", a.Email)
	assert.Len(t, a.UserID, 36, "uuid v4")
	assert.NotEqual(t, "pw1", a.PasswordHash)
	assert.NotZero(t, a.CreatedAt)
	assert.Equal(t, a.CreatedAt, a.UpdatedAt)

	b, err := svc.Register(ctx, accounts.Credentials{Email: "b@x.com", Password: "pw2"})
	require.NoError(t, err)
	assert.NotEqual(t, a.UserID, b.UserID)

	_, err = svc.Register(ctx, accounts.Credentials{Email: "a@x.com", Password: "other"})
	assert.ErrorIs(t, err, apperror.ErrDuplicateEmail)
	assert.Equal(t, apperror.MsgDuplicateEmail, err.Error())
}

func TestRegister_EmailIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, memory.NewUserRepository(), nil)

	_, err := svc.Register(ctx, accounts.Credentials{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, accounts.Credentials{Email: "A@x.com", Password: "pw"})
	assert.NoError(t, err)
}

func TestRegister_RaceLosesToAtomicInsert(t *testing.T) {
	svc, _ := newService(t, racingRepo{memory.NewUserRepository()}, nil)

	_, err := svc.Register(context.Background(), accounts.Credentials{Email: "a@x.com", Password: "pw"})

	assert.ErrorIs(t, err, apperror.ErrDuplicateEmail)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newService(t, memory.NewUserRepository(), nil)

	for _, in := range []accounts.Credentials{
		{Email: "", Password: "pw"},
		{Email: "not-an-email", Password: "pw"},
		{Email: "a@x.com", Password: ""},
		{Email: "a@x.com", Password: string(make([]byte, 73))},
	} {
		_, err := svc.Register(context.Background(), in)
		assert.ErrorIs(t, err, apperror.ErrValidation, "entrada %+v", in.Email)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newService(t, memory.NewUserRepository(), nil)

	user, err := svc.Register(ctx, accounts.Credentials{Email: "e@x.com", Password: "pw"})
	require.NoError(t, err)

	t.Run("token decodifica para a identidade", func(t *testing.T) {
		session, err := svc.Login(ctx, accounts.Credentials{Email: "e@x.com", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, user.UserID, session.UserID)

		id, err := tokens.Verify(session.Token)
		require.NoError(t, err)
		assert.Equal(t, &auth.Identity{UserID: user.UserID, Email: "e@x.com"}, id)
	})

	t.Run("senha errada", func(t *testing.T) {
		_, err := svc.Login(ctx, accounts.Credentials{Email: "e@x.com", Password: "nope"})
		assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	})

	t.Run("usuário inexistente", func(t *testing.T) {
		_, err := svc.Login(ctx, accounts.Credentials{Email: "ghost@x.com", Password: "pw"})
		assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
		assert.Equal(t, apperror.MsgInvalidCredentials, err.Error())
	})

	t.Run("campos vazios", func(t *testing.T) {
		_, err := svc.Login(ctx, accounts.Credentials{})
		assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	})
}

func TestDeleteByEmail(t *testing.T) {
	ctx := context.Background()
	events := &recordingPublisher{}
	svc, _ := newService(t, memory.NewUserRepository(), events)

	user, err := svc.Register(ctx, accounts.Credentials{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByEmail(ctx, "a@x.com"))
	require.Len(t, events.events, 1)
	assert.Equal(t, user.UserID, events.events[0].UserID)
	assert.Equal(t, "a@x.com", events.events[0].Email)

	err = svc.DeleteByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// e-mail liberado para novo registro
	_, err = svc.Register(ctx, accounts.Credentials{Email: "a@x.com", Password: "pw"})
	assert.NoError(t, err)
}

func TestDeleteByEmail_PublishFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	events := &recordingPublisher{err: errors.New("sqs down")}
	svc, _ := newService(t, memory.NewUserRepository(), events)

	_, err := svc.Register(ctx, accounts.Credentials{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	assert.NoError(t, svc.DeleteByEmail(ctx, "a@x.com"))
	assert.Len(t, events.events, 1)
}
