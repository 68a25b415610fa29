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

// Package auth emite e verifica os bearer tokens (JWT HS256) do serviço e
// cuida do hash de senhas com bcrypt.
//
// O token carrega {userId, email} e expira; não existe revogação, a expiração
// é o único mecanismo de invalidação. O cliente pode decodificar o payload
// para exibição, mas só Verify decide autorização.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/raywall/book-catalog/pkg/apperror"
)

// MinSecretLength é o tamanho mínimo aceito para o segredo HMAC.
const MinSecretLength = 32

// Identity é o par {userId, email} resolvido de um token verificado.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Claims é o payload do token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// TokenService emite e valida tokens assinados com HS256.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenService exige um segredo externo; não há valor padrão.
func NewTokenService(secret string, ttl time.Duration, issuer string) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("auth: JWT secret must be at least %d characters", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token TTL must be positive")
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// Issue gera um token para o usuário com expiração now+ttl.
func (s *TokenService) Issue(userID, email string) (string, error) {
	now := s.now()

	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
		Email:  email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Verify valida assinatura, algoritmo, emissor e expiração.
//
// Erros retornados: apperror.ErrExpiredToken, apperror.ErrMalformedToken
// ou apperror.ErrInvalidToken.
func (s *TokenService) Verify(token string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperror.ExpiredToken()
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, apperror.MalformedToken()
		}
		return nil, apperror.InvalidToken()
	}

	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || c.UserID == "" {
		return nil, apperror.InvalidToken()
	}
	return &Identity{UserID: c.UserID, Email: c.Email}, nil
}
