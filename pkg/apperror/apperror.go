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
package apperror

import (
	"errors"
	"net/http"
)

// Tipos de erro do domínio. Classifique sempre com errors.Is.
var (
	ErrDuplicateEmail         = errors.New("duplicate email")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidToken           = errors.New("invalid token")
	ErrExpiredToken           = errors.New("expired token")
	ErrMalformedToken         = errors.New("malformed token")
	ErrForbidden              = errors.New("forbidden")
	ErrNotFound               = errors.New("not found")
	ErrUnsupportedRoute       = errors.New("unsupported route")
	ErrValidation             = errors.New("validation error")
)

// Mensagens expostas ao cliente.
const (
	MsgDuplicateEmail     = "User with this email already exists."
	MsgInvalidCredentials = "Invalid credentials"
	MsgMissingBearer      = "Authorization header missing or malformed (Expected: Bearer <token>)."
	MsgInvalidToken       = "Invalid or expired authentication token."
	MsgExpiredToken       = "Authentication token has expired."
	MsgMyBooksAuth        = "Authentication required to access My Books."
	MsgNotOwner           = "You are not the owner of this book and cannot delete it."
	MsgNotOwnerUpdate     = "You are not the owner of this book and cannot update it."
	MsgInternal           = "Internal server error"
)

// AppError carrega o tipo (Err) e a mensagem segura para o cliente.
type AppError struct {
	Err     error  // tipo do erro (um dos Err* acima)
	Message string // mensagem exposta ao cliente
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind error, message string) *AppError {
	return &AppError{Err: kind, Message: message}
}

func DuplicateEmail() *AppError {
	return New(ErrDuplicateEmail, MsgDuplicateEmail)
}

func InvalidCredentials() *AppError {
	return New(ErrInvalidCredentials, MsgInvalidCredentials)
}

func AuthenticationRequired(message string) *AppError {
	return New(ErrAuthenticationRequired, message)
}

func InvalidToken() *AppError {
	return New(ErrInvalidToken, MsgInvalidToken)
}

func ExpiredToken() *AppError {
	return New(ErrExpiredToken, MsgExpiredToken)
}

func MalformedToken() *AppError {
	return New(ErrMalformedToken, MsgInvalidToken)
}

// Forbidden indica que o chamador não é dono do recurso. Mapeado para 403.
func Forbidden(message string) *AppError {
	return New(ErrForbidden, message)
}

func NotFound(message string) *AppError {
	return New(ErrNotFound, message)
}

func UnsupportedRoute(routeKey string) *AppError {
	return New(ErrUnsupportedRoute, "Unsupported route: "+routeKey)
}

func Validation(message string) *AppError {
	return New(ErrValidation, message)
}

// StatusCode mapeia um erro para o status HTTP correspondente.
// Erros desconhecidos resultam em 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthenticationRequired),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrExpiredToken),
		errors.Is(err, ErrMalformedToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnsupportedRoute):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// PublicMessage devolve a mensagem segura para o cliente. Erros que não são
// AppError nunca têm o texto exposto.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Err != nil {
		return appErr.Message
	}
	return MsgInternal
}
