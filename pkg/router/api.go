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
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/raywall/book-catalog/pkg/accounts"
	"github.com/raywall/book-catalog/pkg/apperror"
	"github.com/raywall/book-catalog/pkg/auth"
	"github.com/raywall/book-catalog/pkg/catalog"
)

// API liga as rotas públicas aos serviços de domínio.
type API struct {
	Accounts *accounts.Service
	Catalog  *catalog.Service
	// AllowAccountDeletion registra DELETE /account.
	AllowAccountDeletion bool

	validate *validator.Validate
}

// bookInput é o corpo de PUT /books.
type bookInput struct {
	ID          *int64  `json:"id" validate:"required"`
	Title       string  `json:"title" validate:"max=512"`
	Author      string  `json:"author" validate:"max=512"`
	Description string  `json:"description" validate:"max=4096"`
	Price       float64 `json:"price" validate:"gte=0"`
	IsPrivate   bool    `json:"isPrivate"`
}

type accountInput struct {
	Email string `json:"email" validate:"required"`
}

// Routes devolve a tabela de rotas da API.
func (a *API) Routes() []Route {
	a.validate = validator.New()

	routes := []Route{
		{Method: http.MethodGet, Path: "/health", Auth: AuthNone, Handle: a.health},
		{Method: http.MethodPost, Path: "/register", Auth: AuthNone, Handle: a.register},
		{Method: http.MethodPost, Path: "/login", Auth: AuthNone, Handle: a.login},
		{Method: http.MethodGet, Path: "/books", Auth: AuthOptional, Handle: a.listBooks},
		{Method: http.MethodGet, Path: "/books/{id}", Auth: AuthOptional, Handle: a.getBook},
		{Method: http.MethodGet, Path: "/my-books", Auth: AuthRequired, AuthMessage: apperror.MsgMyBooksAuth, Handle: a.myBooks},
		{Method: http.MethodPut, Path: "/books", Auth: AuthRequired, Handle: a.putBook},
		{Method: http.MethodDelete, Path: "/books/{id}", Auth: AuthRequired, Handle: a.deleteBook},
	}
	if a.AllowAccountDeletion {
		routes = append(routes, Route{Method: http.MethodDelete, Path: "/account", Auth: AuthNone, Handle: a.deleteAccount})
	}
	return routes
}

func (a *API) health(context.Context, Request, *auth.Identity) (int, any, error) {
	return http.StatusOK, map[string]string{"status": "ok"}, nil
}

func (a *API) register(ctx context.Context, req Request, _ *auth.Identity) (int, any, error) {
	var in accounts.Credentials
	if err := decode(req.Body, &in); err != nil {
		return 0, nil, err
	}

	user, err := a.Accounts.Register(ctx, in)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusCreated, map[string]string{
		"userId":  user.UserID,
		"email":   user.Email,
		"message": "Registration successful",
	}, nil
}

func (a *API) login(ctx context.Context, req Request, _ *auth.Identity) (int, any, error) {
	var in accounts.Credentials
	if err := decode(req.Body, &in); err != nil {
		return 0, nil, err
	}

	session, err := a.Accounts.Login(ctx, in)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, map[string]string{
		"userId":  session.UserID,
		"email":   session.Email,
		"token":   session.Token,
		"message": "Login successful",
	}, nil
}

func (a *API) deleteAccount(ctx context.Context, req Request, _ *auth.Identity) (int, any, error) {
	var in accountInput
	if err := decode(req.Body, &in); err != nil {
		return 0, nil, err
	}
	if err := a.validate.Struct(in); err != nil {
		return 0, nil, apperror.Validation("email is required")
	}

	if err := a.Accounts.DeleteByEmail(ctx, in.Email); err != nil {
		return 0, nil, err
	}
	return http.StatusOK, map[string]string{"message": "Account deleted by email"}, nil
}

func (a *API) listBooks(ctx context.Context, _ Request, caller *auth.Identity) (int, any, error) {
	books, err := a.Catalog.ListVisible(ctx, caller)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, books, nil
}

func (a *API) getBook(ctx context.Context, req Request, caller *auth.Identity) (int, any, error) {
	id, err := bookID(req)
	if err != nil {
		return 0, nil, err
	}

	book, err := a.Catalog.Get(ctx, id, caller)
	if errors.Is(err, apperror.ErrNotFound) {
		// corpo {message} em vez de {error}, o mesmo para privado e inexistente
		return http.StatusNotFound, map[string]string{"message": catalog.MsgNotFound}, nil
	}
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, book, nil
}

func (a *API) myBooks(ctx context.Context, _ Request, caller *auth.Identity) (int, any, error) {
	books, err := a.Catalog.ListOwned(ctx, caller)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, books, nil
}

func (a *API) putBook(ctx context.Context, req Request, caller *auth.Identity) (int, any, error) {
	var in bookInput
	if err := decode(req.Body, &in); err != nil {
		return 0, nil, err
	}
	if err := a.validate.Struct(in); err != nil {
		return 0, nil, apperror.Validation(validationMessage(err))
	}

	book := catalog.Book{
		ID:          *in.ID,
		Title:       in.Title,
		Author:      in.Author,
		Description: in.Description,
		Price:       in.Price,
		IsPrivate:   in.IsPrivate,
	}
	if err := a.Catalog.Put(ctx, book, caller); err != nil {
		return 0, nil, err
	}
	return http.StatusOK, map[string]string{"message": fmt.Sprintf("PUT book %d", book.ID)}, nil
}

func (a *API) deleteBook(ctx context.Context, req Request, caller *auth.Identity) (int, any, error) {
	id, err := bookID(req)
	if err != nil {
		return 0, nil, err
	}

	if err := a.Catalog.Delete(ctx, id, caller); err != nil {
		return 0, nil, err
	}
	return http.StatusOK, map[string]string{"message": fmt.Sprintf("Deleted Book %d", id)}, nil
}

func bookID(req Request) (int64, error) {
	raw := req.PathParameters["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.Validation("Invalid book id: " + raw)
	}
	return id, nil
}

func decode(body string, v any) error {
	if strings.TrimSpace(body) == "" {
		return apperror.Validation("Request body is required")
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return apperror.Validation("Invalid JSON body")
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
