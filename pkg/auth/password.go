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
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost é o fator de trabalho mínimo aceito em produção.
const DefaultCost = 10

// MaxPasswordBytes é o limite do bcrypt; acima disso ele truncaria em silêncio.
const MaxPasswordBytes = 72

var ErrPasswordTooLong = fmt.Errorf("auth: password must be %d bytes or fewer", MaxPasswordBytes)

// PasswordHasher gera e compara hashes bcrypt. O custo é injetável para que
// os testes usem bcrypt.MinCost.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher cria um hasher. Custos fora do intervalo do bcrypt são
// substituídos por DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	// hash de referência usado quando o usuário não existe, para que o
	// tempo de resposta do login não revele quais e-mails estão cadastrados
	dummy, _ := bcrypt.GenerateFromPassword([]byte("book-catalog-dummy-password"), cost)
	return &PasswordHasher{cost: cost, dummy: dummy}
}

// Hash gera o hash salgado da senha.
func (p *PasswordHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Compare devolve true se a senha corresponde ao hash. A comparação é a do
// próprio bcrypt (tempo constante).
func (p *PasswordHasher) Compare(hash, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	}
	return false, fmt.Errorf("auth: comparing password hash: %w", err)
}

// CompareDummy executa uma comparação descartável com o mesmo custo.
func (p *PasswordHasher) CompareDummy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(p.dummy, []byte(plaintext))
}
