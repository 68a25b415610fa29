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
package envloader

import (
	"fmt"
	"reflect"
)

// supportedKinds aparece na mensagem de UnsupportedTypeError.
const supportedKinds = "string, int*, uint*, bool, float*, time.Duration, []string"

// InvalidConfigError indica que Load não recebeu um ponteiro para struct.
type InvalidConfigError struct {
	Value reflect.Type
}

func (e *InvalidConfigError) Error() string {
	if e.Value.Kind() != reflect.Ptr {
		return fmt.Sprintf("envloader: config must be a pointer to struct, got %s", e.Value.Kind())
	}
	return fmt.Sprintf("envloader: config must be a pointer to struct, got pointer to %s", e.Value.Elem().Kind())
}

// FieldError indica que o valor de EnvVar não pôde ser convertido para o
// tipo do campo. FromDefault é true quando o valor veio da tag envDefault,
// ou seja, o erro está no código e não no ambiente.
type FieldError struct {
	FieldName   string
	EnvVar      string
	Value       string
	FromDefault bool
	Err         error
}

func (e *FieldError) Error() string {
	origin := "from env"
	if e.FromDefault {
		origin = "from envDefault of"
	}
	return fmt.Sprintf("envloader: error setting field %s %s %s=%q: %v",
		e.FieldName, origin, e.EnvVar, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// UnsupportedTypeError indica um campo com tag env cujo tipo não tem
// conversão (map, interface, []int etc.).
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("envloader: unsupported type %s (supported: %s)", e.Type, supportedKinds)
}
