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

// Package queue transporta os eventos do ciclo de vida da conta pelo SQS.
//
// O publisher é usado pela API quando uma conta é removida; o Handler e o
// Consumer rodam no worker e limpam os livros do usuário removido.
package queue

import (
	"encoding/json"
	"time"
)

// TypeAccountDeleted identifica o evento publicado após a remoção de uma conta.
const TypeAccountDeleted = "account.deleted"

// AttrEventType é o message attribute que carrega o tipo do evento.
const AttrEventType = "eventType"

// Envelope é o corpo JSON de toda mensagem da fila.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}
