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
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/raywall/book-catalog/pkg/accounts"
	"github.com/raywall/book-catalog/pkg/metrics"
	"github.com/rs/zerolog/log"
)

// ErrMalformedMessage indica um corpo que não pode ser decodificado. Essas
// mensagens não devem ser reentregues.
var ErrMalformedMessage = errors.New("queue: malformed message")

// Purger remove os livros de um dono (catalog.Service).
type Purger interface {
	PurgeOwner(ctx context.Context, ownerID string) (int, error)
}

// Handler processa o corpo de uma mensagem da fila de eventos de conta.
type Handler struct {
	purger   Purger
	recorder *metrics.Recorder
}

func NewHandler(purger Purger, recorder *metrics.Recorder) *Handler {
	return &Handler{purger: purger, recorder: recorder}
}

// Handle decodifica e despacha o evento. Tipos desconhecidos são ignorados
// com um aviso.
func (h *Handler) Handle(ctx context.Context, body string) error {
	var env Envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	logger := log.Ctx(ctx).With().Str("event_type", env.Type).Logger()

	switch env.Type {
	case TypeAccountDeleted:
		err := h.accountDeleted(logger.WithContext(ctx), env.Data)
		h.recorder.ObserveEvent(env.Type, err == nil)
		return err
	default:
		logger.Warn().Msg("tipo de evento desconhecido, descartando")
		return nil
	}
}

func (h *Handler) accountDeleted(ctx context.Context, data json.RawMessage) error {
	var evt accounts.AccountDeleted
	if err := json.Unmarshal(data, &evt); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if evt.UserID == "" {
		return fmt.Errorf("%w: userId ausente", ErrMalformedMessage)
	}

	n, err := h.purger.PurgeOwner(ctx, evt.UserID)
	if err != nil {
		return fmt.Errorf("queue: purge books of %s: %w", evt.UserID, err)
	}
	h.recorder.ObservePurge(n)
	log.Ctx(ctx).Info().Str("user_id", evt.UserID).Int("books", n).Msg("livros da conta removida apagados")
	return nil
}
