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
package transport

import (
	"context"
	"errors"

	"github.com/aws/aws-lambda-go/events"
	"github.com/raywall/book-catalog/pkg/logger"
	"github.com/raywall/book-catalog/pkg/queue"
)

// SQSHandler adapta lotes de mensagens SQS entregues pelo runtime Lambda.
// Falhas transitórias são devolvidas em BatchItemFailures para reentrega
// apenas das mensagens afetadas (ReportBatchItemFailures na event source).
type SQSHandler struct {
	handle queue.HandleFunc
}

func NewSQSHandler(handle queue.HandleFunc) *SQSHandler {
	return &SQSHandler{handle: handle}
}

func (h *SQSHandler) Handle(ctx context.Context, evt events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse

	for _, msg := range evt.Records {
		msgCtx, reqLog := logger.WithCorrelation(ctx, msg.MessageId)

		err := h.handle(msgCtx, msg.Body)
		switch {
		case err == nil:
		case errors.Is(err, queue.ErrMalformedMessage):
			reqLog.Error().Err(err).Msg("mensagem descartada")
		default:
			reqLog.Error().Err(err).Msg("falha ao processar mensagem")
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{
				ItemIdentifier: msg.MessageId,
			})
		}
	}
	return resp, nil
}
