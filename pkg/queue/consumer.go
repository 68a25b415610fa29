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
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ReceiverClient define a interface necessária para o consumer (permite Mocking)
type ReceiverClient interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// HandleFunc processa o corpo de uma mensagem.
type HandleFunc func(ctx context.Context, body string) error

// Consumer gerencia o loop de long polling da fila de eventos de conta
type Consumer struct {
	client     ReceiverClient
	queueURL   string
	handle     HandleFunc
	logger     zerolog.Logger
	retryDelay time.Duration
}

func NewConsumer(client ReceiverClient, queueURL string, handle HandleFunc) *Consumer {
	return &Consumer{
		client:     client,
		queueURL:   queueURL,
		handle:     handle,
		logger:     log.With().Str("component", "account_events_consumer").Logger(),
		retryDelay: 5 * time.Second,
	}
}

// Start inicia o consumo (bloqueante) até o contexto ser cancelado.
// Mensagens com falha transitória ficam na fila e voltam após o visibility
// timeout; mensagens malformadas são removidas.
func (c *Consumer) Start(ctx context.Context) {
	if c.queueURL == "" {
		c.logger.Warn().Msg("URL da fila SQS não configurada. Consumer desativado.")
		return
	}

	c.logger.Info().Str("queue", c.queueURL).Msg("consumindo eventos de conta")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("parando consumer SQS")
			return
		default:
			out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
				QueueUrl:            aws.String(c.queueURL),
				MaxNumberOfMessages: 10,
				WaitTimeSeconds:     20, // Long polling
			})
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error().Err(err).Dur("retry_in", c.retryDelay).Msg("erro no SQS, retentando")
				select {
				case <-ctx.Done():
					return
				case <-time.After(c.retryDelay):
				}
				continue
			}

			for _, msg := range out.Messages {
				c.process(ctx, aws.ToString(msg.MessageId), aws.ToString(msg.Body), msg.ReceiptHandle)
			}
		}
	}
}

func (c *Consumer) process(ctx context.Context, messageID, body string, receipt *string) {
	logger := c.logger.With().Str("message_id", messageID).Logger()

	err := c.handle(logger.WithContext(ctx), body)
	switch {
	case err == nil:
	case errors.Is(err, ErrMalformedMessage):
		logger.Error().Err(err).Msg("mensagem descartada")
	default:
		logger.Error().Err(err).Msg("falha ao processar, mensagem volta para a fila")
		return
	}

	if _, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: receipt,
	}); err != nil {
		logger.Warn().Err(err).Msg("falha ao remover mensagem da fila")
	}
}
