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
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/raywall/book-catalog/pkg/accounts"
)

// Sender é o subconjunto do cliente SQS usado pelo Publisher.
type Sender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Publisher implementa accounts.EventPublisher sobre uma fila SQS.
type Publisher struct {
	client   Sender
	queueURL string
}

func NewPublisher(client Sender, queueURL string) *Publisher {
	return &Publisher{client: client, queueURL: queueURL}
}

func (p *Publisher) PublishAccountDeleted(ctx context.Context, evt accounts.AccountDeleted) error {
	body, err := encode(TypeAccountDeleted, evt.DeletedAt, evt)
	if err != nil {
		return err
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(body),
		MessageAttributes: map[string]types.MessageAttributeValue{
			AttrEventType: {
				DataType:    aws.String("String"),
				StringValue: aws.String(TypeAccountDeleted),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("queue: send %s: %w", TypeAccountDeleted, err)
	}
	return nil
}

func encode(eventType string, at time.Time, data any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("queue: marshal %s: %w", eventType, err)
	}
	b, err := json.Marshal(Envelope{Type: eventType, OccurredAt: at.UTC(), Data: raw})
	if err != nil {
		return "", fmt.Errorf("queue: marshal envelope: %w", err)
	}
	return string(b), nil
}
