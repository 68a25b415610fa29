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
package dynamo

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/raywall/book-catalog/dyndb"
	"github.com/raywall/book-catalog/pkg/accounts"
	"github.com/raywall/book-catalog/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshalBook(t *testing.T, b catalog.Book) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(b)
	require.NoError(t, err)
	return av
}

// hasValue diz se algum placeholder da expressão carrega o valor.
func hasValue(values map[string]types.AttributeValue, want types.AttributeValue) bool {
	for _, v := range values {
		if assert.ObjectsAreEqual(want, v) {
			return true
		}
	}
	return false
}

func TestBookRepository_GetNotFound(t *testing.T) {
	repo := NewBookRepository(&dyndb.MockDynamoClient{}, "books", "")

	_, err := repo.Get(context.Background(), 7)

	assert.ErrorIs(t, err, catalog.ErrBookNotFound)
}

func TestBookRepository_Get(t *testing.T) {
	client := &dyndb.MockDynamoClient{
		GetItemFn: func(_ context.Context, in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			assert.Equal(t, &types.AttributeValueMemberN{Value: "7"}, in.Key["id"])
			// registro legado: sem isPrivate e sem ownerId
			return &dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
				"id":    &types.AttributeValueMemberN{Value: "7"},
				"title": &types.AttributeValueMemberS{Value: "Legacy"},
			}}, nil
		},
	}
	repo := NewBookRepository(client, "books", "")

	book, err := repo.Get(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, "Legacy", book.Title)
	assert.False(t, book.IsPrivate)
	assert.Empty(t, book.OwnerID)
}

func TestBookRepository_ListVisible(t *testing.T) {
	var calls []*dynamodb.ScanInput
	client := &dyndb.MockDynamoClient{
		ScanFn: func(_ context.Context, in *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
			calls = append(calls, in)
			return &dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{
				marshalBook(t, catalog.Book{ID: 1, Title: "Public"}),
			}}, nil
		},
	}
	repo := NewBookRepository(client, "books", "")

	books, err := repo.ListVisible(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, books, 1)

	require.Len(t, calls, 1)
	assert.Contains(t, aws.ToString(calls[0].FilterExpression), "attribute_not_exists")
	assert.True(t, hasValue(calls[0].ExpressionAttributeValues, &types.AttributeValueMemberBOOL{Value: false}))
	assert.False(t, hasValue(calls[0].ExpressionAttributeValues, &types.AttributeValueMemberS{Value: "alice"}))

	_, err = repo.ListVisible(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.True(t, hasValue(calls[1].ExpressionAttributeValues, &types.AttributeValueMemberS{Value: "alice"}))
}

func TestBookRepository_ListByOwner(t *testing.T) {
	t.Run("com GSI usa Query", func(t *testing.T) {
		var got *dynamodb.QueryInput
		client := &dyndb.MockDynamoClient{
			QueryFn: func(_ context.Context, in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
				got = in
				return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
					marshalBook(t, catalog.Book{ID: 2, OwnerID: "alice", IsPrivate: true}),
				}}, nil
			},
		}
		repo := NewBookRepository(client, "books", "ownerId-index")

		books, err := repo.ListByOwner(context.Background(), "alice")

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "ownerId-index", aws.ToString(got.IndexName))
		assert.True(t, hasValue(got.ExpressionAttributeValues, &types.AttributeValueMemberS{Value: "alice"}))
		assert.Equal(t, []catalog.Book{{ID: 2, OwnerID: "alice", IsPrivate: true}}, books)
	})

	t.Run("sem GSI usa Scan", func(t *testing.T) {
		scanned := false
		client := &dyndb.MockDynamoClient{
			ScanFn: func(_ context.Context, in *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
				scanned = true
				assert.Nil(t, in.IndexName)
				return &dynamodb.ScanOutput{}, nil
			},
		}
		repo := NewBookRepository(client, "books", "")

		_, err := repo.ListByOwner(context.Background(), "alice")

		require.NoError(t, err)
		assert.True(t, scanned)
	})
}

func TestBookRepository_PutOwned(t *testing.T) {
	t.Run("condição aplicada", func(t *testing.T) {
		var got *dynamodb.PutItemInput
		client := &dyndb.MockDynamoClient{
			PutItemFn: func(_ context.Context, in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
				got = in
				return &dynamodb.PutItemOutput{}, nil
			},
		}
		repo := NewBookRepository(client, "books", "")

		require.NoError(t, repo.PutOwned(context.Background(), catalog.Book{ID: 1, OwnerID: "alice"}))
		require.NotNil(t, got)
		assert.Contains(t, aws.ToString(got.ConditionExpression), "attribute_not_exists")
		assert.True(t, hasValue(got.ExpressionAttributeValues, &types.AttributeValueMemberS{Value: "alice"}))
	})

	t.Run("dono diferente", func(t *testing.T) {
		client := &dyndb.MockDynamoClient{
			PutItemFn: func(context.Context, *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
				return nil, &types.ConditionalCheckFailedException{Message: aws.String("failed")}
			},
		}
		repo := NewBookRepository(client, "books", "")

		err := repo.PutOwned(context.Background(), catalog.Book{ID: 1, OwnerID: "bob"})

		assert.ErrorIs(t, err, catalog.ErrNotOwner)
	})
}

func TestBookRepository_DeleteOwned(t *testing.T) {
	client := &dyndb.MockDynamoClient{
		DeleteItemFn: func(_ context.Context, in *dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error) {
			if hasValue(in.ExpressionAttributeValues, &types.AttributeValueMemberS{Value: "alice"}) {
				return &dynamodb.DeleteItemOutput{}, nil
			}
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("failed")}
		},
	}
	repo := NewBookRepository(client, "books", "")

	assert.NoError(t, repo.DeleteOwned(context.Background(), 1, "alice"))
	assert.ErrorIs(t, repo.DeleteOwned(context.Background(), 1, "bob"), catalog.ErrNotOwner)
}

func TestBookRepository_DeleteMany(t *testing.T) {
	var deletes int
	client := &dyndb.MockDynamoClient{
		BatchWriteItemFn: func(_ context.Context, in *dynamodb.BatchWriteItemInput) (*dynamodb.BatchWriteItemOutput, error) {
			for _, req := range in.RequestItems["books"] {
				require.NotNil(t, req.DeleteRequest)
				deletes++
			}
			return &dynamodb.BatchWriteItemOutput{}, nil
		},
	}
	repo := NewBookRepository(client, "books", "")

	require.NoError(t, repo.DeleteMany(context.Background(), []int64{1, 2, 3}))
	assert.Equal(t, 3, deletes)
}

func TestUserRepository_Create(t *testing.T) {
	t.Run("grava usuário e guarda na mesma transação", func(t *testing.T) {
		var got *dynamodb.TransactWriteItemsInput
		client := &dyndb.MockDynamoClient{
			TransactWriteItemsFn: func(_ context.Context, in *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
				got = in
				return &dynamodb.TransactWriteItemsOutput{}, nil
			},
		}
		repo := NewUserRepository(client, "users", "email-index")

		err := repo.Create(context.Background(), accounts.User{UserID: "u1", Email: "a@x.com"})

		require.NoError(t, err)
		require.Len(t, got.TransactItems, 2)
		assert.Equal(t, &types.AttributeValueMemberS{Value: "u1"}, got.TransactItems[0].Put.Item["userId"])
		assert.Equal(t, &types.AttributeValueMemberS{Value: "UNIQUE#email#a@x.com"}, got.TransactItems[1].Put.Item["userId"])
	})

	t.Run("e-mail já reservado", func(t *testing.T) {
		client := &dyndb.MockDynamoClient{
			TransactWriteItemsFn: func(context.Context, *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
				return nil, &types.TransactionCanceledException{
					CancellationReasons: []types.CancellationReason{
						{Code: aws.String("None")},
						{Code: aws.String("ConditionalCheckFailed")},
					},
				}
			},
		}
		repo := NewUserRepository(client, "users", "email-index")

		err := repo.Create(context.Background(), accounts.User{UserID: "u2", Email: "a@x.com"})

		assert.ErrorIs(t, err, accounts.ErrEmailTaken)
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	client := &dyndb.MockDynamoClient{
		QueryFn: func(_ context.Context, in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			assert.Equal(t, "email-index", aws.ToString(in.IndexName))
			if !hasValue(in.ExpressionAttributeValues, &types.AttributeValueMemberS{Value: "a@x.com"}) {
				return &dynamodb.QueryOutput{}, nil
			}
			return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{{
				"userId":       &types.AttributeValueMemberS{Value: "u1"},
				"email":        &types.AttributeValueMemberS{Value: "a@x.com"},
				"passwordHash": &types.AttributeValueMemberS{Value: "$2a$10$hash"},
			}}}, nil
		},
	}
	repo := NewUserRepository(client, "users", "email-index")

	u, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)
	assert.Equal(t, "$2a$10$hash", u.PasswordHash)

	_, err = repo.GetByEmail(context.Background(), "A@x.com")
	assert.ErrorIs(t, err, accounts.ErrUserNotFound)
}

func TestUserRepository_Delete(t *testing.T) {
	var got *dynamodb.TransactWriteItemsInput
	client := &dyndb.MockDynamoClient{
		TransactWriteItemsFn: func(_ context.Context, in *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
			got = in
			return &dynamodb.TransactWriteItemsOutput{}, nil
		},
	}
	repo := NewUserRepository(client, "users", "email-index")

	require.NoError(t, repo.Delete(context.Background(), accounts.User{UserID: "u1", Email: "a@x.com"}))
	require.Len(t, got.TransactItems, 2)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "UNIQUE#email#a@x.com"}, got.TransactItems[1].Delete.Key["userId"])
}
