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

// Package dyndb é a camada de persistência genérica sobre o DynamoDB (SDK v2)
// usada pelos repositórios de livros e contas.
//
// Store[T] cobre CRUD tipado, escritas condicionais (PutIf, DeleteIf) e
// BatchWrite. PutUnique e DeleteUnique mantêm, na mesma transação, um
// registro-guarda "UNIQUE#<atributo>#<valor>" para garantir unicidade de
// atributos que não são chave (o e-mail da conta, por exemplo). Falhas de
// condição retornam ErrConditionFailed.
//
// Consultas usam o QueryBuilder fluente:
//
//	books := dyndb.New(client, dyndb.TableConfig[Book]{TableName: "books", HashKey: "id"})
//
//	owned, err := books.Query().
//		Index("ownerId-index").
//		KeyEqual("ownerId", userID).
//		All(ctx)
//
//	visible, err := books.Scan().
//		Where(expression.Name("isPrivate").Equal(expression.Value(false))).
//		All(ctx)
//
// Exec devolve uma página e o token opaco (base64) da próxima; All percorre
// todas as páginas. MockDynamoClient permite testar repositórios sem AWS.
package dyndb
