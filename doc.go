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

// Package bookcatalog é o serviço de catálogo de livros: contas com login por
// JWT, livros com dono e visibilidade, e adaptadores para HTTP local, AWS
// Lambda (API Gateway v2) e SQS.
//
// Organização:
//
//   - pkg/accounts e pkg/catalog: regras de negócio de contas e livros.
//   - pkg/auth: hashing bcrypt, emissão e validação de tokens.
//   - pkg/router: tabela de rotas, autenticação por rota, CORS e respostas JSON.
//   - pkg/transport: adaptadores HTTP (gorilla/mux), Lambda e SQS.
//   - pkg/storage: repositórios em memória e DynamoDB (via dyndb).
//   - pkg/queue: publicação e consumo do evento account.deleted.
//   - pkg/seed: importação de livros a partir de JSON, YAML ou CSV.
//   - pkg/bootstrap: composição da aplicação a partir da configuração.
//
// Binários:
//
//   - cmd/server: API (local ou Lambda, conforme SERVICE_RUNTIME).
//   - cmd/worker: remove os livros de contas excluídas.
//   - cmd/seed: importa e valida arquivos de carga inicial.
//
// Início rápido:
//
//	SERVICE_RUNTIME=local STORAGE_DRIVER=memory JWT_SECRET=$(openssl rand -hex 32) go run ./cmd/server
//
//	curl -X POST localhost:3001/api/register -d '{"email":"a@x.io","password":"secret123"}'
package bookcatalog
