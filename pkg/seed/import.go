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

// Package seed importa livros para o catálogo a partir de um arquivo local
// ou de um objeto S3, em JSON, YAML ou CSV.
package seed

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raywall/book-catalog/pkg/catalog"
	"github.com/rs/zerolog/log"
)

// S3Client interface para Mock
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Writer é o subconjunto de catalog.Repository usado na importação.
type Writer interface {
	Put(ctx context.Context, b catalog.Book) error
}

// Importer carrega livros de uma origem e grava no repositório.
type Importer struct {
	s3   S3Client
	repo Writer
}

// NewImporter cria o importador. s3 pode ser nil quando só arquivos locais
// forem usados.
func NewImporter(s3 S3Client, repo Writer) *Importer {
	return &Importer{s3: s3, repo: repo}
}

// Import lê source ("s3://bucket/key", "file://path" ou um path local),
// grava todos os livros com ownerId = ownerID e devolve quantos foram
// gravados. Com ownerID vazio o ownerId de cada registro é mantido.
func (i *Importer) Import(ctx context.Context, source, ownerID string) (int, error) {
	books, err := i.Load(ctx, source)
	if err != nil {
		return 0, err
	}

	for n, b := range books {
		if ownerID != "" {
			b.OwnerID = ownerID
		}
		if err := i.repo.Put(ctx, b); err != nil {
			return n, fmt.Errorf("seed: put book %d: %w", b.ID, err)
		}
	}

	log.Ctx(ctx).Info().Str("source", source).Int("books", len(books)).Msg("catálogo importado")
	return len(books), nil
}

// Load lê e decodifica source sem gravar nada. Todo registro precisa de um
// id positivo.
func (i *Importer) Load(ctx context.Context, source string) ([]catalog.Book, error) {
	data, err := i.read(ctx, source)
	if err != nil {
		return nil, err
	}

	books, err := Parse(data, FormatOf(source))
	if err != nil {
		return nil, fmt.Errorf("seed: %s: %w", source, err)
	}
	for n, b := range books {
		if b.ID <= 0 {
			return nil, fmt.Errorf("seed: %s: registro %d sem id válido", source, n+1)
		}
	}
	return books, nil
}

func (i *Importer) read(ctx context.Context, source string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(source, "s3://"); ok {
		bucket, key, found := strings.Cut(rest, "/")
		if !found || bucket == "" || key == "" {
			return nil, fmt.Errorf("seed: origem S3 inválida %q (esperado s3://bucket/key)", source)
		}
		return i.readS3(ctx, bucket, key)
	}

	data, err := os.ReadFile(strings.TrimPrefix(source, "file://"))
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return data, nil
}

func (i *Importer) readS3(ctx context.Context, bucket, key string) ([]byte, error) {
	if i.s3 == nil {
		return nil, fmt.Errorf("seed: cliente S3 não configurado")
	}

	out, err := i.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao baixar do S3: %w", err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// FormatOf deduz o formato pela extensão da origem.
func FormatOf(source string) string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(source)), ".")
}
