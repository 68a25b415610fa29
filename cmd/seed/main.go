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
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raywall/book-catalog/pkg/awsconfig"
	"github.com/raywall/book-catalog/pkg/bootstrap"
	"github.com/raywall/book-catalog/pkg/seed"
)

// Injetável para testes
var configLoader = bootstrap.LoadConfig

const usage = "Comandos esperados: import | validate"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) < 1 {
		return errors.New(usage)
	}

	switch args[0] {
	case "import":
		return runImport(ctx, args[1:], out)
	case "validate":
		return runValidate(ctx, args[1:], out)
	default:
		return fmt.Errorf("comando desconhecido %q. %s", args[0], usage)
	}
}

// runImport grava no catálogo os livros de -source.
func runImport(ctx context.Context, args []string, out io.Writer) error {
	importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
	importCmd.SetOutput(out)
	source := importCmd.String("source", "", "Arquivo local ou s3://bucket/key (json, yaml ou csv)")
	owner := importCmd.String("owner", "", "userId gravado como ownerId (vazio mantém o do arquivo)")

	if err := importCmd.Parse(args); err != nil {
		return err
	}
	if *source == "" {
		return errors.New("flag -source é obrigatória")
	}

	cfg, err := configLoader(ctx)
	if err != nil {
		return err
	}
	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	var s3Client seed.S3Client
	if strings.HasPrefix(*source, "s3://") {
		client, err := app.S3(ctx)
		if err != nil {
			return err
		}
		s3Client = client
	}

	n, err := seed.NewImporter(s3Client, app.Books).Import(ctx, *source, *owner)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✅ %d livros importados de %s\n", n, *source)
	return nil
}

// runValidate decodifica -source sem gravar nada, útil como etapa de CI
// antes de um import.
func runValidate(ctx context.Context, args []string, out io.Writer) error {
	validateCmd := flag.NewFlagSet("validate", flag.ContinueOnError)
	validateCmd.SetOutput(out)
	source := validateCmd.String("source", "", "Arquivo local ou s3://bucket/key (json, yaml ou csv)")

	if err := validateCmd.Parse(args); err != nil {
		return err
	}
	if *source == "" {
		return errors.New("flag -source é obrigatória")
	}

	var s3Client seed.S3Client
	if strings.HasPrefix(*source, "s3://") {
		awsCfg, err := awsconfig.Get(ctx, os.Getenv("AWS_REGION"))
		if err != nil {
			return fmt.Errorf("carregar configuração AWS: %w", err)
		}
		s3Client = s3.NewFromConfig(awsCfg)
	}

	books, err := seed.NewImporter(s3Client, nil).Load(ctx, *source)
	if err != nil {
		return fmt.Errorf("arquivo inválido:\n%w", err)
	}

	// Output JSON para integração com pipelines
	if os.Getenv("OUTPUT_FORMAT") == "json" {
		summary := map[string]any{
			"valid":  true,
			"source": *source,
			"format": seed.FormatOf(*source),
			"books":  len(books),
		}
		return json.NewEncoder(out).Encode(summary)
	}
	fmt.Fprintf(out, "✅ %d livros válidos em %s\n", len(books), *source)
	return nil
}
