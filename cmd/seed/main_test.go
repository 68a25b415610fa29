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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSeedEnv(t *testing.T) {
	t.Setenv("SERVICE_RUNTIME", "local")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "seed-test-secret-0123456789abcdef-xx")
	t.Setenv("LOG_ENABLED", "false")
}

func TestRun_Import(t *testing.T) {
	setSeedEnv(t)
	file := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, os.WriteFile(file, []byte("id,title,price\n1,Dune,9.5\n2,Emma,4\n"), 0o600))

	var out bytes.Buffer
	err := run(context.Background(), []string{"import", "-source", file, "-owner", "admin"}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "2 livros importados")
}

func TestRun_ImportRequiresSource(t *testing.T) {
	var out bytes.Buffer

	err := run(context.Background(), []string{"import"}, &out)

	assert.ErrorContains(t, err, "-source")
}

func TestRun_Validate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "books.csv")
	require.NoError(t, os.WriteFile(good, []byte("id,title,price\n1,Dune,9.5\n2,Emma,4\n"), 0o600))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"validate", "-source", good}, &out))
	assert.Contains(t, out.String(), "2 livros válidos")

	t.Setenv("OUTPUT_FORMAT", "json")
	out.Reset()
	require.NoError(t, run(context.Background(), []string{"validate", "-source", good}, &out))
	assert.JSONEq(t, `{"valid":true,"source":"`+good+`","format":"csv","books":2}`, out.String())
}

func TestRun_ValidateRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	badRow := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(badRow, []byte("id,title\nnot-a-number,Dune\n"), 0o600))
	noID := filepath.Join(dir, "noid.json")
	require.NoError(t, os.WriteFile(noID, []byte(`[{"title":"Sem id"}]`), 0o600))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"linha csv inválida", []string{"validate", "-source", badRow}, "linha 2"},
		{"registro sem id", []string{"validate", "-source", noID}, "sem id"},
		{"arquivo inexistente", []string{"validate", "-source", filepath.Join(dir, "missing.json")}, "arquivo inválido"},
		{"sem source", []string{"validate"}, "-source"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(context.Background(), tt.args, &out)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	var out bytes.Buffer

	assert.Error(t, run(context.Background(), nil, &out))
	assert.ErrorContains(t, run(context.Background(), []string{"deploy"}, &out), "desconhecido")
}
