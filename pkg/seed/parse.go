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
package seed

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/raywall/book-catalog/pkg/catalog"
	"gopkg.in/yaml.v3"
)

// Parse decodifica uma lista de livros no formato informado (json, yaml,
// yml ou csv).
func Parse(data []byte, format string) ([]catalog.Book, error) {
	var books []catalog.Book

	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &books); err != nil {
			return nil, fmt.Errorf("erro parse JSON: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &books); err != nil {
			return nil, fmt.Errorf("erro parse YAML: %w", err)
		}
	case "csv":
		records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			return nil, fmt.Errorf("erro parse CSV: %w", err)
		}
		return parseCSV(records)
	default:
		return nil, fmt.Errorf("formato não suportado: %q", format)
	}
	return books, nil
}

// parseCSV usa a primeira linha como cabeçalho. Colunas reconhecidas: id,
// title, author, description, price, isPrivate, ownerId; as demais são
// ignoradas.
func parseCSV(records [][]string) ([]catalog.Book, error) {
	if len(records) < 1 {
		return nil, nil
	}
	headers := records[0]

	books := make([]catalog.Book, 0, len(records)-1)
	for line, row := range records[1:] {
		var b catalog.Book
		for i, val := range row {
			if i >= len(headers) {
				break
			}
			if err := setField(&b, strings.TrimSpace(headers[i]), strings.TrimSpace(val)); err != nil {
				return nil, fmt.Errorf("linha %d: %w", line+2, err)
			}
		}
		books = append(books, b)
	}
	return books, nil
}

func setField(b *catalog.Book, column, val string) error {
	var err error
	switch column {
	case "id":
		b.ID, err = strconv.ParseInt(val, 10, 64)
	case "title":
		b.Title = val
	case "author":
		b.Author = val
	case "description":
		b.Description = val
	case "price":
		if val != "" {
			b.Price, err = strconv.ParseFloat(val, 64)
		}
	case "isPrivate":
		if val != "" {
			b.IsPrivate, err = strconv.ParseBool(val)
		}
	case "ownerId":
		b.OwnerID = val
	}
	if err != nil {
		return fmt.Errorf("coluna %s: %w", column, err)
	}
	return nil
}
