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
package envloader

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_StringFields(t *testing.T) {
	type Config struct {
		BooksTable string `env:"TABLE_NAME" envDefault:"books"`
		UsersTable string `env:"USERS_TABLE_NAME" envDefault:"users"`
		Endpoint   string `env:"DYNAMODB_ENDPOINT"`
	}

	t.Run("defaults", func(t *testing.T) {
		config := &Config{}
		require.NoError(t, Load(config))

		assert.Equal(t, "books", config.BooksTable)
		assert.Equal(t, "users", config.UsersTable)
		assert.Empty(t, config.Endpoint)
	})

	t.Run("ambiente sobrescreve default", func(t *testing.T) {
		t.Setenv("TABLE_NAME", "books-dev")
		t.Setenv("DYNAMODB_ENDPOINT", "http://localhost:8000")

		config := &Config{}
		require.NoError(t, Load(config))

		assert.Equal(t, "books-dev", config.BooksTable)
		assert.Equal(t, "users", config.UsersTable)
		assert.Equal(t, "http://localhost:8000", config.Endpoint)
	})
}

func TestLoad_NumericFields(t *testing.T) {
	type Config struct {
		Port       int     `env:"PORT" envDefault:"3001"`
		BcryptCost int32   `env:"BCRYPT_COST" envDefault:"10"`
		MaxItems   uint64  `env:"MAX_ITEMS" envDefault:"25"`
		Ratio      float64 `env:"SAMPLE_RATIO" envDefault:"0.5"`
	}

	t.Setenv("BCRYPT_COST", "12")

	config := &Config{}
	require.NoError(t, Load(config))

	assert.Equal(t, 3001, config.Port)
	assert.Equal(t, int32(12), config.BcryptCost)
	assert.Equal(t, uint64(25), config.MaxItems)
	assert.InDelta(t, 0.5, config.Ratio, 0.0001)
}

func TestLoad_BoolFields(t *testing.T) {
	type Config struct {
		AllowDeletion bool `env:"ACCOUNT_DELETION_ENABLED" envDefault:"false"`
		EnforceOwner  bool `env:"BOOKS_ENFORCE_UPDATE_OWNERSHIP" envDefault:"true"`
	}

	t.Setenv("ACCOUNT_DELETION_ENABLED", "TRUE")
	t.Setenv("BOOKS_ENFORCE_UPDATE_OWNERSHIP", "false")

	config := &Config{}
	require.NoError(t, Load(config))

	assert.True(t, config.AllowDeletion)
	assert.False(t, config.EnforceOwner)
}

func TestLoad_Duration(t *testing.T) {
	type Config struct {
		TokenTTL time.Duration `env:"JWT_TTL" envDefault:"1h"`
	}

	config := &Config{}
	require.NoError(t, Load(config))
	assert.Equal(t, time.Hour, config.TokenTTL)

	t.Setenv("JWT_TTL", "15m")
	config = &Config{}
	require.NoError(t, Load(config))
	assert.Equal(t, 15*time.Minute, config.TokenTTL)

	t.Setenv("JWT_TTL", "uma hora")
	err := Load(&Config{})
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "JWT_TTL", fieldErr.EnvVar)
	assert.False(t, fieldErr.FromDefault)
	assert.Contains(t, err.Error(), `from env JWT_TTL="uma hora"`)
}

func TestLoad_StringSlice(t *testing.T) {
	type Config struct {
		Origins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	}

	config := &Config{}
	require.NoError(t, Load(config))
	assert.Equal(t, []string{"*"}, config.Origins)

	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://books.example.com,,")
	config = &Config{}
	require.NoError(t, Load(config))
	assert.Equal(t, []string{"http://localhost:3000", "https://books.example.com"}, config.Origins)
}

func TestLoad_UnsupportedType(t *testing.T) {
	type Config struct {
		Ports []int `env:"PORTS" envDefault:"1,2"`
	}

	err := Load(&Config{})

	var unsupported *UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Contains(t, err.Error(), "unsupported type []int")
	assert.Contains(t, err.Error(), "time.Duration, []string")
}

func TestLoad_WithoutEnvTagKeepsValue(t *testing.T) {
	type Config struct {
		Name   string
		Region string `env:"AWS_REGION"`
	}

	config := &Config{Name: "book-catalog", Region: "sa-east-1"}
	require.NoError(t, Load(config))

	assert.Equal(t, "book-catalog", config.Name)
	assert.Equal(t, "sa-east-1", config.Region)
}

func TestLoad_InvalidConfig(t *testing.T) {
	err := Load("not-a-pointer")
	assert.ErrorContains(t, err, "pointer to struct")

	var n int
	err = Load(&n)
	assert.ErrorContains(t, err, "pointer to int")
}

func TestLoad_ConversionErrors(t *testing.T) {
	type Config struct {
		Port int `env:"PORT" envDefault:"not-a-number"`
	}

	err := Load(&Config{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error setting field Port from envDefault of PORT")
	var numErr *strconv.NumError
	assert.True(t, errors.As(err, &numErr))
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.True(t, fieldErr.FromDefault)
}

func TestMustLoad(t *testing.T) {
	type Config struct {
		Port string `env:"PORT" envDefault:"3001"`
	}

	config := &Config{}
	assert.NotPanics(t, func() { MustLoad(config) })
	assert.Equal(t, "3001", config.Port)

	assert.Panics(t, func() { MustLoad("not-a-pointer") })
}

func TestLoad_NestedStructs(t *testing.T) {
	type StorageConfig struct {
		BooksTable string `env:"TABLE_NAME" envDefault:"books"`
		Region     string `env:"AWS_REGION" envDefault:"us-east-1"`
	}
	type AuthConfig struct {
		Secret string        `env:"JWT_SECRET"`
		TTL    time.Duration `env:"JWT_TTL" envDefault:"1h"`
	}
	type AppConfig struct {
		Storage StorageConfig
		Auth    *AuthConfig
	}

	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("AWS_REGION", "sa-east-1")

	config := &AppConfig{}
	require.NoError(t, Load(config))

	assert.Equal(t, "books", config.Storage.BooksTable)
	assert.Equal(t, "sa-east-1", config.Storage.Region)
	require.NotNil(t, config.Auth)
	assert.Equal(t, "s3cr3t", config.Auth.Secret)
	assert.Equal(t, time.Hour, config.Auth.TTL)
}
