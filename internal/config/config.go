package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config contains application configuration parameters.
type Config struct {
	LogLevel  string    `env:"LOG_LEVEL" envDefault:"warn"`
	Database  Database  `envPrefix:"DATABASE_"`
	Hash      Hash      `envPrefix:"HASH_"`
	Session   Session   `envPrefix:"SESSION_"`
	Generator Generator `envPrefix:"GENERATOR_"`
}

// Database contains database connection parameters.
type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DSN" envDefault:"vaultkeeper.db"`
}

// Hash selects the password hashing algorithm.
type Hash struct {
	Algorithm  string `env:"ALGORITHM" envDefault:"bcrypt"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"10"`
}

// Session contains login session parameters.
type Session struct {
	// Secret signs session tokens. When empty, a random secret is generated
	// once and kept in SecretFile.
	Secret     string        `env:"SECRET"`
	SecretFile string        `env:"SECRET_FILE,expand" envDefault:"${HOME}/.vaultkeeper/secret"`
	TTL        time.Duration `env:"TTL" envDefault:"12h"`
	File       string        `env:"FILE,expand" envDefault:"${HOME}/.vaultkeeper/session"`
}

// Generator contains password generator parameters.
type Generator struct {
	Length int `env:"LENGTH" envDefault:"16"`
}

// NewConfig loads variables from the given dotenv files, when they exist, and
// then parses configuration from the environment. Variables already set in
// the environment win over the files.
func NewConfig(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
