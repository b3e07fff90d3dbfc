// Package config reads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the settings shared by all three servers.
type Config struct {
	MongoURI      string `env:"MONGODB_URI"`
	MongoUser     string `env:"MONGODB_USER"`
	MongoPass     string `env:"MONGODB_PASS"`
	MongoCluster  string `env:"MONGODB_CLUSTER"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"superstore"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads a .env file when present and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// URI returns the MongoDB connection string. MONGODB_URI wins when set;
// otherwise the Atlas SRV URI is assembled from user, password and cluster.
// Missing credentials are a startup error, not a deferred nil failure.
func (c *Config) URI() (string, error) {
	if c.MongoURI != "" {
		return c.MongoURI, nil
	}
	if c.MongoUser == "" || c.MongoPass == "" || c.MongoCluster == "" {
		return "", errors.New("mongodb is not configured: set MONGODB_URI, or MONGODB_USER, MONGODB_PASS and MONGODB_CLUSTER")
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/",
		url.QueryEscape(c.MongoUser),
		url.QueryEscape(c.MongoPass),
		c.MongoCluster,
	), nil
}
