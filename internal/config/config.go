// Package config loads the database connection settings for the tool.
package config

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	"gopkg.in/yaml.v3"
)

// Config holds the connection settings and the location of the reference
// schema dump.
type Config struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Database  string `yaml:"database"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	SSLMode   string `yaml:"sslmode"`
	Reference string `yaml:"reference"`
}

// Load reads the configuration from the given YAML file, applying defaults
// for everything but the database name and user.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Failed to read config file %q: %w\n%s", path, err, remediation)
	}

	config := &Config{
		Host:      "localhost",
		Port:      5432,
		SSLMode:   "disable",
		Reference: "schema/reference.sql",
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("Failed to parse config file %q: %w", path, err)
	}

	if config.Database == "" || config.User == "" {
		return nil, fmt.Errorf("Config file %q must set both database and user\n%s", path, remediation)
	}

	// A relative reference path is taken relative to the config file, so
	// the tool works from any working directory.
	if !filepath.IsAbs(config.Reference) {
		config.Reference = filepath.Join(filepath.Dir(path), config.Reference)
	}

	return config, nil
}

// DSN returns the postgres connection URL for these settings.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Database,
	}

	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()

	return u.String()
}

// Connect opens and pings the configured database. Failures come back with
// the remediation hint attached, since a missing role or database is the
// usual cause.
func (c *Config) Connect(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.DSN())
	if err != nil {
		return nil, fmt.Errorf("Failed to open database %q: %w", c.Database, err)
	}

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("Failed to connect to database %q: %w\n%s", c.Database, err, remediation)
	}

	return db, nil
}

const remediation = `The database and role can be created with:
    CREATE ROLE <user> LOGIN PASSWORD '<password>';
    CREATE DATABASE <database> OWNER <user>;
then recorded in the config file (host, port, database, user, password).`
