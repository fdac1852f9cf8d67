// Package config loads server configuration from the environment and
// builds the repository and blob-store backends it describes.
package config

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-board/pkg/simpleboard"
	memoryrepo "github.com/tendant/simple-board/pkg/simpleboard/repo/memory"
	pgrepo "github.com/tendant/simple-board/pkg/simpleboard/repo/postgres"
	fsstorage "github.com/tendant/simple-board/pkg/simpleboard/storage/fs"
	memorystorage "github.com/tendant/simple-board/pkg/simpleboard/storage/memory"
	s3storage "github.com/tendant/simple-board/pkg/simpleboard/storage/s3"
)

// Config is the full server configuration, populated from environment
// variables.
type Config struct {
	Port        string `env:"PORT" env-default:"8181"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	// BaseURL is the public origin of this server, used when building
	// attachment and editor-image links.
	BaseURL string `env:"BASE_URL" env-default:"http://localhost:8181"`

	// JWTSecret signs and verifies cms tokens.
	JWTSecret string `env:"JWT_SECRET" env-default:"dev-secret"`

	DatabaseType string `env:"DATABASE_TYPE" env-default:"memory"`
	DB           DbConfig

	StorageType string `env:"STORAGE_TYPE" env-default:"memory"`
	FS          FsConfig
	S3          S3Config
}

type DbConfig struct {
	Port     uint16 `env:"BOARD_PG_PORT" env-default:"5432"`
	Host     string `env:"BOARD_PG_HOST" env-default:"localhost"`
	Name     string `env:"BOARD_PG_NAME" env-default:"board_db"`
	User     string `env:"BOARD_PG_USER" env-default:"board"`
	Password string `env:"BOARD_PG_PASSWORD" env-default:"pwd"`
}

type FsConfig struct {
	BaseDir string `env:"STORAGE_FS_BASE_DIR" env-default:"./data/files"`
}

type S3Config struct {
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	Bucket          string `env:"AWS_S3_BUCKET" env-default:"board-bucket"`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
	PresignMinutes  int    `env:"AWS_S3_PRESIGN_MINUTES" env-default:"15"`
	CreateBucket    bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enum-valued fields.
func (c *Config) Validate() error {
	switch c.DatabaseType {
	case "memory", "postgres":
	default:
		return fmt.Errorf("unsupported DATABASE_TYPE: %s (use 'memory' or 'postgres')", c.DatabaseType)
	}
	switch c.StorageType {
	case "memory", "fs", "s3":
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE: %s (use 'memory', 'fs' or 's3')", c.StorageType)
	}
	return nil
}

func (c DbConfig) toDatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}
	return u.String()
}

// BuildRepository creates the configured repository backend.
func (c *Config) BuildRepository(ctx context.Context) (simpleboard.Repository, error) {
	switch c.DatabaseType {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DB.toDatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return pgrepo.NewWithPool(pool), nil
	default:
		return memoryrepo.New(), nil
	}
}

// BuildBlobStore creates the configured storage backend. Memory and fs
// backends hand out URLs under this server's files surface; s3 hands out
// presigned URLs.
func (c *Config) BuildBlobStore() (simpleboard.BlobStore, error) {
	urlPrefix := c.BaseURL + "/api/files"

	switch c.StorageType {
	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir:   c.FS.BaseDir,
			URLPrefix: urlPrefix,
		})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			PresignDuration:        c.S3.PresignMinutes * 60,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})
	default:
		return memorystorage.New(urlPrefix), nil
	}
}
