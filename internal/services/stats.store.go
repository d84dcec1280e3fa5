package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"altesse/internal/models"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
)

// StatsStore persists the conversion statistics document
type StatsStore interface {
	Load(ctx context.Context) (*models.Stats, error)
	Save(ctx context.Context, s *models.Stats) error
}

// FileStatsStore keeps the document as indented JSON on a filesystem
type FileStatsStore struct {
	fs   afero.Fs
	path string
}

func NewFileStatsStore(fs afero.Fs, path string) *FileStatsStore {
	return &FileStatsStore{fs: fs, path: path}
}

// Load returns empty stats when the file does not exist yet
func (s *FileStatsStore) Load(_ context.Context) (*models.Stats, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.NewStatsFrom(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", s.path, err)
	}

	return models.NewStatsFrom(data)
}

func (s *FileStatsStore) Save(_ context.Context, stats *models.Stats) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("cannot create stats directory: %w", err)
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}

	return afero.WriteFile(s.fs, s.path, data, 0o644)
}

// redisKV is the slice of the redis client the store needs
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStatsStore keeps the same JSON document under a single key
type RedisStatsStore struct {
	rdb redisKV
	key string
}

func NewRedisStatsStore(rdb redisKV, key string) *RedisStatsStore {
	return &RedisStatsStore{rdb: rdb, key: key}
}

func (s *RedisStatsStore) Load(ctx context.Context) (*models.Stats, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewStatsFrom(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot get %s: %w", s.key, err)
	}

	return models.NewStatsFrom(data)
}

func (s *RedisStatsStore) Save(ctx context.Context, stats *models.Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("cannot set %s: %w", s.key, err)
	}
	return nil
}
