package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"akshit029/vig-api/pkg/util"

	"go.uber.org/zap"
)

// Store keeps generated artifacts on local disk for a limited time. Names
// embed the owner id, a nanosecond timestamp and a random suffix, so they
// are unguessable and never reused. A sweeper goroutine deletes artifacts
// older than the TTL, which replaces deleting files right after a download
// finishes (that loses the file for retried or slow transfers).
//
// With storage.type=s3 every artifact is also mirrored to a bucket and
// restored from there when the local copy was already swept
type Store struct {
	Dir string
	TTL time.Duration
	S3  *S3Client
}

func NewStore(dir string, ttl time.Duration, s3 *S3Client) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact dir, %w", err)
	}

	return &Store{Dir: dir, TTL: ttl, S3: s3}, nil
}

// MakeName builds a fresh artifact name like tts_<user>_<nanos>_<rand>.mp3
func MakeName(prefix, userID, ext string) string {
	return fmt.Sprintf("%s_%s_%d_%s%s", prefix, userID, time.Now().UnixNano(), util.RandStr(6), ext)
}

func (s *Store) Save(name string, data []byte) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}

	if err := os.WriteFile(p, data, 0o644); err != nil {
		return err
	}

	if s.S3 != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			if err := s.S3.Upload(ctx, name, data); err != nil {
				zap.L().Warn("Failed to mirror artifact to S3", zap.String("name", name), zap.Error(err))
			}
		}()
	}

	return nil
}

// Resolve returns the on-disk path of an artifact, pulling it back from
// the S3 mirror when the local copy is gone. ok is false when the
// artifact doesn't exist anywhere
func (s *Store) Resolve(ctx context.Context, name string) (path string, ok bool) {
	p, err := s.path(name)
	if err != nil {
		return "", false
	}

	if _, err := os.Stat(p); err == nil {
		return p, true
	}

	if s.S3 == nil {
		return "", false
	}

	data, err := s.S3.Download(ctx, name)
	if err != nil {
		return "", false
	}

	if err := os.WriteFile(p, data, 0o644); err != nil {
		zap.L().Error("Failed to restore artifact from S3", zap.String("name", name), zap.Error(err))
		return "", false
	}

	return p, true
}

func (s *Store) Delete(name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}

	return os.Remove(p)
}

// path rejects anything that tries to escape the artifact dir
func (s *Store) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}

	return filepath.Join(s.Dir, name), nil
}

// StartSweeper periodically removes artifacts older than the TTL
func (s *Store) StartSweeper(interval time.Duration) {
	ticker := time.NewTicker(interval)

	zap.L().Debug("Artifact sweeper attached", zap.Duration("tick_every", interval))

	go func() {
		for range ticker.C {
			entries, err := os.ReadDir(s.Dir)
			if err != nil {
				zap.L().Error("Failed to read artifact dir", zap.Error(err))
				continue
			}

			for _, e := range entries {
				info, err := e.Info()
				if err != nil {
					continue
				}

				if time.Since(info.ModTime()) > s.TTL {
					if err := os.Remove(filepath.Join(s.Dir, e.Name())); err != nil {
						zap.L().Error("Failed to sweep artifact", zap.String("name", e.Name()), zap.Error(err))
					}
				}
			}
		}
	}()
}
