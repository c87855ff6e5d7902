package source

import (
	"fmt"

	"github.com/newthinker/btview/internal/config"
	"github.com/newthinker/btview/internal/core"
)

// Source types
const (
	TypeLocalFS = "localfs"
	TypeS3      = "s3"
)

// New builds the source described by cfg
func New(cfg config.SourceConfig) (Source, error) {
	switch cfg.Type {
	case TypeLocalFS, "":
		path := cfg.Path
		if path == "" {
			path = "."
		}
		fs, err := NewLocalFS(path)
		if err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, err)
		}
		return fs, nil
	case TypeS3:
		if cfg.S3.Bucket == "" {
			return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("source.s3.bucket is required"))
		}
		s3src, err := NewS3(S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return s3src, nil
	}
	return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown source type %q", cfg.Type))
}
