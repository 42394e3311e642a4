package xrotate

import "errors"

var (
	ErrEmptyFilename     = errors.New("xrotate: filename is required")
	ErrInvalidPath       = errors.New("xrotate: invalid path")
	ErrInvalidMaxSize    = errors.New("xrotate: invalid max size")
	ErrInvalidMaxBackups = errors.New("xrotate: invalid max backups")
	ErrInvalidMaxAge     = errors.New("xrotate: invalid max age")

	// ErrNoCleanupPolicy 备份数量与保留天数同时为 0，备份会无限增长。
	ErrNoCleanupPolicy = errors.New("xrotate: max backups and max age cannot both be 0")

	ErrClosed = errors.New("xrotate: rotator is closed")
)
