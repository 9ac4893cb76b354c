package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/ramanasai/freeflow/internal/config"
	"github.com/ramanasai/freeflow/internal/db"
	"github.com/ramanasai/freeflow/internal/encryption"
	"github.com/ramanasai/freeflow/internal/logging"
)

// openStore opens the entry database under cfg.DataDir.
func openStore(cfg config.Config, logger *slog.Logger) (*db.Store, func() error, error) {
	dbh, err := db.Open(filepath.Join(cfg.DataDir, db.FileName))
	if err != nil {
		return nil, nil, err
	}
	opts := []db.Option{db.WithLogger(logger)}
	if cfg.Encryption.Enabled {
		enc, err := encryption.NewEncryptor(cfg.Passphrase, cfg.DataDir)
		if err != nil {
			_ = dbh.Close()
			return nil, nil, fmt.Errorf("encryption: %w (set FREEFLOW_PASSPHRASE)", err)
		}
		opts = append(opts, db.WithEncryptor(enc))
	}
	return db.NewStore(dbh, opts...), dbh.Close, nil
}

func cliLogger(cmd interface{ ErrOrStderr() io.Writer }) *slog.Logger {
	return logging.New(cfg.Log.Level, cmd.ErrOrStderr())
}
