package history

import (
	"fmt"
	"path/filepath"

	"instaviewer/pkg/config"
	"instaviewer/pkg/logger"
)

// Open builds the Store selected by cfg. When the backend cannot be opened
// the failure is logged and the returned Store remembers nothing.
func Open(cfg *config.HistoryConfig, log logger.Logger) *Recent {
	if log == nil {
		log = logger.GetLogger()
	}

	backend, err := openBackend(cfg)
	if err != nil {
		log.WithError(err).WarnWithFields("history disabled", map[string]interface{}{
			"backend": cfg.Backend,
		})
		return NewRecent(discard{}, log)
	}

	log.DebugWithFields("history opened", map[string]interface{}{
		"backend": cfg.Backend,
	})
	return NewRecent(backend, log)
}

func openBackend(cfg *config.HistoryConfig) (Backend, error) {
	switch cfg.Backend {
	case config.HistoryBackendNone:
		return discard{}, nil
	case config.HistoryBackendKeyring:
		return NewKeyringBackend()
	case config.HistoryBackendFile, "":
		path, err := defaultPath(cfg.Path, "history.json")
		if err != nil {
			return nil, err
		}
		return NewFileBackend(path)
	case config.HistoryBackendEncrypted:
		path, err := defaultPath(cfg.Path, "history.enc")
		if err != nil {
			return nil, err
		}
		return NewEncryptedBackend(path, cfg.Passphrase)
	case config.HistoryBackendSQLite:
		path, err := defaultPath(cfg.Path, "history.db")
		if err != nil {
			return nil, err
		}
		return NewSQLiteBackend(path)
	}
	return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
}

func defaultPath(path, name string) (string, error) {
	if path != "" {
		return path, nil
	}
	dir, err := config.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
