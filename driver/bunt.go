package driver

import (
	"os"
	"path/filepath"

	"github.com/tidwall/buntdb"
	"go.uber.org/zap"
)

// OpenBunt opens (or creates) the BuntDB file at path. ":memory:" opens a
// non persistent database.
func OpenBunt(path string, logger *zap.Logger) (*buntdb.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := buntdb.Open(path)
	if err != nil {
		logger.Error("Failed to open buntdb", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	// 每次寫入都同步到磁碟，確保購物車與記憶體狀態一致
	var config buntdb.Config
	if err = db.ReadConfig(&config); err != nil {
		_ = db.Close()
		return nil, err
	}
	config.SyncPolicy = buntdb.Always
	if err = db.SetConfig(config); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
