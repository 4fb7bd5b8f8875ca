//go:build !js

package app

import (
	"github.com/charmbracelet/log"

	"github.com/decker502/farmstead/pkg/storage"
)

// openLedger 打开 SQLite 收获账本，失败时返回 nil
func openLedger(path string, lg *log.Logger) harvestLedger {
	ledger, err := storage.Open(path)
	if err != nil {
		lg.Error("failed to open harvest ledger", "path", path, "err", err)
		return nil
	}
	return ledger
}
