//go:build js

package app

import "github.com/charmbracelet/log"

// openLedger 浏览器里没有 SQLite，收获账本不可用
func openLedger(path string, lg *log.Logger) harvestLedger {
	lg.Warn("harvest ledger is not supported in the browser", "path", path)
	return nil
}
