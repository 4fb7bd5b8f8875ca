package app

import "github.com/decker502/farmstead/pkg/scenes"

// harvestLedger 应用持有的收获账本，退出时关闭
type harvestLedger interface {
	scenes.HarvestRecorder
	Close() error
}
