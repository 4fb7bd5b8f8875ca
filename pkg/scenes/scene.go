package scenes

import (
	"github.com/decker502/farmstead/pkg/game"
)

// 注册到场景管理器的场景名
const (
	SceneLoading = "loading"
	SceneFarm    = "farm"
)

var (
	_ game.Scene    = (*FarmScene)(nil)
	_ game.Enterer  = (*FarmScene)(nil)
	_ game.Exiter   = (*FarmScene)(nil)
	_ game.Saveable = (*FarmScene)(nil)

	_ game.Scene   = (*LoadingScene)(nil)
	_ game.Enterer = (*LoadingScene)(nil)
	_ game.Exiter  = (*LoadingScene)(nil)
)
