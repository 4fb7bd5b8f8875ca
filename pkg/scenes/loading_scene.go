package scenes

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/decker502/farmstead/pkg/game"
	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/render"
	"github.com/decker502/farmstead/pkg/utils"
)

// 进度条布局
const (
	loadingBarW        = 320.0
	loadingBarH        = 16.0
	loadingProgressAdv = 6.0 // 显示进度追赶真实进度的速度
)

// LoadingScene represents the loading screen shown when the game starts.
// It decodes sprite groups in the background and shows a progress bar.
//
// 加载结束（无论成败）后请求切换到 next；失败的精灵由资源管理器以占位图代替，
// 所以加载错误只记录日志，不阻止进入游戏。
type LoadingScene struct {
	resources *game.ResourceManager
	scenes    *game.SceneManager
	groups    []string
	next      string

	width, height float64

	cancel   context.CancelFunc
	shown    float64 // 显示用进度，平滑追赶真实进度
	finished bool
	err      error

	log *log.Logger
}

// NewLoadingScene creates a new loading scene.
func NewLoadingScene(rm *game.ResourceManager, sm *game.SceneManager, next string, width, height int, groups ...string) *LoadingScene {
	return &LoadingScene{
		resources: rm,
		scenes:    sm,
		groups:    groups,
		next:      next,
		width:     float64(width),
		height:    float64(height),
		log:       logging.For("LoadingScene"),
	}
}

// Enter 启动后台加载
func (s *LoadingScene) Enter() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	if err := s.resources.LoadGroupsAsync(ctx, s.groups...); err != nil {
		s.log.Error("failed to start loading", "groups", s.groups, "err", err)
		s.err = err
		s.finish()
	}
}

// Exit 取消尚未完成的加载
func (s *LoadingScene) Exit() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Update 取回后台解码结果，加载结束后切换场景
func (s *LoadingScene) Update(deltaTime float64) {
	if !s.finished {
		s.resources.Poll()
		if s.resources.Done() {
			if err := s.resources.Err(); err != nil {
				s.log.Error("some sprites failed to load", "err", err)
				s.err = err
			}
			s.finish()
		}
	}
	s.shown = utils.Approach(s.shown, s.Progress(), loadingProgressAdv, deltaTime)
}

func (s *LoadingScene) finish() {
	s.finished = true
	s.log.Info("loading finished", "sprites", len(s.resources.IDs()), "next", s.next)
	if s.next != "" && !s.scenes.Request(s.next) {
		s.log.Error("next scene not registered", "scene", s.next)
	}
}

// Progress 真实加载进度 0..1，加载失败时视为完成
func (s *LoadingScene) Progress() float64 {
	if s.finished {
		return 1
	}
	return s.resources.Progress()
}

// Finished 加载是否已结束
func (s *LoadingScene) Finished() bool { return s.finished }

// Err 加载错误
func (s *LoadingScene) Err() error { return s.err }

// Render 标题、进度条和百分比
func (s *LoadingScene) Render(q *render.Queue) {
	q.Rect(render.LayerGround, 0, 0, s.width, s.height, render.Black, true)

	x := (s.width - loadingBarW) / 2
	y := s.height/2 - loadingBarH/2
	q.Text(render.LayerUI, "Loading farm...", x, y-24, render.White)
	q.Rect(render.LayerUI, x, y, loadingBarW, loadingBarH, render.Soil, true)
	q.Rect(render.LayerUI, x, y, loadingBarW*utils.EaseOutQuad(s.shown), loadingBarH, render.Grass, true)
	q.Rect(render.LayerUI, x, y, loadingBarW, loadingBarH, render.White, false)
	q.Text(render.LayerUI, fmt.Sprintf("%3.0f%%", s.shown*100), x+loadingBarW+8, y, render.White)

	if s.err != nil {
		q.Text(render.LayerUI, "Some sprites are missing, using placeholders", x, y+loadingBarH+12, render.Warning)
	}
}
