// Package engine 固定节奏的游戏主循环
//
// 每帧依次执行：计算时间增量 → 更新 → 渲染 → 监控。
// 引擎不依赖具体宿主：app 包把它接到 ebiten 的 Update/Draw 回调上，
// simulate 命令则用注入的时钟和 render.Recorder 无头驱动它。
package engine

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/charmbracelet/log"

	"github.com/decker502/farmstead/pkg/config"
	"github.com/decker502/farmstead/pkg/event"
	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/render"
)

// ErrFatal 不可恢复错误（如渲染表面丢失）
// 子系统返回或 panic 出包装了 ErrFatal 的错误时，主循环停止模拟，之后只绘制错误画面
var ErrFatal = errors.New("fatal engine error")

// UpdateFunc 子系统更新函数，返回的非致命错误只影响本帧
type UpdateFunc func(deltaTime float64) error

// Scene 当前场景（通常是 game.SceneManager）
type Scene interface {
	Update(deltaTime float64)
	Render(q *render.Queue)
}

// Overlay 叠加层（对话、通知），在场景之后绘制
type Overlay interface {
	Render(q *render.Queue)
}

type subsystem struct {
	name   string
	update UpdateFunc
}

var (
	clearColor = color.RGBA{R: 24, G: 32, B: 24, A: 255}
	errorColor = color.RGBA{R: 90, G: 10, B: 10, A: 255}
	textColor  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Engine 游戏主循环
//
// 更新顺序固定：输入轮询 → 当前场景 → 其他子系统（按注册顺序）。
// 每个子系统的更新都在独立的 recover 边界内执行，
// 一个子系统失败只会跳过它本帧的剩余工作。
type Engine struct {
	cfg config.EngineConfig
	bus *event.Bus
	now func() time.Time

	input      UpdateFunc
	scene      Scene
	subsystems []subsystem
	overlays   []Overlay
	queue      *render.Queue

	started bool
	last    time.Time
	debug   bool
	fatal   error
	lastErr string
	// errorScreenLost 错误画面绘制失败过，只记录一次日志
	errorScreenLost bool

	metrics Metrics
	fps     fpsCounter

	log *log.Logger
}

// New 创建引擎；now 为 nil 时使用 time.Now
func New(cfg config.EngineConfig, bus *event.Bus, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		cfg:   cfg,
		bus:   bus,
		now:   now,
		queue: render.NewQueue(),
		debug: cfg.DebugOverlay,
		log:   logging.For("Engine"),
	}
}

// SetInput 设置输入轮询函数，每帧最先调用且只调用一次
func (e *Engine) SetInput(fn UpdateFunc) {
	e.input = fn
}

// SetScene 设置场景
func (e *Engine) SetScene(s Scene) {
	e.scene = s
}

// Register 注册在场景之后更新的子系统
func (e *Engine) Register(name string, fn UpdateFunc) {
	e.subsystems = append(e.subsystems, subsystem{name: name, update: fn})
}

// AddOverlay 添加叠加层
func (e *Engine) AddOverlay(o Overlay) {
	e.overlays = append(e.overlays, o)
}

// SetDebug 开关调试叠加层
func (e *Engine) SetDebug(on bool) {
	e.debug = on
}

// Debug 调试叠加层是否开启
func (e *Engine) Debug() bool {
	return e.debug
}

// Fatal 返回导致主循环停止的错误
func (e *Engine) Fatal() error {
	return e.fatal
}

// Queue 返回渲染队列
func (e *Engine) Queue() *render.Queue {
	return e.queue
}

// Metrics 返回最近一帧的统计
func (e *Engine) Metrics() Metrics {
	return e.metrics
}

// computeDelta 计算本帧时间增量（秒）
// 间隔不小于 MaxDelta 时一律取 MaxDelta；第一帧为 0
func (e *Engine) computeDelta(now time.Time) float64 {
	if !e.started {
		e.started = true
		e.last = now
		return 0
	}
	gap := now.Sub(e.last)
	e.last = now
	if gap < 0 {
		return 0
	}
	if limit := e.cfg.MaxDelta(); limit > 0 && gap >= limit {
		gap = limit
	}
	return gap.Seconds()
}

// Step 执行一帧更新
// 致命错误之后不再模拟，宿主继续调用 Render 绘制错误画面
func (e *Engine) Step() {
	if e.fatal != nil {
		return
	}
	start := e.now()
	dt := e.computeDelta(start)
	e.metrics.LastDelta = dt

	if e.input != nil {
		e.run("input", e.input, dt)
	}
	if e.scene != nil {
		e.run("scene", func(dt float64) error {
			e.scene.Update(dt)
			return nil
		}, dt)
	}
	for _, s := range e.subsystems {
		if e.fatal != nil {
			break
		}
		e.run(s.name, s.update, dt)
	}
	if e.bus != nil {
		e.bus.Dispatch()
	}

	e.metrics.UpdateTime = e.now().Sub(start)
}

// run 在 recover 边界内执行一个子系统
func (e *Engine) run(name string, fn UpdateFunc, dt float64) {
	if err := Guard(func() error { return fn(dt) }); err != nil {
		e.fail(name, err)
	}
}

// Guard 执行 fn，把其中的 panic 转换为错误返回
// panic 值本身是 error 时保留错误链，errors.Is(err, ErrFatal) 仍然成立
func Guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(error)
			if !ok {
				perr = fmt.Errorf("%v", r)
			}
			err = fmt.Errorf("panic: %w", perr)
		}
	}()
	return fn()
}

func (e *Engine) fail(name string, err error) {
	if errors.Is(err, ErrFatal) {
		e.fatal = fmt.Errorf("%s: %w", name, err)
		e.log.Error("fatal error, simulation halted", "subsystem", name, "err", err)
		return
	}
	e.metrics.Failures++
	e.log.Error("subsystem update failed", "subsystem", name, "err", err)
	if e.bus != nil {
		e.bus.Publish(event.Event{Type: event.SubsystemFailed, Target: name, Detail: err.Error()})
	}
}

// Render 绘制一帧：清屏 → 场景 → 刷新命令 → 叠加层 → 调试层
func (e *Engine) Render(t render.Target) {
	start := e.now()
	defer func() {
		end := e.now()
		e.metrics.RenderTime = end.Sub(start)
		e.metrics.FrameTime = e.metrics.UpdateTime + e.metrics.RenderTime
		e.metrics.Frames++
		e.fps.tick(end)
		e.metrics.FPS = e.fps.value
	}()

	if e.fatal != nil {
		e.drawError(t, e.fatal.Error())
		return
	}
	if !e.renderFrame(t) {
		e.drawError(t, e.lastErr)
	}
}

// renderFrame 返回是否成功绘制；失败时 lastErr 记录原因
func (e *Engine) renderFrame(t render.Target) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			err, isErr := r.(error)
			if !isErr {
				err = fmt.Errorf("%v", r)
			}
			e.queue.Reset()
			if errors.Is(err, ErrFatal) {
				e.fatal = fmt.Errorf("render: %w", err)
				e.lastErr = e.fatal.Error()
			} else {
				e.lastErr = fmt.Sprintf("render failed: %v", err)
				e.log.Error("render failed", "err", err)
			}
			ok = false
		}
	}()

	t.Clear(clearColor)
	if e.scene != nil {
		e.scene.Render(e.queue)
	}
	e.queue.Flush(t)
	for _, o := range e.overlays {
		o.Render(e.queue)
	}
	e.queue.Flush(t)
	if e.debug {
		e.drawDebug()
		e.queue.Flush(t)
	}
	return true
}

func (e *Engine) drawDebug() {
	m := e.metrics
	lines := []string{
		fmt.Sprintf("FPS %.1f  frame %s", m.FPS, m.FrameTime.Round(time.Microsecond)),
		fmt.Sprintf("update %s  render %s", m.UpdateTime.Round(time.Microsecond), m.RenderTime.Round(time.Microsecond)),
		fmt.Sprintf("dt %.4f  failures %d", m.LastDelta, m.Failures),
	}
	for i, l := range lines {
		e.queue.Text(render.LayerDebug, l, 4, 4+float64(i)*14, textColor)
	}
}

// drawError 绘制错误画面；连错误画面都画不出来时视为渲染表面丢失，停止模拟
func (e *Engine) drawError(t render.Target, msg string) {
	err := Guard(func() error {
		t.Clear(errorColor)
		t.DrawText("ERROR", 8, 8, textColor)
		t.DrawText(msg, 8, 24, textColor)
		return nil
	})
	if err == nil || e.errorScreenLost {
		return
	}
	e.errorScreenLost = true
	e.log.Error("error screen could not be drawn", "err", err)
	if e.fatal == nil {
		e.fatal = fmt.Errorf("error screen: %w: %w", ErrFatal, err)
	}
}
