package game

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io/fs"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"

	"github.com/decker502/farmstead/pkg/logging"
	"github.com/decker502/farmstead/pkg/utils"
)

// loadConcurrency 同时解码的图片数
const loadConcurrency = 4

// fallbackCell 占位棋盘格的单格边长
const fallbackCell = 8

// ErrLoadInProgress 上一次异步加载尚未结束
var ErrLoadInProgress = errors.New("resource load already in progress")

// Sprite 精灵图片及其在图片中的区域
type Sprite struct {
	Image *ebiten.Image
	Frame image.Rectangle
}

// decoded 后台解码完成、等待主线程转换的图片
type decoded struct {
	id  string
	img image.Image
}

// ResourceManager is responsible for centralized management of sprite assets.
//
// 资源清单（resources.yaml）把精灵 ID 映射到 fs.FS 内的图片文件或生成的色块。
// LoadGroupsAsync 在 errgroup 管理的 goroutine 中读取和解码图片，
// 解码结果放入互斥锁保护的完成列表；Poll 在更新阶段把它们转换为 ebiten 图片。
// 后台 goroutine 不接触任何游戏状态。
//
// GetSprite 永不失败：未知 ID 返回品红/黑色棋盘格占位图，并只警告一次。
//
// Usage:
//
//	rm := NewResourceManager(assetsFS)
//	if err := rm.LoadResourceConfig("assets/resources.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	rm.LoadGroupsAsync(ctx, "farm")
//	// 每帧：
//	rm.Poll()
type ResourceManager struct {
	fsys   fs.FS
	config *ResourceConfig

	sprites  map[string]*ebiten.Image // 精灵 ID -> 图片（仅主线程访问）
	fallback *ebiten.Image
	warned   map[string]bool

	// 以下字段在后台 goroutine 与主线程之间共享
	mu        sync.Mutex
	completed []decoded
	loading   bool
	loadErr   error

	total  int // 本次加载的图片总数
	polled int // 已转换的数量
	log    *log.Logger
}

// NewResourceManager 创建资源管理器
//
// 参数：
//   - fsys: 资源文件系统（嵌入资源或 os.DirFS），可为 nil（仅生成色块）
func NewResourceManager(fsys fs.FS) *ResourceManager {
	return &ResourceManager{
		fsys:    fsys,
		sprites: make(map[string]*ebiten.Image),
		warned:  make(map[string]bool),
		log:     logging.For("ResourceManager"),
	}
}

// LoadResourceConfig 从资源文件系统读取资源清单
func (rm *ResourceManager) LoadResourceConfig(configPath string) error {
	if rm.fsys == nil {
		return fmt.Errorf("failed to read resource config %s: no filesystem", configPath)
	}
	data, err := fs.ReadFile(rm.fsys, configPath)
	if err != nil {
		return fmt.Errorf("failed to read resource config %s: %w", configPath, err)
	}
	cfg, err := ParseResourceConfig(data)
	if err != nil {
		return fmt.Errorf("%s: %w", configPath, err)
	}
	rm.config = cfg
	return nil
}

// SetResourceConfig 直接设置资源清单
func (rm *ResourceManager) SetResourceConfig(cfg *ResourceConfig) {
	rm.config = cfg
}

// LoadGroupsAsync 在后台加载指定分组的全部精灵
//
// 分组不存在时立即返回错误，不启动任何加载。
// 单张图片失败会取消其余解码；错误通过 Err 获取。
func (rm *ResourceManager) LoadGroupsAsync(ctx context.Context, groups ...string) error {
	if rm.config == nil {
		return fmt.Errorf("resource config not loaded - call LoadResourceConfig first")
	}

	var images []ImageResource
	for _, name := range groups {
		group, ok := rm.config.Groups[name]
		if !ok {
			if hint := utils.Suggest(name, rm.config.GroupNames()); hint != "" {
				return fmt.Errorf("resource group not found: %s (did you mean %s?)", name, hint)
			}
			return fmt.Errorf("resource group not found: %s", name)
		}
		images = append(images, group.Images...)
	}

	rm.mu.Lock()
	if rm.loading {
		rm.mu.Unlock()
		return ErrLoadInProgress
	}
	rm.loading = true
	rm.loadErr = nil
	rm.mu.Unlock()

	rm.total = len(images)
	rm.polled = 0
	rm.log.Info("loading sprites", "groups", groups, "count", len(images))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	basePath := rm.config.BasePath

	go func() {
		for _, res := range images {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				img, err := rm.decode(basePath, res)
				if err != nil {
					return err
				}
				rm.mu.Lock()
				rm.completed = append(rm.completed, decoded{id: res.ID, img: img})
				rm.mu.Unlock()
				return nil
			})
		}
		err := g.Wait()

		rm.mu.Lock()
		rm.loadErr = err
		rm.loading = false
		rm.mu.Unlock()
	}()
	return nil
}

// decode 读取或生成一张图片（在后台 goroutine 中运行）
func (rm *ResourceManager) decode(basePath string, res ImageResource) (image.Image, error) {
	if res.Color != "" {
		c, err := parseHexColor(res.Color)
		if err != nil {
			return nil, fmt.Errorf("sprite %s: %w", res.ID, err)
		}
		w, h := res.size()
		return solidTile(w, h, c), nil
	}

	if rm.fsys == nil {
		return nil, fmt.Errorf("sprite %s: no filesystem", res.ID)
	}
	full := buildFullPath(basePath, res.Path)
	data, err := fs.ReadFile(rm.fsys, full)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", full, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", full, err)
	}
	return img, nil
}

// Poll 把后台解码完成的图片转换为 ebiten 图片，返回本次处理的数量
func (rm *ResourceManager) Poll() int {
	rm.mu.Lock()
	batch := rm.completed
	rm.completed = nil
	rm.mu.Unlock()

	for _, d := range batch {
		rm.sprites[d.id] = ebiten.NewImageFromImage(d.img)
		delete(rm.warned, d.id)
	}
	rm.polled += len(batch)
	return len(batch)
}

// Done 后台加载已结束且结果已全部取走
func (rm *ResourceManager) Done() bool {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return !rm.loading && len(rm.completed) == 0
}

// Err 返回最近一次加载的错误
func (rm *ResourceManager) Err() error {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.loadErr
}

// Progress 返回加载进度 0..1
func (rm *ResourceManager) Progress() float64 {
	if rm.total == 0 {
		return 1
	}
	return float64(rm.polled) / float64(rm.total)
}

// RegisterImage 同步注册一张图片（生成的精灵、测试）
func (rm *ResourceManager) RegisterImage(id string, img image.Image) {
	rm.sprites[id] = ebiten.NewImageFromImage(img)
	delete(rm.warned, id)
}

// HasSprite 精灵是否已加载
func (rm *ResourceManager) HasSprite(id string) bool {
	_, ok := rm.sprites[id]
	return ok
}

// IDs 返回已加载的精灵 ID（有序）
func (rm *ResourceManager) IDs() []string {
	ids := make([]string, 0, len(rm.sprites))
	for id := range rm.sprites {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// GetSprite 返回精灵；未知 ID 返回棋盘格占位图
func (rm *ResourceManager) GetSprite(id string) Sprite {
	img := rm.SpriteImage(id)
	return Sprite{Image: img, Frame: img.Bounds()}
}

// SpriteImage 实现 render.SpriteSource
func (rm *ResourceManager) SpriteImage(id string) *ebiten.Image {
	if img, ok := rm.sprites[id]; ok {
		return img
	}
	if !rm.warned[id] {
		rm.warned[id] = true
		if hint := utils.Suggest(id, rm.IDs()); hint != "" {
			rm.log.Warn("unknown sprite, using placeholder", "sprite", id, "didYouMean", hint)
		} else {
			rm.log.Warn("unknown sprite, using placeholder", "sprite", id)
		}
	}
	if rm.fallback == nil {
		rm.fallback = ebiten.NewImageFromImage(checkerboard(defaultSpriteSize, fallbackCell))
	}
	return rm.fallback
}

// checkerboard 生成品红/黑色棋盘格
func checkerboard(size, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	magenta := color.RGBA{R: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.SetRGBA(x, y, magenta)
			} else {
				img.SetRGBA(x, y, black)
			}
		}
	}
	return img
}

// solidTile 生成带 1 像素深色描边的色块
func solidTile(w, h int, c color.NRGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	if w > 2 && h > 2 {
		edge := color.NRGBA{R: c.R * 3 / 4, G: c.G * 3 / 4, B: c.B * 3 / 4, A: c.A}
		for x := 0; x < w; x++ {
			img.Set(x, 0, edge)
			img.Set(x, h-1, edge)
		}
		for y := 0; y < h; y++ {
			img.Set(0, y, edge)
			img.Set(w-1, y, edge)
		}
	}
	return img
}
