package scenes

import (
	"fmt"
	"image/color"
	"math"

	"github.com/decker502/farmstead/pkg/components"
	"github.com/decker502/farmstead/pkg/ecs"
	"github.com/decker502/farmstead/pkg/render"
	"github.com/decker502/farmstead/pkg/systems"
	"github.com/decker502/farmstead/pkg/types"
)

// HUD 布局
const (
	hudPadding    = 6.0
	hudLineHeight = 14.0
	hudHeight     = 4*hudLineHeight + 2*hudPadding
	staminaBarW   = 120.0
	staminaBarH   = 8.0
)

var hudBackground = color.RGBA{A: 160}

// Render 提交本帧的绘制命令
// 场景自己减去摄像机偏移，提交的都是屏幕坐标
func (s *FarmScene) Render(q *render.Queue) {
	x0, y0, x1, y1 := s.visibleTiles()
	s.renderGround(q, x0, y0, x1, y1)
	s.renderSoil(q, x0, y0, x1, y1)
	s.renderSprites(q)
	s.renderFacing(q)
	s.renderHUD(q)
	if s.debug {
		s.renderDebug(q)
	}
}

// visibleTiles 摄像机视野覆盖的瓦片范围 [x0, x1) × [y0, y1)
func (s *FarmScene) visibleTiles() (x0, y0, x1, y1 int) {
	ts := float64(s.cfg.World.TileSize)
	sw, sh := float64(s.cfg.Engine.ScreenWidth), float64(s.cfg.Engine.ScreenHeight)
	x0 = max(0, int(math.Floor(s.cameraX/ts)))
	y0 = max(0, int(math.Floor(s.cameraY/ts)))
	x1 = min(s.cfg.World.Width, int(math.Ceil((s.cameraX+sw)/ts)))
	y1 = min(s.cfg.World.Height, int(math.Ceil((s.cameraY+sh)/ts)))
	return x0, y0, x1, y1
}

func (s *FarmScene) screen(x, y float64) (float64, float64) {
	return x - s.cameraX, y - s.cameraY
}

func (s *FarmScene) tileScreen(tx, ty int) (float64, float64) {
	ts := float64(s.cfg.World.TileSize)
	return s.screen(float64(tx)*ts, float64(ty)*ts)
}

func (s *FarmScene) renderGround(q *render.Queue, x0, y0, x1, y1 int) {
	for ty := y0; ty < y1; ty++ {
		for tx := x0; tx < x1; tx++ {
			sx, sy := s.tileScreen(tx, ty)
			if s.control.IsWater(tx, ty) {
				q.Sprite(render.LayerGround, "tile_water", sx, sy)
				continue
			}
			q.Sprite(render.LayerGround, "tile_grass", sx, sy)
		}
	}
}

// renderSoil 耕地、杂物与作物
func (s *FarmScene) renderSoil(q *render.Queue, x0, y0, x1, y1 int) {
	for _, t := range s.farming.Tiles() {
		if t.X < x0 || t.X >= x1 || t.Y < y0 || t.Y >= y1 {
			continue
		}
		sx, sy := s.tileScreen(t.X, t.Y)
		switch {
		case t.State == components.SoilUntilled:
		case t.WaterLevel > 0:
			q.Sprite(render.LayerSoil, "soil_watered", sx, sy)
		default:
			q.Sprite(render.LayerSoil, "soil_tilled", sx, sy)
		}
		switch t.Debris {
		case components.DebrisWood:
			q.Sprite(render.LayerObjects, "debris_wood", sx, sy)
		case components.DebrisStone:
			q.Sprite(render.LayerObjects, "debris_stone", sx, sy)
		}
	}
	for _, c := range s.farming.Crops() {
		if c.X < x0 || c.X >= x1 || c.Y < y0 || c.Y >= y1 {
			continue
		}
		sx, sy := s.tileScreen(c.X, c.Y)
		q.Sprite(render.LayerCrops, CropSprite(c), sx, sy)
	}
}

// CropSprite 作物的精灵 ID：crop_<类型>_<0..3>
// 0 为种子，3 为可收获，中间阶段均匀映射到 1、2
func CropSprite(c components.Crop) string {
	final := c.FinalStage()
	n := 0
	switch {
	case c.Ready():
		n = 3
	case c.Stage <= 0:
		n = 0
	case final <= 2:
		n = 1
	default:
		n = 1 + (c.Stage-1)*2/(final-1)
	}
	return fmt.Sprintf("crop_%s_%d", c.Type, n)
}

// renderSprites 带精灵的实体（玩家、NPC、特效），按实体 ID 顺序提交
func (s *FarmScene) renderSprites(q *render.Queue) {
	ids := ecs.GetEntitiesWith2[*components.PositionComponent, *components.SpriteComponent](s.em)
	for _, id := range ids {
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.em, id)
		sprite, _ := ecs.GetComponent[*components.SpriteComponent](s.em, id)
		if sprite.Hidden || sprite.SpriteID == "" {
			continue
		}
		sx, sy := s.screen(pos.X+sprite.OffsetX, pos.Y+sprite.OffsetY)
		q.Sprite(sprite.Layer, sprite.SpriteID, sx, sy)
	}
}

// renderFacing 高亮玩家面前的瓦片
func (s *FarmScene) renderFacing(q *render.Queue) {
	m, ok := ecs.GetComponent[*components.MovementComponent](s.em, s.player)
	if !ok {
		return
	}
	fx, fy := s.control.FacingTile(m)
	if fx < 0 || fy < 0 || fx >= s.cfg.World.Width || fy >= s.cfg.World.Height {
		return
	}
	ts := float64(s.cfg.World.TileSize)
	sx, sy := s.tileScreen(fx, fy)
	q.Rect(render.LayerEffects, sx, sy, ts, ts, render.Highlight, false)
}

func (s *FarmScene) renderHUD(q *render.Queue) {
	sw := float64(s.cfg.Engine.ScreenWidth)
	q.Rect(render.LayerUI, 0, 0, sw, hudHeight, hudBackground, true)

	for i, line := range s.HUDLines() {
		q.Text(render.LayerUI, line, hudPadding, hudPadding+float64(i)*hudLineHeight, render.White)
	}

	if _, p, _, ok := s.playerParts(); ok && p.MaxStamina > 0 {
		bx := sw - staminaBarW - hudPadding
		by := hudPadding + 4
		fill := render.Grass
		if p.Exhausted {
			fill = render.Warning
		}
		q.Rect(render.LayerUI, bx, by, staminaBarW, staminaBarH, render.Black, true)
		q.Rect(render.LayerUI, bx, by, staminaBarW*p.Stamina/p.MaxStamina, staminaBarH, fill, true)
		q.Rect(render.LayerUI, bx, by, staminaBarW, staminaBarH, render.White, false)
	}

	sh := float64(s.cfg.Engine.ScreenHeight)
	if s.notice != "" {
		q.Text(render.LayerUI, s.notice, hudPadding, sh-hudLineHeight-hudPadding, render.Highlight)
	}
	if s.control.Paused() {
		q.Text(render.LayerUI, "PAUSED", sw/2-18, sh/2, render.White)
	}
}

// HUDLines HUD 文字内容：日期时间、体力与收成、工具与种子、最近一次失败原因
func (s *FarmScene) HUDLines() []string {
	hour, minute := s.clock.Clock()
	lines := []string{
		fmt.Sprintf("Year %d  %s %d  %02d:%02d  %s",
			s.clock.Year(), s.clock.Season(), s.clock.Day(), hour%24, minute, s.clock.Weather()),
	}

	_, p, inv, ok := s.playerParts()
	if !ok {
		return lines
	}
	lines = append(lines, fmt.Sprintf("Stamina %d/%d  Gold %dg  Harvested %d (%dg)",
		int(p.Stamina), int(p.MaxStamina), p.Money, s.stats.Amount, s.stats.Value))

	tool := "none"
	if t, ok := inv.Tools[inv.SelectedTool]; ok {
		tool = fmt.Sprintf("%s L%d %d/%d", t.Type, t.Level, t.Durability, t.MaxDurability)
		if t.Type == types.ToolWateringCan {
			tool += fmt.Sprintf(" water %d/%d", t.WaterCharge, t.MaxWaterCharge)
		}
	}
	seed := "none"
	if inv.SelectedSeed != "" {
		seed = fmt.Sprintf("%s x%d", inv.SelectedSeed, inv.Seeds[inv.SelectedSeed])
	}
	lines = append(lines, fmt.Sprintf("Tool %s  Seed %s  Fertilizer %d", tool, seed, inv.Items[systems.ItemFertilizer]))

	if r := s.control.LastResult(); !r.OK && r.Reason != "" {
		lines = append(lines, fmt.Sprintf("Can't do that: %s", r.Reason))
	}
	return lines
}

// renderDebug 碰撞体轮廓：触发器黄色，角色白色，其余红色
func (s *FarmScene) renderDebug(q *render.Queue) {
	for _, b := range s.collision.Bodies() {
		c := render.Warning
		switch {
		case b.Trigger:
			c = render.Highlight
		case b.Layer.Intersects(types.LayerEntities):
			c = render.White
		}
		sx, sy := s.screen(b.Rect.X, b.Rect.Y)
		q.Rect(render.LayerDebug, sx, sy, b.Rect.W, b.Rect.H, c, false)
	}
}
