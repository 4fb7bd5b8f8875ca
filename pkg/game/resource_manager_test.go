package game

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

// encodeTestPNG creates a simple w x h blue PNG for testing purposes.
func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	blue := color.RGBA{B: 255, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, blue)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

const testManifest = `
version: "1.0"
base_path: images
groups:
  farm:
    images:
      - id: player_down_0
        path: player/down_0
      - id: soil_tilled
        color: "#785434"
      - id: crop_turnip_0
        color: "#66cc66"
        w: 16
        h: 16
  broken:
    images:
      - id: missing
        path: nowhere/missing
`

func newTestFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"resources.yaml":          {Data: []byte(testManifest)},
		"images/player/down_0.png": {Data: encodeTestPNG(t, 10, 12)},
	}
}

// waitLoaded 轮询直到后台加载结束
func waitLoaded(t *testing.T, rm *ResourceManager) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !rm.Done() {
		rm.Poll()
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for async load")
		}
		time.Sleep(time.Millisecond)
	}
	rm.Poll()
}

// TestResourceManagerAsyncLoad 异步加载后所有精灵可用
func TestResourceManagerAsyncLoad(t *testing.T) {
	rm := NewResourceManager(newTestFS(t))
	if err := rm.LoadResourceConfig("resources.yaml"); err != nil {
		t.Fatalf("LoadResourceConfig failed: %v", err)
	}
	if err := rm.LoadGroupsAsync(context.Background(), "farm"); err != nil {
		t.Fatalf("LoadGroupsAsync failed: %v", err)
	}
	waitLoaded(t, rm)

	if err := rm.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if rm.Progress() != 1 {
		t.Errorf("Progress = %v, want 1", rm.Progress())
	}

	tests := []struct {
		id   string
		w, h int
	}{
		{"player_down_0", 10, 12},
		{"soil_tilled", 32, 32},
		{"crop_turnip_0", 16, 16},
	}
	for _, tt := range tests {
		if !rm.HasSprite(tt.id) {
			t.Errorf("sprite %s not loaded", tt.id)
			continue
		}
		s := rm.GetSprite(tt.id)
		if s.Frame.Dx() != tt.w || s.Frame.Dy() != tt.h {
			t.Errorf("sprite %s size = %dx%d, want %dx%d", tt.id, s.Frame.Dx(), s.Frame.Dy(), tt.w, tt.h)
		}
	}
}

// TestResourceManagerMissingFile 缺失文件通过 Err 报告
func TestResourceManagerMissingFile(t *testing.T) {
	rm := NewResourceManager(newTestFS(t))
	if err := rm.LoadResourceConfig("resources.yaml"); err != nil {
		t.Fatalf("LoadResourceConfig failed: %v", err)
	}
	if err := rm.LoadGroupsAsync(context.Background(), "broken"); err != nil {
		t.Fatalf("LoadGroupsAsync failed: %v", err)
	}
	waitLoaded(t, rm)

	err := rm.Err()
	if err == nil {
		t.Fatal("Expected error for missing image")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist, got %v", err)
	}
	if rm.HasSprite("missing") {
		t.Error("Missing sprite should not be registered")
	}
}

// TestResourceManagerUnknownGroup 未知分组立即失败并给出提示
func TestResourceManagerUnknownGroup(t *testing.T) {
	rm := NewResourceManager(newTestFS(t))
	if err := rm.LoadResourceConfig("resources.yaml"); err != nil {
		t.Fatalf("LoadResourceConfig failed: %v", err)
	}
	err := rm.LoadGroupsAsync(context.Background(), "frm")
	if err == nil {
		t.Fatal("Expected error for unknown group")
	}
	if !strings.Contains(err.Error(), "did you mean farm") {
		t.Errorf("Expected suggestion in error, got %v", err)
	}
	if !rm.Done() {
		t.Error("No load should be in flight")
	}
}

// TestResourceManagerFallback 未知精灵返回同一张棋盘格占位图
func TestResourceManagerFallback(t *testing.T) {
	rm := NewResourceManager(nil)

	s := rm.GetSprite("does_not_exist")
	if s.Image == nil {
		t.Fatal("GetSprite must never return a nil image")
	}
	if s.Frame.Dx() != defaultSpriteSize {
		t.Errorf("Fallback size = %d, want %d", s.Frame.Dx(), defaultSpriteSize)
	}
	if rm.SpriteImage("other") != s.Image {
		t.Error("Fallback image should be shared")
	}

	rm.RegisterImage("does_not_exist", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if rm.SpriteImage("does_not_exist") == s.Image {
		t.Error("Registered image should replace the fallback")
	}
}

// TestCheckerboard 棋盘格颜色交替
func TestCheckerboard(t *testing.T) {
	img := checkerboard(16, 8)
	a := img.RGBAAt(0, 0)
	b := img.RGBAAt(8, 0)
	c := img.RGBAAt(8, 8)
	if a != (color.RGBA{R: 255, B: 255, A: 255}) {
		t.Errorf("cell (0,0) = %v, want magenta", a)
	}
	if b != (color.RGBA{A: 255}) {
		t.Errorf("cell (1,0) = %v, want black", b)
	}
	if c != a {
		t.Errorf("cell (1,1) = %v, want magenta", c)
	}
}

// TestParseResourceConfigValidation 清单校验
func TestParseResourceConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "both sources",
			yaml:    "groups:\n  g:\n    images:\n      - {id: a, path: x, color: \"#000000\"}\n",
			wantErr: "exactly one",
		},
		{
			name:    "bad color",
			yaml:    "groups:\n  g:\n    images:\n      - {id: a, color: \"#12\"}\n",
			wantErr: "bad color",
		},
		{
			name:    "duplicate id",
			yaml:    "groups:\n  g:\n    images:\n      - {id: a, color: \"#000000\"}\n  h:\n    images:\n      - {id: a, color: \"#000000\"}\n",
			wantErr: "declared in both",
		},
		{
			name: "valid",
			yaml: "groups:\n  g:\n    images:\n      - {id: a, color: \"#00000080\"}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResourceConfig([]byte(tt.yaml))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
