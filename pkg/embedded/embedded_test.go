package embedded

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"assets/resources.yaml":   {Data: []byte("version: \"1.0\"\n")},
		"assets/images/grass.png": {Data: []byte{0x89, 'P', 'N', 'G'}},
		"other/readme.txt":        {Data: []byte("x")},
	}
}

// reset 恢复未初始化状态，避免影响其他测试
func reset(t *testing.T) {
	t.Cleanup(func() {
		assetsFS = nil
		initialized = false
	})
}

// TestNotInitialized 未初始化时所有访问都失败
func TestNotInitialized(t *testing.T) {
	reset(t)
	Init(nil)

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false")
	}
	if _, err := ReadFile("assets/resources.yaml"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ReadFile error = %v", err)
	}
	if Exists("assets/resources.yaml") {
		t.Error("Exists() should be false before Init()")
	}
	if _, err := Assets(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Assets error = %v", err)
	}
}

func TestReadFile(t *testing.T) {
	reset(t)
	Init(testFS())

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"标准路径", "assets/resources.yaml", false},
		{"./ 前缀", "./assets/resources.yaml", false},
		{"未知前缀", "other/readme.txt", true},
		{"不存在", "assets/missing.yaml", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}

	if !Exists("assets/images/grass.png") || Exists("assets/images/none.png") {
		t.Error("Exists() returned unexpected results")
	}
}

// TestAssetsSub 子文件系统以 assets/ 为根
func TestAssetsSub(t *testing.T) {
	reset(t)
	Init(testFS())

	sub, err := Assets()
	if err != nil {
		t.Fatalf("Assets: %v", err)
	}
	if _, err := fs.Stat(sub, "resources.yaml"); err != nil {
		t.Errorf("resources.yaml not found in sub FS: %v", err)
	}
}
