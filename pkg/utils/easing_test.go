package utils

import (
	"math"
	"testing"
)

func TestEaseInOutCubic(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点", 0, 0},
		{"中点", 0.5, 0.5},
		{"终点", 1, 1},
		{"四分之一", 0.25, 0.0625}, // 4 * 0.25^3
		{"负数截断", -1, 0},
		{"超出截断", 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EaseInOutCubic(tt.input); math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("EaseInOutCubic(%v) = %v, 期望 %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEaseOutQuad(t *testing.T) {
	if got := EaseOutQuad(0.5); math.Abs(got-0.75) > 0.001 {
		t.Errorf("EaseOutQuad(0.5) = %v, 期望 0.75", got)
	}
	// 缓出：前半段快于线性
	for p := 0.1; p < 0.5; p += 0.1 {
		if EaseOutQuad(p) <= p {
			t.Errorf("EaseOutQuad(%v) 应该大于线性值", p)
		}
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(10, 20, 0.25); got != 12.5 {
		t.Errorf("Lerp(10, 20, 0.25) = %v, 期望 12.5", got)
	}
}

// TestApproach 收敛与帧率无关，并最终精确到达目标
func TestApproach(t *testing.T) {
	oneStep := Approach(0, 100, 5, 0.2)
	twoSteps := Approach(Approach(0, 100, 5, 0.1), 100, 5, 0.1)
	if math.Abs(oneStep-twoSteps) > 1e-9 {
		t.Errorf("一步 %v 与两步 %v 应一致", oneStep, twoSteps)
	}

	v := 0.0
	for i := 0; i < 600; i++ {
		v = Approach(v, 100, 5, 1.0/60)
	}
	if v != 100 {
		t.Errorf("收敛结果 = %v, 期望 100", v)
	}

	if got := Approach(3, 7, 0, 0.1); got != 7 {
		t.Errorf("rate=0 应直接到达目标, got %v", got)
	}
}
