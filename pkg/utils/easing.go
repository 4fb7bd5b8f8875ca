package utils

import "math"

// 缓动函数：输入进度 t，超出 [0, 1] 的部分先被截断，返回值同样落在 [0, 1]。
// 场景转场遮罩、加载进度条和镜头跟随共用。

// Clamp01 把 t 限制到 [0, 1]
func Clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

// EaseInOutCubic 三次方缓入缓出，两端慢中间快
func EaseInOutCubic(t float64) float64 {
	t = Clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseOutQuad 二次方缓出
func EaseOutQuad(t float64) float64 {
	t = Clamp01(t)
	return 1 - (1-t)*(1-t)
}

// Lerp 线性插值，t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Approach 以指数衰减方式把 current 拉向 target
//
// rate 为每秒收敛速度，deltaTime 为帧间隔；结果与帧率无关。
// 差值小于 epsilon 时直接返回 target，避免无限逼近。
func Approach(current, target, rate, deltaTime float64) float64 {
	const epsilon = 0.01
	if rate <= 0 {
		return target
	}
	next := Lerp(current, target, 1-math.Exp(-rate*deltaTime))
	if math.Abs(target-next) < epsilon {
		return target
	}
	return next
}
