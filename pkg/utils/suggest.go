package utils

import (
	"slices"

	"github.com/agnivade/levenshtein"
)

// suggestLimit 根据候选名长度返回允许的最大编辑距离
func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// Suggest 返回与 name 编辑距离最近的候选名，用于 "did you mean" 提示
//
// 距离超出阈值或没有候选时返回空串；距离相同时取字典序较小者。
func Suggest(name string, candidates []string) string {
	best := ""
	bestDist := -1
	sorted := slices.Clone(candidates)
	slices.Sort(sorted)
	for _, cand := range sorted {
		if cand == name {
			return cand
		}
		dist := levenshtein.ComputeDistance(name, cand)
		if dist > suggestLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	return best
}
