package utils

// SafeSlice 截取前 max 个元素，max <= 0 时返回全部
func SafeSlice[T any](slice []T, max int) []T {
	if max <= 0 || len(slice) < max {
		return slice
	}
	return slice[:max]
}
