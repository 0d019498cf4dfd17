package common

// WorldToWindow converts normalized device coordinates in [-1, 1] to window pixel coordinates
// in [0, width] x [0, height].
//
// Parameters:
//   - x, y: the normalized device coordinates
//   - width, height: the window size in pixels
//
// Returns:
//   - float32, float32: the window pixel coordinates
func WorldToWindow(x, y, width, height float32) (float32, float32) {
	return (x + 1) / 2 * width, (y + 1) / 2 * height
}

// WindowToWorld converts window pixel coordinates in [0, width] x [0, height] to normalized
// device coordinates in [-1, 1]. It is the inverse of WorldToWindow.
//
// Parameters:
//   - x, y: the window pixel coordinates
//   - width, height: the window size in pixels
//
// Returns:
//   - float32, float32: the normalized device coordinates
func WindowToWorld(x, y, width, height float32) (float32, float32) {
	return x/width*2 - 1, y/height*2 - 1
}
