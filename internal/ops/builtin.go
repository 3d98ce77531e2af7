package ops

// Builtin assembles the full operation catalog. The registry is composed
// once at startup and injected where needed; nothing registers at runtime.
func Builtin() *Registry {
	return NewRegistry(
		Grayscale(),
		Invert(),
		BrightnessContrast(),
		GaussianBlur(),
		MedianBlur(),
		Bilateral(),
		Threshold(),
		AdaptiveThreshold(),
		Niblack(),
		Sauvola(),
		Erode(),
		Dilate(),
		Opening(),
		Closing(),
		Canny(),
		BlendOriginal(),
	)
}
