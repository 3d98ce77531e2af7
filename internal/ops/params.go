package ops

func intParam(params map[string]interface{}, name string, fallback int) int {
	if v, ok := params[name]; ok {
		return toInt(v, fallback)
	}
	return fallback
}

func floatParam(params map[string]interface{}, name string, fallback float64) float64 {
	if v, ok := params[name]; ok {
		return toFloat(v, fallback)
	}
	return fallback
}

func boolParam(params map[string]interface{}, name string, fallback bool) bool {
	if v, ok := params[name].(bool); ok {
		return v
	}
	return fallback
}

func enumParam(params map[string]interface{}, name string, fallback string) string {
	if v, ok := params[name].(string); ok {
		return v
	}
	return fallback
}
