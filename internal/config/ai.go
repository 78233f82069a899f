package config

// GeminiModels defines which Gemini models to use for the planner tasks
type GeminiModels struct {
	// CutPlan turns an analysis request into a candidate cut spec
	CutPlan string `json:"cutPlan"`

	// SegmentPlan turns a segment description into a candidate definition
	SegmentPlan string `json:"segmentPlan"`

	// Chat answers capability questions and generic conversation
	Chat string `json:"chat"`
}

// AIConfig holds all planner AI configuration. The planner only proposes
// candidate specs; the engine stays the sole validity authority, so a
// missing key degrades to the deterministic mock planner.
type AIConfig struct {
	APIKey    string       `json:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs"`
}

// DefaultAIConfig returns the default planner configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  getEnvOrDefault("GEMINI_API_KEY", ""),
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Models: GeminiModels{
			CutPlan:     getEnvOrDefault("GEMINI_MODEL_CUT", "gemini-2.0-flash"),
			SegmentPlan: getEnvOrDefault("GEMINI_MODEL_SEGMENT", "gemini-2.0-flash"),
			Chat:        getEnvOrDefault("GEMINI_MODEL_CHAT", "gemini-2.0-flash"),
		},
		TimeoutMS: 10000,
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}
