package llm

// ModelTier selects how much reasoning a generation call pays for.
// Script writing runs on the advanced tier; trend simulation and
// outreach drafting run on the standard tier.
type ModelTier string

const (
	// TierStandard handles trend simulation and outreach drafting
	TierStandard ModelTier = "standard"
	// TierAdvanced handles script writing
	TierAdvanced ModelTier = "advanced"
)

// Provider identifies an LLM backend
type Provider string

// ProviderGemini is the Google Gemini backend
const ProviderGemini Provider = "gemini"

// Config maps model tiers to provider model names
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the Gemini models each tier uses out of the box
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a tier, falling back to the
// standard tier when the requested one is not configured
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the config with one tier's model replaced
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	models := make(map[ModelTier]string, len(c.Models))
	for k, v := range c.Models {
		models[k] = v
	}
	models[tier] = model
	return &Config{Provider: c.Provider, Models: models}
}
