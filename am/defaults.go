package am

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Predictor defaults mirror the sentence/token SRL setup
	v.SetDefault("predictor.context_kind", "Sentence")
	v.SetDefault("predictor.child_kind", "Token")
	v.SetDefault("predictor.batch_size", 4)
	v.SetDefault("predictor.pad_id", 0)
	v.SetDefault("predictor.workers", 1)
	v.SetDefault("predictor.model_calls_per_second", 0.0) // unthrottled

	// Logging defaults
	v.SetDefault("logging.json", false)
}
