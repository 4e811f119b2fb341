package config

const (
	defaultAPIListen = ":8081"

	defaultEmbeddingProvider   = "gemini"
	defaultEmbeddingModel      = "text-embedding-004"
	defaultEmbeddingDimensions = 768

	defaultGenerationProvider    = "gemini"
	defaultGenerationModel       = "gemini-2.0-flash"
	defaultGenerationTemperature = 0.7

	defaultRetrievalTopK = 3

	defaultEventstreamTopic = "kbase.events"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Generation: GenerationConfig{
			Provider:    defaultGenerationProvider,
			Model:       defaultGenerationModel,
			Temperature: defaultGenerationTemperature,
		},
		Retrieval: RetrievalConfig{
			TopK: defaultRetrievalTopK,
		},
		Eventstream: EventstreamConfig{
			Enabled: false,
			Topic:   defaultEventstreamTopic,
		},
	}
}
