package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "qdrant"
	}
	if cfg.VectorStore.QdrantAddr == "" {
		cfg.VectorStore.QdrantAddr = "localhost:6334" // 6333 is the http port
	}
	if cfg.VectorStore.Collection == "" {
		cfg.VectorStore.Collection = "hadiths_collection"
	}
	if cfg.VectorStore.Dimensions == 0 {
		cfg.VectorStore.Dimensions = 1024
	}
	if cfg.Embedding.URL == "" {
		cfg.Embedding.URL = "http://localhost:11434"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "mxbai-embed-large:latest"
	}
	if cfg.Embedding.TimeoutSecs == 0 {
		cfg.Embedding.TimeoutSecs = 60
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
	}
	if cfg.LLM.URL == "" {
		switch cfg.LLM.Provider {
		case "groq":
			cfg.LLM.URL = "https://api.groq.com/openai/v1/chat/completions"
		case "ollama":
			cfg.LLM.URL = "http://localhost:11434"
		}
	}
	if cfg.LLM.Model == "" {
		switch cfg.LLM.Provider {
		case "gemini":
			cfg.LLM.Model = "gemini-2.5-flash-lite"
		case "groq":
			cfg.LLM.Model = "meta-llama/llama-4-scout-17b-16e-instruct"
		default:
			cfg.LLM.Model = "gemma3:1b"
		}
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = 120
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.AnswerLimit == 0 {
		cfg.Search.AnswerLimit = 5
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Indexer.BatchSize == 0 {
		cfg.Indexer.BatchSize = 100
	}
}
