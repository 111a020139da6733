package config

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		Model: ModelConfig{
			BaseURL:   "https://api.openai.com/v1",
			Model:     "gpt-4o-mini",
			TimeoutMS: 30000,
		},
		TTS: TTSConfig{
			Endpoint:  "127.0.0.1:9000",
			TimeoutMS: 15000,
		},
		ASR: ASRConfig{
			Endpoint:         "127.0.0.1:9090",
			Model:            "",
			ListenWindowMS:   8000,
			CollectTimeoutMS: 20000,
		},
		Audio: AudioConfig{
			Input:    "default",
			Fallback: "default",
		},
		Forms: FormsConfig{},
		Dialogue: DialogueConfig{
			Language: "en",
		},
		Feedback: FeedbackConfig{
			Enable:  true,
			Backend: "terminal",
		},
	}
}
