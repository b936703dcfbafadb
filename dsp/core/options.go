package core

// ProcessorConfig defines host-side processing settings for a plate processor.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int

	// SmoothingTime is the parameter smoothing time in seconds.
	SmoothingTime float64

	// MaxPredelay is the largest predelay in samples the processor must
	// support without reallocation.
	MaxPredelay int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the defaults of the plate plugin shell.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:    48000,
		BlockSize:     1024,
		SmoothingTime: 0.05,
		MaxPredelay:   4095,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithSmoothingTime sets the parameter smoothing time in seconds.
// Zero disables smoothing.
func WithSmoothingTime(seconds float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if seconds >= 0 {
			cfg.SmoothingTime = seconds
		}
	}
}

// WithMaxPredelay sets the largest supported predelay in samples.
func WithMaxPredelay(samples int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if samples > 0 {
			cfg.MaxPredelay = samples
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
