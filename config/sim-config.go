package config

// SimConfig holds the memory-manager defaults for a simulation run.
type SimConfig struct {
	TotalMemory int
	Strategy    string
}

func NewSimConfig() *SimConfig {
	return &SimConfig{
		TotalMemory: 1024,
		Strategy:    "first-fit",
	}
}

// WorkloadConfig holds the process-generator defaults.
type WorkloadConfig struct {
	MinSize int
	MaxSize int
	Count   int
	Span    float64
	Pattern string
	Seed    int64
}

func NewWorkloadConfig() *WorkloadConfig {
	return &WorkloadConfig{
		MinSize: 16,
		MaxSize: 256,
		Count:   20,
		Span:    60,
		Pattern: "uniform",
		Seed:    0,
	}
}
