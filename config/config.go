package config

// AppConfig bundles the configuration of all simulator components.
type AppConfig struct {
	SimConfig      *SimConfig
	WorkloadConfig *WorkloadConfig
}

func New() *AppConfig {
	return &AppConfig{
		SimConfig:      NewSimConfig(),
		WorkloadConfig: NewWorkloadConfig(),
	}
}
