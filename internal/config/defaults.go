package config

// DefaultReruns is the number of extra passes when an output does not say.
// One rerun is enough for a table of contents to settle.
const DefaultReruns = 1

// ApplyDefaults fills unset fields.
func ApplyDefaults(cfg *Config) {
	for i := range cfg.Outputs {
		if cfg.Outputs[i].Reruns == nil {
			n := DefaultReruns
			cfg.Outputs[i].Reruns = &n
		}
	}
}
