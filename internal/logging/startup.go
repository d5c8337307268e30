package logging

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// StartupLogger collects run identity, bucket names, directories, and feature
// flags, then emits a single structured zerolog event summarising how the run
// was configured. This makes it easy to reconstruct a run from its logs alone.
type StartupLogger struct {
	name     string
	runID    string
	buckets  map[string]string
	dirs     map[string]string
	features map[string]bool
	config   map[string]string
}

// NewStartupLogger creates a StartupLogger for the given tool name.
func NewStartupLogger(name string) *StartupLogger {
	return &StartupLogger{
		name:     name,
		buckets:  make(map[string]string),
		dirs:     make(map[string]string),
		features: make(map[string]bool),
		config:   make(map[string]string),
	}
}

// RunID sets the unique identifier for this run.
func (s *StartupLogger) RunID(id string) *StartupLogger {
	s.runID = id
	return s
}

// Bucket registers an S3 bucket used by this run.
func (s *StartupLogger) Bucket(label, name string) *StartupLogger {
	s.buckets[label] = name
	return s
}

// Dir registers a local directory used by this run.
func (s *StartupLogger) Dir(label, path string) *StartupLogger {
	s.dirs[label] = path
	return s
}

// Feature registers a feature flag and whether it is enabled.
func (s *StartupLogger) Feature(name string, enabled bool) *StartupLogger {
	s.features[name] = enabled
	return s
}

// Config registers an arbitrary configuration value.
func (s *StartupLogger) Config(key, value string) *StartupLogger {
	s.config[key] = value
	return s
}

// Log emits the collected startup state as a single Info event.
func (s *StartupLogger) Log() {
	event := log.Info().
		Str("tool", s.name).
		Str("go_version", runtime.Version()).
		Time("started_at", time.Now().UTC())

	if s.runID != "" {
		event = event.Str("run_id", s.runID)
	}
	if len(s.buckets) > 0 {
		event = event.Dict("buckets", dictFromStrings(s.buckets))
	}
	if len(s.dirs) > 0 {
		event = event.Dict("dirs", dictFromStrings(s.dirs))
	}
	if len(s.features) > 0 {
		d := zerolog.Dict()
		for k, v := range s.features {
			d = d.Bool(k, v)
		}
		event = event.Dict("features", d)
	}
	if len(s.config) > 0 {
		event = event.Dict("config", dictFromStrings(s.config))
	}

	event.Msg("Startup complete")
}

func dictFromStrings(m map[string]string) *zerolog.Event {
	d := zerolog.Dict()
	for k, v := range m {
		d = d.Str(k, v)
	}
	return d
}
