package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	// GCP
	ProjectID        string
	VertexAIRegion   string
	SubjectBucket    string
	SnapshotBucket   string
	RunCollection    string
	RenderWorkflowID string
	WorkflowLocation string

	// Generation tuning. Conservative defaults pending real-world tuning.
	MaxAttempts    int
	Concurrency    int
	SectionTimeout time.Duration

	// Ingest
	IngestWorkers  int
	VocabularyPath string

	// Paths
	WorkDir string
	LogFile string
}

// Load reads configuration from environment variables, applying defaults
// where unset. It never fails; validation of required values is left to
// the services that need them (remote mode needs GCP settings, local mode
// does not).
func Load() Config {
	return Config{
		ProjectID:        GetEnv("PROJECT_ID", ""),
		VertexAIRegion:   GetEnv("VERTEX_AI_REGION", "europe-west1"),
		SubjectBucket:    GetEnv("SUBJECT_DOCUMENTS_BUCKET", ""),
		SnapshotBucket:   GetEnv("RUN_SNAPSHOTS_BUCKET", ""),
		RunCollection:    GetEnv("FIRESTORE_RUN_COLLECTION", "runs"),
		RenderWorkflowID: GetEnv("RENDER_WORKFLOW_ID", "report-render"),
		WorkflowLocation: GetEnv("WORKFLOW_LOCATION", "europe-west1"),

		MaxAttempts:    getEnvInt("MENTORFLOW_MAX_ATTEMPTS", 3),
		Concurrency:    getEnvInt("MENTORFLOW_CONCURRENCY", 4),
		SectionTimeout: getEnvDuration("MENTORFLOW_SECTION_TIMEOUT", 120*time.Second),

		IngestWorkers:  getEnvInt("MENTORFLOW_INGEST_WORKERS", 8),
		VocabularyPath: GetEnv("MENTORFLOW_VOCABULARY", ""),

		WorkDir: GetEnv("MENTORFLOW_WORK_DIR", "working_dir"),
		LogFile: GetEnv("MENTORFLOW_LOG_FILE", "app.log"),
	}
}

// GetEnv reads an environment variable or returns a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		// Bare numbers are treated as seconds.
		if secs, serr := strconv.Atoi(raw); serr == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	if d <= 0 {
		return fallback
	}
	return d
}

// ValidateRemote checks the settings required to retrieve documents from
// the remote subject store and hand off to the render workflow.
func (c Config) ValidateRemote() error {
	if c.ProjectID == "" {
		return fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	if c.SubjectBucket == "" {
		return fmt.Errorf("SUBJECT_DOCUMENTS_BUCKET environment variable must be set")
	}
	return nil
}

// ValidateGeneration checks the settings required to call the generation
// engine.
func (c Config) ValidateGeneration() error {
	if c.ProjectID == "" {
		return fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	return nil
}
