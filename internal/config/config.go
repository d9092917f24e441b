// Package config loads pipeline settings from the environment, with
// an optional .env file for local runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type ErrMissingEnv struct {
	Key string
}

func (e *ErrMissingEnv) Error() string {
	return fmt.Sprintf("required environment variable %s is not set", e.Key)
}

type Ingest struct {
	AwsProfile     string
	SecretName     string
	DriveFolderID  string
	TargetBucket   string
	Prefix         string
	StateTable     string
	GlueJobName    string
	RouteRulesFile string
	StagingDir     string
}

type Refine struct {
	AwsProfile    string
	RawBucket     string
	RawPrefix     string
	RefinedBucket string
	RefinedPrefix string
	WriteMode     string
	Header        bool
	Delimiter     rune
	SkipMissing   bool
	FailOnError   bool
	Datasets      []string
}

type SQL struct {
	AwsProfile  string
	Bucket      string
	Prefix      string
	Database    string
	Workgroup   string
	OutputS3    string
	PollSeconds int
	MaxPolls    int
}

func LoadIngest() (*Ingest, error) {
	godotenv.Load()

	cfg := Ingest{
		AwsProfile:     getEnv("AWS_PROFILE", ""),
		DriveFolderID:  getEnv("DRIVE_FOLDER_ID", ""),
		Prefix:         getEnv("S3_PREFIX", ""),
		RouteRulesFile: getEnv("ROUTE_RULES_FILE", ""),
		StagingDir:     getEnv("STAGING_DIR", os.TempDir()),
	}

	var err error
	if cfg.SecretName, err = requireEnv("GOOGLE_SERVICE_ACCOUNT_SECRET_NAME"); err != nil {
		return nil, err
	}
	if cfg.TargetBucket, err = requireEnv("TARGET_S3_BUCKET"); err != nil {
		return nil, err
	}
	if cfg.StateTable, err = requireEnv("DDB_TABLE_NAME"); err != nil {
		return nil, err
	}
	if cfg.GlueJobName, err = requireEnv("GLUE_JOB_NAME"); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func LoadRefine() (*Refine, error) {
	godotenv.Load()

	cfg := Refine{
		AwsProfile:  getEnv("AWS_PROFILE", ""),
		WriteMode:   getEnv("WRITE_MODE", "overwrite"),
		Header:      getBool("HEADER", true),
		SkipMissing: getBool("SKIP_MISSING", true),
		FailOnError: getBool("FAIL_JOB_ON_DATASET_FAILURE", true),
	}

	var err error
	if cfg.RawBucket, err = requireEnv("RAW_BUCKET"); err != nil {
		return nil, err
	}
	if cfg.RawPrefix, err = requireEnv("RAW_PREFIX"); err != nil {
		return nil, err
	}
	if cfg.RefinedBucket, err = requireEnv("REFINED_BUCKET"); err != nil {
		return nil, err
	}
	if cfg.RefinedPrefix, err = requireEnv("REFINED_PREFIX"); err != nil {
		return nil, err
	}

	if cfg.WriteMode != "overwrite" && cfg.WriteMode != "append" {
		return nil, fmt.Errorf("WRITE_MODE must be overwrite or append, got %q", cfg.WriteMode)
	}

	delim := getEnv("DELIMITER", ",")
	runes := []rune(delim)
	if len(runes) != 1 {
		return nil, fmt.Errorf("DELIMITER must be a single character, got %q", delim)
	}
	cfg.Delimiter = runes[0]

	if datasets := getEnv("DATASETS", ""); datasets != "" {
		for _, name := range strings.Split(datasets, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				cfg.Datasets = append(cfg.Datasets, name)
			}
		}
	}

	return &cfg, nil
}

func LoadSQL() (*SQL, error) {
	godotenv.Load()

	cfg := SQL{
		AwsProfile: getEnv("AWS_PROFILE", ""),
		Workgroup:  getEnv("ATHENA_WORKGROUP", "primary"),
	}

	var err error
	if cfg.Bucket, err = requireEnv("SQL_BUCKET"); err != nil {
		return nil, err
	}
	if cfg.Prefix, err = requireEnv("SQL_PREFIX"); err != nil {
		return nil, err
	}
	if cfg.Database, err = requireEnv("ATHENA_DATABASE"); err != nil {
		return nil, err
	}
	if cfg.OutputS3, err = requireEnv("ATHENA_OUTPUT_S3"); err != nil {
		return nil, err
	}

	if cfg.PollSeconds, err = getInt("POLL_SECONDS", 3); err != nil {
		return nil, err
	}
	if cfg.MaxPolls, err = getInt("MAX_POLLS", 600); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", &ErrMissingEnv{Key: key}
	}
	return value, nil
}

func getBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return parsed, nil
}
