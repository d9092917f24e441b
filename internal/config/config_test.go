package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setIngestEnv(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_SECRET_NAME", "prod/drive-reader")
	t.Setenv("TARGET_S3_BUCKET", "raw-bucket")
	t.Setenv("DDB_TABLE_NAME", "file-state")
	t.Setenv("GLUE_JOB_NAME", "raw-to-refined")
}

func setRefineEnv(t *testing.T) {
	t.Setenv("RAW_BUCKET", "raw-bucket")
	t.Setenv("RAW_PREFIX", "raw")
	t.Setenv("REFINED_BUCKET", "refined-bucket")
	t.Setenv("REFINED_PREFIX", "refined")
}

func TestLoadIngest(t *testing.T) {
	setIngestEnv(t)
	t.Setenv("DRIVE_FOLDER_ID", "1AbCdEfG")
	t.Setenv("S3_PREFIX", "landing")

	cfg, err := LoadIngest()
	require.NoError(t, err)
	require.Equal(t, "prod/drive-reader", cfg.SecretName)
	require.Equal(t, "1AbCdEfG", cfg.DriveFolderID)
	require.Equal(t, "raw-bucket", cfg.TargetBucket)
	require.Equal(t, "landing", cfg.Prefix)
	require.Equal(t, "file-state", cfg.StateTable)
	require.Equal(t, "raw-to-refined", cfg.GlueJobName)
	require.NotEmpty(t, cfg.StagingDir)
}

func TestLoadIngestFolderDefaultsToRoot(t *testing.T) {
	setIngestEnv(t)
	t.Setenv("DRIVE_FOLDER_ID", "")

	cfg, err := LoadIngest()
	require.NoError(t, err)
	require.Empty(t, cfg.DriveFolderID)
}

func TestLoadIngestMissingRequired(t *testing.T) {
	setIngestEnv(t)
	t.Setenv("DDB_TABLE_NAME", "")

	_, err := LoadIngest()
	require.Error(t, err)

	var merr *ErrMissingEnv
	require.ErrorAs(t, err, &merr)
	require.Equal(t, "DDB_TABLE_NAME", merr.Key)
}

func TestLoadRefineDefaults(t *testing.T) {
	setRefineEnv(t)

	cfg, err := LoadRefine()
	require.NoError(t, err)
	require.Equal(t, "overwrite", cfg.WriteMode)
	require.True(t, cfg.Header)
	require.Equal(t, ',', cfg.Delimiter)
	require.True(t, cfg.SkipMissing)
	require.True(t, cfg.FailOnError)
	require.Empty(t, cfg.Datasets)
}

func TestLoadRefineOverrides(t *testing.T) {
	setRefineEnv(t)
	t.Setenv("WRITE_MODE", "append")
	t.Setenv("HEADER", "false")
	t.Setenv("DELIMITER", "|")
	t.Setenv("SKIP_MISSING", "no")
	t.Setenv("FAIL_JOB_ON_DATASET_FAILURE", "0")
	t.Setenv("DATASETS", "nh_ownership, nh_penalties ,")

	cfg, err := LoadRefine()
	require.NoError(t, err)
	require.Equal(t, "append", cfg.WriteMode)
	require.False(t, cfg.Header)
	require.Equal(t, '|', cfg.Delimiter)
	require.False(t, cfg.SkipMissing)
	require.False(t, cfg.FailOnError)
	require.Equal(t, []string{"nh_ownership", "nh_penalties"}, cfg.Datasets)
}

func TestLoadRefineRejectsBadWriteMode(t *testing.T) {
	setRefineEnv(t)
	t.Setenv("WRITE_MODE", "truncate")

	_, err := LoadRefine()
	require.ErrorContains(t, err, "WRITE_MODE")
}

func TestLoadRefineRejectsBadDelimiter(t *testing.T) {
	setRefineEnv(t)
	t.Setenv("DELIMITER", "||")

	_, err := LoadRefine()
	require.ErrorContains(t, err, "DELIMITER")
}

func TestLoadSQL(t *testing.T) {
	t.Setenv("SQL_BUCKET", "ops-bucket")
	t.Setenv("SQL_PREFIX", "athena/ddl")
	t.Setenv("ATHENA_DATABASE", "healthcare")
	t.Setenv("ATHENA_OUTPUT_S3", "s3://ops-bucket/athena-results/")

	cfg, err := LoadSQL()
	require.NoError(t, err)
	require.Equal(t, "ops-bucket", cfg.Bucket)
	require.Equal(t, "athena/ddl", cfg.Prefix)
	require.Equal(t, "healthcare", cfg.Database)
	require.Equal(t, "primary", cfg.Workgroup)
	require.Equal(t, "s3://ops-bucket/athena-results/", cfg.OutputS3)
	require.Equal(t, 3, cfg.PollSeconds)
	require.Equal(t, 600, cfg.MaxPolls)
}

func TestLoadSQLOverrides(t *testing.T) {
	t.Setenv("SQL_BUCKET", "ops-bucket")
	t.Setenv("SQL_PREFIX", "athena/ddl")
	t.Setenv("ATHENA_DATABASE", "healthcare")
	t.Setenv("ATHENA_OUTPUT_S3", "s3://ops-bucket/athena-results/")
	t.Setenv("ATHENA_WORKGROUP", "etl")
	t.Setenv("POLL_SECONDS", "2")
	t.Setenv("MAX_POLLS", "10")

	cfg, err := LoadSQL()
	require.NoError(t, err)
	require.Equal(t, "etl", cfg.Workgroup)
	require.Equal(t, 2, cfg.PollSeconds)
	require.Equal(t, 10, cfg.MaxPolls)
}

func TestLoadSQLRejectsBadInt(t *testing.T) {
	t.Setenv("SQL_BUCKET", "ops-bucket")
	t.Setenv("SQL_PREFIX", "athena/ddl")
	t.Setenv("ATHENA_DATABASE", "healthcare")
	t.Setenv("ATHENA_OUTPUT_S3", "s3://ops-bucket/athena-results/")
	t.Setenv("MAX_POLLS", "lots")

	_, err := LoadSQL()
	require.ErrorContains(t, err, "MAX_POLLS")
}
