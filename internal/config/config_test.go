package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configVars = []string{
	"M2M_BASE_URL", "M2M_USERNAME", "M2M_TOKEN",
	"LANDSATXPLORE_USERNAME", "LANDSATXPLORE_PASSWORD",
	"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET", "MINIO_USE_SSL",
}

// clearEnv blanks every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range configVars {
		t.Setenv(name, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "landsat-dl.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	config, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, DefaultM2MBaseURL, config.M2MBaseURL)
	assert.Equal(t, ".", config.OutputDir)
	assert.Equal(t, 300*time.Second, config.Timeout)
	assert.False(t, config.MirrorEnabled(), "mirror should be disabled without MINIO_ENDPOINT")
}

func TestLoad_CredentialFallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("LANDSATXPLORE_USERNAME", "legacy-user")
	t.Setenv("LANDSATXPLORE_PASSWORD", "legacy-token")

	config, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "legacy-user", config.Username)
	assert.Equal(t, "legacy-token", config.Token)

	t.Setenv("M2M_USERNAME", "user")
	t.Setenv("M2M_TOKEN", "token")

	config, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "user", config.Username, "M2M_* wins over legacy names")
	assert.Equal(t, "token", config.Token, "M2M_* wins over legacy names")
}

func TestRequireCredentials(t *testing.T) {
	tests := []struct {
		config Config
		want   string
	}{
		{Config{}, "M2M_USERNAME"},
		{Config{Username: "user"}, "M2M_TOKEN"},
		{Config{Username: "user", Token: "token"}, ""},
	}

	for _, tt := range tests {
		err := tt.config.RequireCredentials()
		if tt.want == "" {
			assert.NoError(t, err)
			continue
		}
		var missing *ErrMissingRequiredEnvVar
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, tt.want, missing.Name)
	}
}

func TestLoad_MinIORequiredVarsMissing(t *testing.T) {
	minioVars := []string{"MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET"}

	for _, configVar := range minioVars {
		t.Run(configVar, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("MINIO_ENDPOINT", "localhost:9000")
			for _, v := range minioVars {
				t.Setenv(v, "test-value")
			}
			t.Setenv(configVar, "")

			_, err := Load("")

			var missing *ErrMissingRequiredEnvVar
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, configVar, missing.Name)
			assert.EqualError(t, err, `required environment variable "`+configVar+`" is not set`)
		})
	}
}

func TestLoad_MinIO(t *testing.T) {
	clearEnv(t)
	testValue := "test-value"
	for _, name := range []string{"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET"} {
		t.Setenv(name, testValue)
	}
	t.Setenv("MINIO_USE_SSL", "true")

	config, err := Load("")

	require.NoError(t, err)
	assert.True(t, config.MirrorEnabled())
	assert.Equal(t, testValue, config.MinIOEndpoint)
	assert.Equal(t, testValue, config.MinIOAccessKey)
	assert.Equal(t, testValue, config.MinIOSecretKey)
	assert.Equal(t, testValue, config.MinIOBucket)
	assert.True(t, config.MinIOUseSSL)
}

func TestLoad_InvalidSSL(t *testing.T) {
	clearEnv(t)
	t.Setenv("MINIO_USE_SSL", "sometimes")

	_, err := Load("")

	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
[m2m]
base_url = "https://m2m.example/api/"
username = "file-user"
token = "file-token"

[download]
output = "/data/landsat"
timeout = 60

[minio]
endpoint = "minio:9000"
access_key = "ak"
secret_key = "sk"
bucket = "landsat-raw"
`)

	config, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "https://m2m.example/api/", config.M2MBaseURL)
	assert.Equal(t, "file-user", config.Username)
	assert.Equal(t, "file-token", config.Token)
	assert.Equal(t, "/data/landsat", config.OutputDir)
	assert.Equal(t, time.Minute, config.Timeout)
	assert.Equal(t, "landsat-raw", config.MinIOBucket)
	assert.True(t, config.MirrorEnabled())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
[m2m]
username = "file-user"
token = "file-token"
`)
	t.Setenv("M2M_USERNAME", "env-user")

	config, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "env-user", config.Username)
	assert.Equal(t, "file-token", config.Token)
}

func TestLoad_FileErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err, "missing file")

	_, err = Load(writeFile(t, "[m2m\nusername = "))
	assert.Error(t, err, "malformed file")
}
