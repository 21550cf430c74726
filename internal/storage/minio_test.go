package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Leiguo924/landsat-dl/internal/model"
)

func TestNewMinIOClient_InvalidEndpoint(t *testing.T) {
	cfg := MinIOConfig{
		Endpoint:  "invalid-endpoint:port:scheme",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "test-bucket",
		UseSSL:    false,
	}

	_, err := NewMinIOClient(context.Background(), cfg)

	var storageErr *Error
	require.ErrorAs(t, err, &storageErr)
}

func TestNewMinIOClient_ConnectionRefused(t *testing.T) {
	cfg := MinIOConfig{
		Endpoint:  "localhost:12345",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "test-bucket",
		UseSSL:    false,
	}

	// minio.New() doesn't connect immediately, but BucketExists does.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := NewMinIOClient(ctx, cfg)

	assert.Error(t, err)
}

// startMinIO runs a throwaway MinIO server and returns its endpoint.
func startMinIO(t *testing.T, ctx context.Context) MinIOConfig {
	t.Helper()

	const (
		accessKey = "minioadmin"
		secretKey = "minioadmin"
	)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     accessKey,
				"MINIO_ROOT_PASSWORD": secretKey,
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/ready").WithPort("9000"),
		},
		Started: true,
	})
	require.NoError(t, err, "start minio container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	return MinIOConfig{
		Endpoint:  fmt.Sprintf("%s:%s", host, port.Port()),
		AccessKey: accessKey,
		SecretKey: secretKey,
		Bucket:    "landsat-test",
	}
}

func TestMinIOClient_PutExists_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg := startMinIO(t, ctx)

	client, err := NewMinIOClient(ctx, cfg)
	require.NoError(t, err)

	key := ObjectKey{Dataset: model.LandsatOTC2L1, PathRow: "042034", Filename: "scene_B4.TIF"}.Key()
	content := "band four"
	runID := model.RunID("01890c24-905b-7122-b170-b60814e6ee06")

	exists, err := client.Exists(ctx, key, int64(len(content)))
	require.NoError(t, err)
	require.False(t, exists, "object should not exist before upload")

	require.NoError(t, client.Put(ctx, key, strings.NewReader(content), int64(len(content)), runID))

	exists, err = client.Exists(ctx, key, int64(len(content)))
	require.NoError(t, err)
	require.True(t, exists, "object should exist after upload")
	exists, _ = client.Exists(ctx, key, 1)
	assert.False(t, exists, "size mismatch must not count as existing")

	obj, err := client.client.GetObject(ctx, cfg.Bucket, key, minio.GetObjectOptions{})
	require.NoError(t, err)
	defer obj.Close()

	data, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	info, err := client.client.StatObject(ctx, cfg.Bucket, key, minio.StatObjectOptions{})
	require.NoError(t, err)
	assert.Equal(t, runID.String(), info.UserMetadata[metadataRunID])
}
