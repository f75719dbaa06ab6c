package api

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) ListObjectsV2(_ context.Context, _ *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for key := range f.objects {
		out.Contents = append(out.Contents, s3types.Object{Key: aws.String(key)})
	}
	return out, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data := f.objects[aws.ToString(in.Key)]
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
	}, nil
}

func TestRemoteManagerSyncFolder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.jpg"), []byte("local"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.jpg"), []byte("old"), 0o644))

	client := &fakeS3{objects: map[string][]byte{
		"keep.jpg":        []byte("remote"),
		"new.png":         []byte("png-bytes"),
		"nested/skip.jpg": []byte("nested"),
		"doc.pdf":         []byte("pdf"),
	}}
	r := newRemoteManager(client, "bucket", dir)

	require.NoError(t, r.SyncFolder(context.Background()))

	_, err := os.Stat(filepath.Join(dir, "stale.jpg"))
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(filepath.Join(dir, "new.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	// existing files are not re-downloaded
	data, err = os.ReadFile(filepath.Join(dir, "keep.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "local", string(data))

	_, err = os.Stat(filepath.Join(dir, "doc.pdf"))
	assert.True(t, os.IsNotExist(err))

	select {
	case <-r.Updated:
	default:
		t.Fatal("expected an update signal")
	}

	require.NoError(t, r.SyncFolder(context.Background()))
	select {
	case <-r.Updated:
		t.Fatal("unexpected update signal after no-op sync")
	default:
	}
}

func TestNewRemoteManagerRequiresBucket(t *testing.T) {
	_, err := NewRemoteManager(context.Background(), "", "", t.TempDir())
	assert.Error(t, err)
}
