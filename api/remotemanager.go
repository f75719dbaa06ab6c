package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/aouyang1/photoslideshow/util"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	mapset "github.com/deckarep/golang-set/v2"
)

const (
	remoteCheckInterval = time.Hour
	remoteSyncTimeout   = 30 * time.Minute
)

type s3API interface {
	s3.ListObjectsV2APIClient
	manager.DownloadAPIClient
}

// RemoteManager mirrors the image objects of an S3 bucket into the assets
// directory.
type RemoteManager struct {
	client s3API

	s3Bucket   string
	outputPath string

	Updated chan bool
}

func NewRemoteManager(ctx context.Context, profile, bucket, outputPath string) (*RemoteManager, error) {
	if bucket == "" {
		return nil, errors.New("no s3 bucket provided in environment variable DPF_S3_BUCKET")
	}

	var opts []func(*config.LoadOptions) error
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	ctxCfg, cancelCfg := context.WithTimeout(ctx, 3*time.Second)
	cfg, err := config.LoadDefaultConfig(ctxCfg, opts...)
	cancelCfg()
	if err != nil {
		return nil, fmt.Errorf("unable to load aws config, %w", err)
	}

	return newRemoteManager(s3.NewFromConfig(cfg), bucket, outputPath), nil
}

func newRemoteManager(client s3API, bucket, outputPath string) *RemoteManager {
	return &RemoteManager{
		client:     client,
		s3Bucket:   bucket,
		outputPath: outputPath,
		Updated:    make(chan bool, 1),
	}
}

func (r *RemoteManager) DownloadObject(ctx context.Context, name string) error {
	downloader := manager.NewDownloader(r.client)

	f, err := os.Create(filepath.Join(r.outputPath, name))
	if err != nil {
		return fmt.Errorf("unable to create file for s3 download, %s, %w", name, err)
	}
	defer f.Close()

	if _, err := downloader.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(r.s3Bucket),
		Key:    aws.String(name),
	}); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("unable to download object from s3, %s, %w", name, err)
	}
	return nil
}

func (r *RemoteManager) getLocalFiles() (mapset.Set[string], error) {
	entries, err := os.ReadDir(r.outputPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read directory, %s, %w", r.outputPath, err)
	}

	localFiles := mapset.NewSet[string]()
	for entry := range slices.Values(entries) {
		name := entry.Name()
		if entry.IsDir() || !util.IsSupportedImage(name) {
			continue
		}
		localFiles.Add(name)
	}
	return localFiles, nil
}

func (r *RemoteManager) getRemoteFiles(ctx context.Context) (mapset.Set[string], error) {
	remoteFiles := mapset.NewSet[string]()
	paginator := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.s3Bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to list s3 objects, %w", err)
		}
		for object := range slices.Values(page.Contents) {
			name := aws.ToString(object.Key)
			// nested keys would escape the flat assets directory
			if filepath.Base(name) != name || !util.IsSupportedImage(name) {
				continue
			}
			remoteFiles.Add(name)
		}
	}

	if remoteFiles.Cardinality() == 0 {
		slog.Info("no remote files found", "bucket", r.s3Bucket)
	}
	return remoteFiles, nil
}

// SyncFolder downloads new bucket images and removes local images that are
// no longer in the bucket. It signals Updated when anything changed.
func (r *RemoteManager) SyncFolder(ctx context.Context) error {
	if err := os.MkdirAll(r.outputPath, 0o755); err != nil {
		return fmt.Errorf("failed to create assets directory: %w", err)
	}

	localFiles, err := r.getLocalFiles()
	if err != nil {
		return err
	}

	remoteFiles, err := r.getRemoteFiles(ctx)
	if err != nil {
		return err
	}

	toDelete := localFiles.Difference(remoteFiles).ToSlice()
	toDownload := remoteFiles.Difference(localFiles).ToSlice()
	slices.Sort(toDelete)
	slices.Sort(toDownload)

	changed := false
	if len(toDelete) > 0 {
		slog.Info("deleting local files", "count", len(toDelete), "names", toDelete)
		for name := range slices.Values(toDelete) {
			if err := os.Remove(filepath.Join(r.outputPath, name)); err != nil {
				slog.Warn("unable to remove local file", "name", name, "error", err)
				continue
			}
			changed = true
		}
	}
	if len(toDownload) > 0 {
		slog.Info("adding files", "count", len(toDownload), "names", toDownload)
		for name := range slices.Values(toDownload) {
			if err := r.DownloadObject(ctx, name); err != nil {
				slog.Warn("error while downloading s3 object", "name", name, "error", err)
				continue
			}
			changed = true
		}
	}

	if changed {
		select {
		case r.Updated <- true:
		default:
			// a pending signal already covers this change
		}
	}
	return nil
}

func (r *RemoteManager) Run(ctx context.Context) {
	ticker := time.NewTicker(remoteCheckInterval)
	defer ticker.Stop()

	for {
		syncCtx, cancel := context.WithTimeout(ctx, remoteSyncTimeout)
		if err := r.SyncFolder(syncCtx); err != nil {
			slog.Warn("error while syncing with remote", "error", err)
		}
		cancel()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
