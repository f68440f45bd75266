package minio

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/koligo/koligo/types"
	"github.com/minio/minio-go/v7"
	"golang.org/x/sync/errgroup"
)

const (
	BucketMessageImages  = "message-images"
	BucketTrackingPhotos = "tracking-photos"
)

type Minio struct {
	baseCtx        context.Context
	cleanupTimeout time.Duration
	publicURL      *url.URL
	client         *minio.Client
	errs           chan error
}

func New(ctx context.Context, client *minio.Client, publicURL *url.URL, cleanupTimeout time.Duration) *Minio {
	return &Minio{
		baseCtx:        ctx,
		cleanupTimeout: cleanupTimeout,
		publicURL:      publicURL,
		client:         client,
		errs:           make(chan error, 1),
	}
}

// Errs reports failures of background cleanups.
func (m *Minio) Errs() <-chan error {
	return m.errs
}

// ObjectURL is the public address of an object inside a read-only bucket.
func (m *Minio) ObjectURL(bucket, path string) string {
	return m.publicURL.JoinPath(bucket, path).String()
}

// UploadMany uploads all files concurrently.
// On failure the already uploaded ones are removed in background.
// The returned cleanup removes every uploaded file, use it to undo
// the uploads when the surrounding operation fails.
func (m *Minio) UploadMany(ctx context.Context, bucket string, files []types.Attachment) (func(), error) {
	if len(files) == 0 {
		return func() {}, nil
	}

	var (
		mu           sync.Mutex
		cleanupFuncs []func()
	)

	g, gctx := errgroup.WithContext(ctx)

	for _, file := range files {
		g.Go(func() error {
			cleanup, err := m.Upload(gctx, bucket, file)
			if err != nil {
				return fmt.Errorf("upload %s failed: %w", file.Path, err)
			}

			mu.Lock()
			cleanupFuncs = append(cleanupFuncs, cleanup)
			mu.Unlock()
			return nil
		})
	}

	cleanup := func() {
		var wg sync.WaitGroup
		for _, fn := range cleanupFuncs {
			wg.Go(fn)
		}
		wg.Wait()
	}

	if err := g.Wait(); err != nil {
		go cleanup()
		return nil, fmt.Errorf("upload group failed: %w", err)
	}

	return cleanup, nil
}

func (m *Minio) Upload(ctx context.Context, bucket string, file types.Attachment) (func(), error) {
	info, err := m.client.PutObject(ctx, bucket, file.Path, file.Reader(), int64(file.FileSize), minio.PutObjectOptions{
		ContentType: file.ContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	return func() {
		ctx, cancel := context.WithTimeout(m.baseCtx, m.cleanupTimeout)
		defer cancel()

		err := m.client.RemoveObject(ctx, bucket, file.Path, minio.RemoveObjectOptions{
			VersionID: info.VersionID,
		})
		if err != nil {
			select {
			case m.errs <- fmt.Errorf("remove object %s: %w", file.Path, err):
			default:
			}
		}
	}, nil
}

// CreateReadOnlyBucket creates the bucket if missing
// and grants anonymous read access to its objects.
func (m *Minio) CreateReadOnlyBucket(ctx context.Context, bucket string) error {
	exists, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket exists: %w", err)
	}

	if !exists {
		err := m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": "*",
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, bucket)

	if err := m.client.SetBucketPolicy(ctx, bucket, policy); err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}

	return nil
}
