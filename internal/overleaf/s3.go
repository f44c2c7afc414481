package overleaf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config carries the connection settings for an S3-compatible
// project store (MinIO in local development).
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Project stores one project's files as objects under
// "<project>/<path>" in a single bucket. Folders are zero-byte marker
// objects with a trailing slash, so empty folders survive listings.
type S3Project struct {
	client   *minio.Client
	bucket   string
	region   string
	project  string
	initOnce sync.Once
	initErr  error
}

// NewS3Project connects to the configured endpoint and binds the store
// to a single project prefix. The bucket is created lazily on first use.
func NewS3Project(cfg S3Config, project string) (*S3Project, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	project = strings.TrimSpace(project)
	if project == "" {
		return nil, fmt.Errorf("project name is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Project{
		client:  client,
		bucket:  bucket,
		region:  region,
		project: project,
	}, nil
}

func (p *S3Project) ensureBucket(ctx context.Context) error {
	if p == nil || p.client == nil {
		return fmt.Errorf("project store is nil")
	}
	p.initOnce.Do(func() {
		exists, err := p.client.BucketExists(ctx, p.bucket)
		if err != nil {
			p.initErr = err
			return
		}
		if exists {
			return
		}
		p.initErr = p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{Region: p.region})
	})
	return p.initErr
}

func (p *S3Project) key(path string) string {
	path = normalizePath(path)
	if path == "" {
		return p.project + "/"
	}
	return p.project + "/" + path
}

func (p *S3Project) Listdir(ctx context.Context, path string) ([]Entry, error) {
	if err := p.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}
	prefix := strings.TrimSuffix(p.key(path), "/") + "/"
	out := make([]Entry, 0, 16)
	for obj := range p.client.ListObjects(ctx, p.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		rest := strings.TrimPrefix(obj.Key, prefix)
		if rest == "" {
			continue
		}
		if strings.HasSuffix(rest, "/") {
			out = append(out, Entry{Name: strings.TrimSuffix(rest, "/"), IsDir: true})
			continue
		}
		out = append(out, Entry{Name: rest})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (p *S3Project) Exists(ctx context.Context, path string) (bool, error) {
	if normalizePath(path) == "" {
		return true, nil
	}
	if err := p.ensureBucket(ctx); err != nil {
		return false, fmt.Errorf("ensure bucket: %w", err)
	}
	key := p.key(path)
	if _, err := p.client.StatObject(ctx, p.bucket, key, minio.StatObjectOptions{}); err == nil {
		return true, nil
	}
	// A folder marker or any child object means the path is a folder.
	for obj := range p.client.ListObjects(ctx, p.bucket, minio.ListObjectsOptions{
		Prefix:  key + "/",
		MaxKeys: 1,
	}) {
		if obj.Err != nil {
			return false, obj.Err
		}
		return true, nil
	}
	return false, nil
}

func (p *S3Project) Read(ctx context.Context, path string) ([]byte, error) {
	if normalizePath(path) == "" {
		return nil, fmt.Errorf("path is required")
	}
	if err := p.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}
	obj, err := p.client.GetObject(ctx, p.bucket, p.key(path), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (p *S3Project) Write(ctx context.Context, path string, content []byte) error {
	if normalizePath(path) == "" {
		return fmt.Errorf("path is required")
	}
	if err := p.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	if content == nil {
		content = []byte{}
	}
	_, err := p.client.PutObject(ctx, p.bucket, p.key(path), bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	return err
}

func (p *S3Project) Mkdir(ctx context.Context, path string) error {
	if normalizePath(path) == "" {
		return nil
	}
	if err := p.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	// Marker objects for the folder and any missing parents.
	for dir := normalizePath(path); dir != ""; dir, _ = splitPath(dir) {
		key := p.project + "/" + dir + "/"
		if _, err := p.client.PutObject(ctx, p.bucket, key, bytes.NewReader(nil), 0, minio.PutObjectOptions{}); err != nil {
			return err
		}
	}
	return nil
}

func (p *S3Project) Remove(ctx context.Context, path string) error {
	if normalizePath(path) == "" {
		return fmt.Errorf("path is required")
	}
	if err := p.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	key := p.key(path)
	if _, err := p.client.StatObject(ctx, p.bucket, key, minio.StatObjectOptions{}); err == nil {
		return p.client.RemoveObject(ctx, p.bucket, key, minio.RemoveObjectOptions{})
	}
	// Folder: refuse unless empty, then drop the marker.
	empty := true
	found := false
	for obj := range p.client.ListObjects(ctx, p.bucket, minio.ListObjectsOptions{
		Prefix:    key + "/",
		Recursive: true,
	}) {
		if obj.Err != nil {
			return obj.Err
		}
		found = true
		if obj.Key != key+"/" {
			empty = false
			break
		}
	}
	if !found {
		return ErrNotFound
	}
	if !empty {
		return fmt.Errorf("folder %q is not empty", normalizePath(path))
	}
	return p.client.RemoveObject(ctx, p.bucket, key+"/", minio.RemoveObjectOptions{})
}
