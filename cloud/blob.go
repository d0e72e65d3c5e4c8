/*
Copyright © 2019 the unitrom authors.
This file is part of unitrom.

unitrom is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

unitrom is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with unitrom.  If not, see <http://www.gnu.org/licenses/>.
*/

package cloud

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"gocloud.dev/blob"
)

// IsBlob returns whether path refers to a blob storage location
// rather than a local file.
func IsBlob(path string) bool {
	return strings.HasPrefix(path, "gs://") || strings.HasPrefix(path, "s3://") || strings.HasPrefix(path, "file://")
}

// splitPath splits a blob path such as "s3://bucket/dir/file.json" into
// the bucket name ("s3://bucket") and the key ("dir/file.json").
func splitPath(path string) (bucketName, key string, err error) {
	url, err := url.Parse(path)
	if err != nil {
		return "", "", fmt.Errorf("cloud: parsing blob path %q: %v", path, err)
	}
	key = strings.TrimPrefix(url.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("cloud: blob path %q has no key", path)
	}
	return url.Scheme + "://" + url.Host, key, nil
}

// blobReader closes its bucket along with the reader.
type blobReader struct {
	*blob.Reader
	bucket *blob.Bucket
}

func (r *blobReader) Close() error {
	err := r.Reader.Close()
	if err2 := r.bucket.Close(); err == nil {
		err = err2
	}
	return err
}

// blobWriter closes its bucket along with the writer. The blob is not
// written until Close returns.
type blobWriter struct {
	*blob.Writer
	bucket *blob.Bucket
	path   string
}

func (w *blobWriter) Close() error {
	err := w.Writer.Close()
	if err != nil {
		err = fmt.Errorf("cloud: writing blob %s: %v", w.path, err)
	}
	if err2 := w.bucket.Close(); err == nil {
		err = err2
	}
	return err
}

// Open opens the blob at path, which must be in the format
// 'provider://bucket/key', for reading.
func Open(ctx context.Context, path string) (io.ReadCloser, error) {
	bucketName, key, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	bucket, err := OpenBucket(ctx, bucketName)
	if err != nil {
		return nil, err
	}
	r, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		bucket.Close()
		return nil, fmt.Errorf("cloud: reading blob %s: %v", path, err)
	}
	return &blobReader{Reader: r, bucket: bucket}, nil
}

// Create creates the blob at path, which must be in the format
// 'provider://bucket/key', for writing. The blob is written when the
// returned writer is closed.
func Create(ctx context.Context, path string) (io.WriteCloser, error) {
	bucketName, key, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	bucket, err := OpenBucket(ctx, bucketName)
	if err != nil {
		return nil, err
	}
	w, err := bucket.NewWriter(ctx, key, &blob.WriterOptions{})
	if err != nil {
		bucket.Close()
		return nil, fmt.Errorf("cloud: creating writer for blob %s: %v", path, err)
	}
	return &blobWriter{Writer: w, bucket: bucket, path: path}, nil
}
