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

// Package cloud reads and writes unitrom files kept in blob storage.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/gcsblob"
	"gocloud.dev/blob/s3blob"
	"gocloud.dev/gcp"
)

// ErrProvider is returned for a blob path whose provider is not
// supported.
var ErrProvider = errors.New("unsupported storage provider")

// defaultRegion is the AWS region used when AWS_REGION is not set.
const defaultRegion = "us-east-2"

// providers opens a bucket by name for each supported scheme.
var providers = map[string]func(ctx context.Context, name string) (*blob.Bucket, error){
	"file": fileBucket,
	"gs":   gsBucket,
	"s3":   s3Bucket,
}

// OpenBucket returns the bucket named by bucketName, which has the form
// 'provider://name'. provider is "file" for a local directory relative to
// the working directory, "gs" for Google Cloud Storage, or "s3" for AWS S3.
// Setup documents, case files, and vectors can be kept in any of them.
func OpenBucket(ctx context.Context, bucketName string) (*blob.Bucket, error) {
	u, err := url.Parse(bucketName)
	if err != nil {
		return nil, fmt.Errorf("cloud: parsing bucket %q: %w", bucketName, err)
	}
	open, ok := providers[u.Scheme]
	if !ok {
		return nil, fmt.Errorf("cloud: bucket %q: %w", bucketName, ErrProvider)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("cloud: bucket %q has no name", bucketName)
	}
	b, err := open(ctx, u.Hostname())
	if err != nil {
		return nil, fmt.Errorf("cloud: opening bucket %q: %w", bucketName, err)
	}
	return b, nil
}

func fileBucket(_ context.Context, dir string) (*blob.Bucket, error) {
	return fileblob.OpenBucket(dir, nil)
}

// gsBucket uses the application default credentials.
func gsBucket(ctx context.Context, name string) (*blob.Bucket, error) {
	creds, err := gcp.DefaultCredentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("finding Google Cloud credentials: %w", err)
	}
	c, err := gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
	if err != nil {
		return nil, fmt.Errorf("creating Google Cloud client: %w", err)
	}
	return gcsblob.OpenBucket(ctx, c, name, nil)
}

// s3Bucket takes its credentials from AWS_ACCESS_KEY_ID and
// AWS_SECRET_ACCESS_KEY.
func s3Bucket(ctx context.Context, name string) (*blob.Bucket, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = defaultRegion
	}
	s, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewEnvCredentials(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating AWS session: %w", err)
	}
	return s3blob.OpenBucket(ctx, s, name, nil)
}
