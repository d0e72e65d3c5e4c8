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
	"errors"
	"io/ioutil"
	"os"
	"testing"
)

func TestBlobRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir(".", "blobtest")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	ctx := context.Background()
	path := "file://" + dir + "/cases/out.tsv"
	if !IsBlob(path) {
		t.Fatalf("%s should be a blob", path)
	}
	w, err := Create(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("1\t2\n")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ioutil.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if string(b) != "1\t2\n" {
		t.Errorf("have %q", b)
	}

	if _, err := Open(ctx, "file://"+dir+"/missing.tsv"); err == nil {
		t.Error("missing blob should fail")
	}
}

func TestSplitPath(t *testing.T) {
	bucket, key, err := splitPath("s3://data/runs/a.json")
	if err != nil {
		t.Fatal(err)
	}
	if bucket != "s3://data" || key != "runs/a.json" {
		t.Errorf("have %s %s", bucket, key)
	}
	if _, _, err := splitPath("gs://data"); err == nil {
		t.Error("path without key should fail")
	}
	if IsBlob("testdata/a.json") {
		t.Error("local path is not a blob")
	}
}

func TestOpenBucket(t *testing.T) {
	ctx := context.Background()
	if _, err := OpenBucket(ctx, "ftp://data"); !errors.Is(err, ErrProvider) {
		t.Errorf("error: have %v, want %v", err, ErrProvider)
	}
	if _, err := OpenBucket(ctx, "file://"); err == nil || errors.Is(err, ErrProvider) {
		t.Errorf("bucket without a name: %v", err)
	}
	if _, err := OpenBucket(ctx, "file://no-such-bucket-dir"); err == nil {
		t.Error("missing directory should fail")
	}
	dir, err := ioutil.TempDir(".", "buckettest")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	b, err := OpenBucket(ctx, "file://"+dir)
	if err != nil {
		t.Fatal(err)
	}
	b.Close()
}
