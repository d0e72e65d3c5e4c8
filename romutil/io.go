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

package romutil

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spatialmodel/unitrom/cloud"
)

// openInput opens a local file or, if path starts with file://, gs://,
// or s3://, a blob for reading.
func openInput(ctx context.Context, path string) (io.ReadCloser, error) {
	if cloud.IsBlob(path) {
		return cloud.Open(ctx, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("romutil: opening input: %v", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// createOutput creates a local file or blob for writing. If path is
// empty, stdout is returned instead. Output is only complete once the
// returned writer is closed.
func createOutput(ctx context.Context, path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	if cloud.IsBlob(path) {
		return cloud.Create(ctx, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("romutil: creating output: %v", err)
	}
	return f, nil
}
