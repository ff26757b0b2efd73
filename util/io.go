package util

import "io"

// DefaultBufSize is the standard buffer size for network I/O (32 KiB).
const DefaultBufSize = 32 * 1024

// CloseQuietly closes every non-nil closer, discarding errors.  Used on
// teardown paths where a close failure adds nothing to the error already
// being handled.
func CloseQuietly(closers ...io.Closer) {
	for _, c := range closers {
		if c == nil {
			continue
		}
		c.Close() //nolint:errcheck
	}
}
