package bench

import (
	"context"
	"errors"
	"io"

	"github.com/golang/glog"

	"sdlogger/protocol"
)

// maxLine bounds a status line; longer input is discarded up to the next LF
const maxLine = 64

// readStatus splits bytes from r into lines and forwards parsed status lines
// until ctx is done. out is closed on return.
//
// tarm/serial reads with VMIN=0, so a read timeout on an idle line comes back
// as (0, io.EOF); that is retried, not treated as the end of the stream.
func readStatus(ctx context.Context, r io.Reader, out chan<- protocol.Status) error {
	defer close(out)

	var (
		buf  [128]byte
		line []byte
		skip bool
	)
	for {
		if ctx.Err() != nil {
			return nil
		}
		n, err := r.Read(buf[:])
		for _, c := range buf[:n] {
			if c != '\n' {
				if len(line) < maxLine {
					line = append(line, c)
				} else {
					skip = true
				}
				continue
			}
			if !skip {
				st, perr := protocol.ParseStatus(string(line))
				if perr != nil {
					glog.V(2).Infof("ignoring line %q", line)
				} else {
					select {
					case out <- st:
					case <-ctx.Done():
						return nil
					}
				}
			}
			line = line[:0]
			skip = false
		}
		if err != nil {
			if ctx.Err() != nil || readTimeout(n, err) {
				continue
			}
			return err
		}
	}
}

// readTimeout reports whether a serial Read result is an idle timeout
func readTimeout(n int, err error) bool {
	return n == 0 && errors.Is(err, io.EOF)
}
