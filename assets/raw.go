// SPDX-License-Identifier: EPL-2.0

package assets

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/ik5/soundbox/hw"
)

func width[S hw.Sample]() int {
	if uint64(^S(0)) > 0xFF {
		return 2
	}

	return 1
}

// WriteRaw writes clip as little-endian levels, one or two bytes each depending on S.
func WriteRaw[S hw.Sample](w io.Writer, clip []S) error {
	bw := bufio.NewWriter(w)

	var b [2]byte
	for _, v := range clip {
		binary.LittleEndian.PutUint16(b[:], uint16(v))
		if _, err := bw.Write(b[:width[S]()]); err != nil {
			return fmt.Errorf("write raw: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write raw: %w", err)
	}

	return nil
}

// ReadRaw is the inverse of WriteRaw.
func ReadRaw[S hw.Sample](r io.Reader) ([]S, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read raw: %w", err)
	}

	w := width[S]()
	if len(data)%w != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrRawLength, len(data))
	}

	out := make([]S, len(data)/w)
	for i := range out {
		if w == 1 {
			out[i] = S(data[i])
		} else {
			out[i] = S(binary.LittleEndian.Uint16(data[2*i:]))
		}
	}

	return out, nil
}

// LoadRaw reads a raw level file.
func LoadRaw[S hw.Sample](path string) ([]S, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return ReadRaw[S](f)
}
