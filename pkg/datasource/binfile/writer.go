package binfile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/peter-kozarec/acs/pkg/acs"
)

// Write drains src into w as little-endian float64 records and returns the record count.
func Write(w io.Writer, src acs.Source) (int, error) {
	bw := bufio.NewWriter(w)

	count := 0
	for {
		x, err := src.Next()
		if errors.Is(err, acs.ErrEof) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("unable to read sample %d: %w", count+1, err)
		}
		if err := binary.Write(bw, binary.LittleEndian, x); err != nil {
			return count, fmt.Errorf("unable to write record %d: %w", count+1, err)
		}
		count++
	}

	if err := bw.Flush(); err != nil {
		return count, fmt.Errorf("unable to flush records: %w", err)
	}
	return count, nil
}

// WriteFile writes src to path, removing the file again when anything fails.
func WriteFile(path string, src acs.Source) (int, error) {
	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return 0, fmt.Errorf("unable to create %q: %w", path, err)
	}

	count, err := Write(f, src)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("unable to close %q: %w", path, closeErr)
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, err
	}
	return count, nil
}
