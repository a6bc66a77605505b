package binfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/exp/mmap"

	"github.com/peter-kozarec/acs/pkg/acs"
)

const recordSize = 8

// Source reads a file of little-endian float64 records through a memory mapping, front to
// back.
type Source struct {
	logger         *zap.Logger
	dataSourceName string
	reader         *mmap.ReaderAt
	buffer         [recordSize]byte
	idx            int64
}

func NewSource(logger *zap.Logger, dataSourceName string) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{
		logger:         logger,
		dataSourceName: dataSourceName,
	}
}

func (s *Source) Open() error {
	var err error
	s.reader, err = mmap.Open(s.dataSourceName)
	if err != nil {
		return fmt.Errorf("unable to open data source %q: %w", s.dataSourceName, err)
	}
	s.logger.Debug("binary source opened",
		zap.String("path", s.dataSourceName),
		zap.Int("bytes", s.reader.Len()))
	return nil
}

func (s *Source) Close() {
	if s.reader != nil {
		_ = s.reader.Close()
	}
}

func (s *Source) Next() (float64, error) {
	x, err := s.Read(s.idx)
	if err != nil {
		return 0, err
	}
	s.idx++
	return x, nil
}

// Read returns the record at index without moving the cursor.
func (s *Source) Read(index int64) (float64, error) {
	n, err := s.reader.ReadAt(s.buffer[:], index*recordSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("unable to read record %d: %w", index+1, err)
	}
	if n == 0 {
		return 0, acs.ErrEof
	}
	if n < recordSize {
		return 0, &acs.MalformedInputError{
			Position: int(index + 1),
			Input:    fmt.Sprintf("% x", s.buffer[:n]),
			Err:      fmt.Errorf("truncated record of %d bytes", n),
		}
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(s.buffer[:])), nil
}

func (s *Source) EntryCount() (int64, error) {
	fileInfo, err := os.Stat(s.dataSourceName)
	if err != nil {
		return 0, fmt.Errorf("unable to get data source %q stats: %w", s.dataSourceName, err)
	}

	totalSize := fileInfo.Size()
	if totalSize%recordSize != 0 {
		return 0, fmt.Errorf("file size %s is not a multiple of %d", strconv.FormatInt(totalSize, 10), recordSize)
	}
	return totalSize / recordSize, nil
}
