package binfile

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/peter-kozarec/acs/pkg/acs"
)

func writeSeries(t *testing.T, data []float64) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "series.bin")
	count, err := WriteFile(path, acs.FromSlice(data))
	if err != nil {
		t.Fatal(err)
	}
	if count != len(data) {
		t.Fatalf("wrote %d records, want %d", count, len(data))
	}
	return path
}

func TestSource_Next(t *testing.T) {
	data := []float64{1.5, -2, math.Pi, 0, 1e300}
	path := writeSeries(t, data)

	s := NewSource(nil, path)
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for i, want := range data {
		got, err := s.Next()
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if got != want {
			t.Errorf("record %d = %v, want %v", i, got, want)
		}
	}
	if _, err := s.Next(); !errors.Is(err, acs.ErrEof) {
		t.Errorf("error = %v, want %v", err, acs.ErrEof)
	}
}

func TestSource_EntryCount(t *testing.T) {
	path := writeSeries(t, []float64{1, 2, 3})

	s := NewSource(nil, path)
	count, err := s.EntryCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("EntryCount() = %d, want 3", count)
	}
}

func TestSource_Truncated(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Write(&buf, acs.FromSlice([]float64{1, 2})); err != nil {
		t.Fatal(err)
	}
	buf.Write([]byte{0x01, 0x02, 0x03})

	path := filepath.Join(t.TempDir(), "truncated.bin")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	s := NewSource(nil, path)
	if _, err := s.EntryCount(); err == nil {
		t.Error("expected EntryCount() error for a partial record")
	}
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for i := 0; i < 2; i++ {
		if _, err := s.Next(); err != nil {
			t.Fatal(err)
		}
	}

	_, err := s.Next()
	var malformed *acs.MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want *acs.MalformedInputError", err)
	}
	if malformed.Position != 3 {
		t.Errorf("Position = %d, want 3", malformed.Position)
	}
}

func TestSource_Compute(t *testing.T) {
	path := writeSeries(t, []float64{1, 2, 3, 4})

	s := NewSource(nil, path)
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	res, err := acs.Compute(context.Background(), s, 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.N != 4 || res.Mean != 2.5 {
		t.Errorf("got %+v", res)
	}
}

func TestSource_OpenMissing(t *testing.T) {
	s := NewSource(nil, filepath.Join(t.TempDir(), "missing.bin"))
	if err := s.Open(); err == nil {
		t.Fatal("expected error")
	}
	s.Close()
}

func TestWriteFile_RemovesOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.bin")

	_, err := WriteFile(path, acs.FromSlice([]float64{1, math.NaN()}))
	if err != nil {
		t.Fatalf("NaN is a valid record: %v", err)
	}

	failing := &errSource{err: errors.New("boom")}
	if _, err := WriteFile(path, failing); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("stat error = %v, want file removed", err)
	}
}

type errSource struct {
	err error
}

func (s *errSource) Next() (float64, error) {
	return 0, s.err
}
