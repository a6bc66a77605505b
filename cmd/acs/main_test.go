package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/peter-kozarec/acs/pkg/acs"
	"github.com/peter-kozarec/acs/pkg/datasource/feed"
	"github.com/peter-kozarec/acs/pkg/report"
)

func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	app.Reader = strings.NewReader(stdin)

	err := app.RunContext(context.Background(), append([]string{"acs"}, args...))
	return out.String(), err
}

func writeText(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "series.dat")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const series = "1\n2\n3\n4\n"

const seriesReport = "for 4 data points\n" +
	"the mean is ... \t    2.50\n" +
	"the std_dev is ... \t    1.12\n" +
	"\n" +
	"  j (lag)   r[j] (autocorrelation)\n" +
	"\n" +
	"  1        0.333\n"

func TestApp_Text(t *testing.T) {
	path := writeText(t, series)

	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"file", "", []string{"--max-lag", "1", "text", path}},
		{"stdin", series, []string{"-k", "1", "text", "-"}},
		{"dev logging", "", []string{"-k", "1", "--log", "dev", "text", path}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runApp(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if got != seriesReport {
				t.Errorf("output =\n%s\nwant\n%s", got, seriesReport)
			}
		})
	}
}

func TestApp_JSON(t *testing.T) {
	path := writeText(t, series)

	got, err := runApp(t, "", "-k", "1", "--format", report.FormatJSON, "text", path)
	if err != nil {
		t.Fatal(err)
	}

	var doc struct {
		N    int `json:"n"`
		Lags []struct {
			Lag int `json:"lag"`
		} `json:"lags"`
	}
	if err := json.Unmarshal([]byte(got), &doc); err != nil {
		t.Fatalf("invalid json %q: %v", got, err)
	}
	if doc.N != 4 || len(doc.Lags) != 1 {
		t.Errorf("got %+v", doc)
	}
}

func TestApp_Errors(t *testing.T) {
	path := writeText(t, series)
	bad := writeText(t, "1\n2\nthree\n4\n")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"missing path", []string{"text"}, errMissingPath},
		{"invalid lag", []string{"-k", "0", "text", path}, acs.ErrInvalidParameter},
		{"short stream", []string{"-k", "4", "text", path}, acs.ErrInsufficientData},
		{"malformed line", []string{"-k", "1", "text", bad}, acs.ErrMalformedInput},
		{"unknown format", []string{"--format", "xml", "text", path}, report.ErrUnknownFormat},
		{"missing file", []string{"text", filepath.Join(t.TempDir(), "nope")}, os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runApp(t, "", tt.args...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if got != "" {
				t.Errorf("unexpected output %q", got)
			}
		})
	}
}

func TestApp_ConvertThenBinary(t *testing.T) {
	in := writeText(t, series)
	out := filepath.Join(t.TempDir(), "series.bin")

	msg, err := runApp(t, "", "convert", in, out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(msg, "4 records written") {
		t.Errorf("convert output = %q", msg)
	}

	got, err := runApp(t, "", "-k", "1", "binary", out)
	if err != nil {
		t.Fatal(err)
	}
	if got != seriesReport {
		t.Errorf("output =\n%s\nwant\n%s", got, seriesReport)
	}
}

func TestApp_DuckDB(t *testing.T) {
	got, err := runApp(t, "", "-k", "1", "duckdb",
		"--query", "SELECT x::DOUBLE FROM (VALUES (1, 1), (2, 2), (3, 3), (4, 4)) t(i, x) ORDER BY i")
	if err != nil {
		t.Fatal(err)
	}
	if got != seriesReport {
		t.Errorf("output =\n%s\nwant\n%s", got, seriesReport)
	}
}

func TestApp_Feed(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func(conn *websocket.Conn) {
			_ = conn.Close()
		}(conn)
		_ = feed.Publish(conn, []float64{1, 2, 3, 4}, true)
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	got, err := runApp(t, "", "-k", "1", "--timeout", "5s", "feed", "--url", url)
	if err != nil {
		t.Fatal(err)
	}
	if got != seriesReport {
		t.Errorf("output =\n%s\nwant\n%s", got, seriesReport)
	}
}
