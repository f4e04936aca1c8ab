package tracing

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(Config{Enabled: false})
	require.NoError(t, err)
	require.False(t, p.Enabled())
	require.NotNil(t, p.Tracer(), "disabled provider must still hand out a usable tracer")
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_NoneExporter(t *testing.T) {
	p, err := NewProvider(Config{Enabled: true, Exporter: "none"})
	require.NoError(t, err)
	require.True(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), "bar.test")
	span.End()

	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "jaeger"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported exporter")
}

func TestNewProvider_FileExporterRequiresPath(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "file"})
	require.Error(t, err)
}

func TestFileExporter_WritesSpans(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "traces", "traces.jsonl")

	p, err := NewProvider(Config{Enabled: true, Exporter: "file", FilePath: path})
	require.NoError(t, err)

	_, span := p.Tracer().Start(context.Background(), SpanReconcile)
	span.End()

	require.NoError(t, p.Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	var record SpanRecord
	require.NoError(t, json.Unmarshal(data, &record))
	require.Equal(t, SpanReconcile, record.Name)
	require.NotEmpty(t, record.TraceID)
}
