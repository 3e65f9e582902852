package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestProfilerSpans(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewProfiler(zap.New(core))

	span := p.Start("a.gltf")
	time.Sleep(2 * time.Millisecond)
	first := span.End(zap.Int("models", 3))
	second := p.Start("b.gltf").End()

	loads, total, slowest := p.Stats()
	assert.Equal(t, 2, loads)
	assert.Equal(t, first+second, total)
	assert.Equal(t, max(first, second), slowest)
	assert.GreaterOrEqual(t, first, 2*time.Millisecond)

	entries := logs.FilterMessage("load profiled").All()
	require.Len(t, entries, 2)
	fields := entries[0].ContextMap()
	assert.Equal(t, "a.gltf", fields["name"])
	assert.Equal(t, int64(3), fields["models"])
}

func TestNewProfilerNilLogger(t *testing.T) {
	p := NewProfiler(nil)
	p.Start("x").End()
	loads, _, _ := p.Stats()
	assert.Equal(t, 1, loads)
}
