package loader

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// triangleGLTF renders a one-triangle document whose buffer is embedded as a data URI.
func triangleGLTF(sceneName string) string {
	data := floatBytes(0, 0, 0, 1, 0, 0, 0, 1, 0)
	idx := make([]byte, 6)
	binary.LittleEndian.PutUint16(idx[2:], 1)
	binary.LittleEndian.PutUint16(idx[4:], 2)
	data = append(data, idx...)

	return fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"name": %q, "nodes": [0]}],
  "nodes": [{"name": "tri", "mesh": 0, "translation": [0, 0, -5]}],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1, "material": 0}]}],
  "materials": [{"name": "Flat Red", "pbrMetallicRoughness": {"baseColorFactor": [1, 0, 0, 1]}}],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 0]},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "bufferViews": [
    {"buffer": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "buffers": [{"byteLength": %d, "uri": "data:application/octet-stream;base64,%s"}]
}`, sceneName, len(data), base64.StdEncoding.EncodeToString(data))
}

func writeScene(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoaderLoad(t *testing.T) {
	path := writeScene(t, t.TempDir(), "tri.gltf", triangleGLTF("demo"))
	l := NewLoader(BackendTypeGLTF, WithLogger(zaptest.NewLogger(t)))

	res, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", res.Name)
	assert.Empty(t, res.Warning)
	require.Len(t, res.Models, 1)

	m := res.Models[0]
	assert.Equal(t, "tri", m.Name())
	assert.Equal(t, model.DrawTriangles, m.Kind())
	assert.Equal(t, 3, m.IndexCount())
	assert.Equal(t, float32(-5), m.Transform()[14])
	assert.Equal(t, "flat_red", m.Material().Name())

	again, err := l.Load(path)
	require.NoError(t, err)
	assert.Same(t, res, again, "second load is served from the cache")
	assert.Same(t, res, l.Get(path))
	assert.Len(t, l.Results(), 1)
}

func TestLoaderLoadReader(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	res, err := l.LoadReader("stream", strings.NewReader(triangleGLTF("")))
	require.NoError(t, err)
	assert.Equal(t, "stream", res.Name)
	assert.Len(t, res.Models, 1)
	assert.Same(t, res, l.Get("stream"))

	_, err = l.LoadReader("broken", strings.NewReader("{not json"))
	assert.ErrorIs(t, err, ErrParse)
	assert.Nil(t, l.Get("broken"))
}

func TestLoaderLoadAll(t *testing.T) {
	dir := t.TempDir()
	first := writeScene(t, dir, "a.gltf", triangleGLTF("a"))
	second := writeScene(t, dir, "b.gltf", triangleGLTF("b"))
	missing := filepath.Join(dir, "missing.glb")
	unsupported := writeScene(t, dir, "c.obj", "")

	l := NewLoader(BackendTypeGLTF, WithWorkers(2), WithVerbose(true))
	results, err := l.LoadAll([]string{first, missing, second, unsupported})
	require.Len(t, results, 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "unsupported scene format")

	assert.Equal(t, "a", results[0].Name)
	assert.Nil(t, results[1])
	assert.Equal(t, "b", results[2].Name)
	assert.Nil(t, results[3])
	assert.Len(t, l.Results(), 2)
}

func TestLoaderWithResult(t *testing.T) {
	cached := &Result{Name: "prebuilt"}
	l := NewLoader(BackendTypeGLTF, WithResult("scene.gltf", cached))

	res, err := l.Load("scene.gltf")
	require.NoError(t, err)
	assert.Same(t, cached, res)
}

func TestImportWarnsWithoutScenes(t *testing.T) {
	content := strings.Replace(triangleGLTF("x"), `"scene": 0,
  "scenes": [{"name": "x", "nodes": [0]}],`, "", 1)
	path := writeScene(t, t.TempDir(), "noscene.gltf", content)

	res, err := NewLoader(BackendTypeGLTF).Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, res.Name)
	assert.Contains(t, res.Warning, "no scenes")
	assert.Len(t, res.Models, 1, "parentless nodes act as roots")
}

func TestLoaderProfiling(t *testing.T) {
	path := writeScene(t, t.TempDir(), "tri.gltf", triangleGLTF("p"))
	core, logs := observer.New(zap.InfoLevel)
	l := NewLoader(BackendTypeGLTF, WithLogger(zap.New(core)), WithProfiling(true))

	_, err := l.Load(path)
	require.NoError(t, err)
	_, err = l.Load(path)
	require.NoError(t, err)

	entries := logs.FilterMessage("load profiled").All()
	require.Len(t, entries, 1, "cache hits are not profiled")
	assert.Equal(t, int64(1), entries[0].ContextMap()["models"])
}
