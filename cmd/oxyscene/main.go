// oxyscene loads glTF/GLB scenes and prints the draw objects they flatten into.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-scene/engine/config"
	"github.com/Carmen-Shannon/oxy-scene/engine/imageio"
	"github.com/Carmen-Shannon/oxy-scene/engine/loader"
	"github.com/Carmen-Shannon/oxy-scene/engine/logger"
	"go.uber.org/zap"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] scene.gltf|scene.glb ...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(flags.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	flags.Apply(cfg)

	log := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	defer logger.Sync(log)

	codec := imageio.NewCodec(imageio.WithLogger(log))
	l := loader.NewLoader(loader.BackendTypeGLTF,
		loader.WithLogger(log),
		loader.WithCodec(codec),
		loader.WithVerbose(cfg.Loader.Verbose),
		loader.WithWorkers(cfg.Loader.Workers),
		loader.WithPreserveSourceTangents(cfg.Loader.PreserveSourceTangents),
		loader.WithFlipTextures(cfg.Loader.FlipTextures),
		loader.WithProfiling(cfg.Loader.Profile),
	)

	results, loadErr := l.LoadAll(flag.Args())
	for i, res := range results {
		if res == nil {
			continue
		}
		printResult(os.Stdout, flag.Arg(i), res)
		if cfg.Output.TextureDir != "" {
			dumpTextures(log, codec, cfg.Output.TextureDir, res)
		}
	}

	if loadErr != nil {
		log.Error("some scenes failed to load", zap.Error(loadErr))
		os.Exit(1)
	}
}

// printResult writes a human readable summary of one load.
func printResult(w io.Writer, path string, res *loader.Result) {
	fmt.Fprintf(w, "%s (%s): %d draw objects, %d textures\n", res.Name, path, len(res.Models), res.Uniforms.Len())
	if res.Warning != "" {
		fmt.Fprintf(w, "  warning: %s\n", res.Warning)
	}
	for _, m := range res.Models {
		mesh := m.Mesh()
		t := m.Transform()
		fmt.Fprintf(w, "  %s: %s, %d vertices, %d indices, radius %.3f, origin (%.3f, %.3f, %.3f)\n",
			m.Name(), m.Kind(), mesh.VertexCount(), m.IndexCount(), m.BoundingRadius(), t[12], t[13], t[14])
		if _, ok := m.Kind().Topology(); !ok {
			fmt.Fprintf(w, "    %s has no direct GPU topology\n", m.Kind())
		}
		fmt.Fprintf(w, "    material %s\n", m.Material().Name())
		for _, d := range m.Material().Defines() {
			fmt.Fprintf(w, "      #define %s\n", d)
		}
	}
}

// dumpTextures writes every registered 8-bit RGBA texture of res as a PNG into dir.
func dumpTextures(log *zap.Logger, codec imageio.Codec, dir string, res *loader.Result) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Error("failed to create texture directory", zap.String("dir", dir), zap.Error(err))
		return
	}

	prefix := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' {
			return '_'
		}
		return r
	}, res.Name)

	for _, name := range res.Uniforms.Names() {
		tex, ok := res.Uniforms.Get(name)
		if !ok {
			continue
		}
		s := tex.Staging
		if s.Channels != 4 || s.BitDepth != 8 {
			log.Debug("skipping texture dump", zap.String("uniform", name), zap.Uint32("channels", s.Channels), zap.Uint32("bit_depth", s.BitDepth))
			continue
		}
		path := filepath.Join(dir, prefix+"_"+name+".png")
		if codec.SaveRGBA8(path, s.Pixels, int(s.Width), int(s.Height)) {
			log.Info("texture written", zap.String("path", path))
		}
	}
}
