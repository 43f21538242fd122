package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/godeepar/mapmesh"
	"github.com/godeepar/mapmesh/config"
	"github.com/godeepar/mapmesh/logger"
	"github.com/godeepar/mapmesh/stl"
)

// readDataset picks the reader by file extension.
func readDataset(path string) (*mapmesh.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return mapmesh.FeaturesFromSHP(path)
	case ".geojson", ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("[os.Open] in pkg [tools] encountered: %w", err)
		}
		defer f.Close()
		return mapmesh.FeaturesFromGEOJSON(f)
	}
	return nil, fmt.Errorf("unsupported input %s, want .geojson, .json or .shp", path)
}

func outputPath(o options) string {
	if o.out != "" {
		return o.out
	}
	return strings.TrimSuffix(o.in, filepath.Ext(o.in)) + ".stl"
}

func convertFile(o options, stdout io.Writer) error {
	start := time.Now()
	log := logger.Get()

	cfg := config.Default()
	if o.config != "" {
		var err error
		if cfg, err = config.Load(o.config); err != nil {
			return err
		}
	}

	ds, err := readDataset(o.in)
	if err != nil {
		return err
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(o.in), filepath.Ext(o.in))
	}

	res, err := mapmesh.Build(context.Background(), ds, cfg)
	if err != nil {
		return err
	}

	out := outputPath(o)
	if err := stl.WriteFile(out, res.Mesh, res.Header()); err != nil {
		return fmt.Errorf("[stl.WriteFile] in pkg [tools] encountered: %w", err)
	}

	if o.manifest {
		m := res.Manifest(cfg.Name, ds, cfg)
		if err := m.WriteFile(strings.TrimSuffix(out, filepath.Ext(out)) + ".json"); err != nil {
			return err
		}
	}

	log.Info("stl written",
		zap.String("path", out),
		zap.Int("triangles", res.Mesh.Len()),
		zap.Duration("elapsed", time.Since(start)))
	fmt.Fprintf(stdout, "%s: %d triangles, %d bytes, %s\n",
		out, res.Mesh.Len(), stl.EstimateSize(res.Mesh.Len()), res.Report.Validation.Summary())
	for _, w := range res.Report.Warnings {
		fmt.Fprintln(stdout, "warning:", w)
	}
	return nil
}
