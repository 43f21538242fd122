package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/godeepar/mapmesh"
	"github.com/godeepar/mapmesh/logger"
)

// writeSample writes the built-in sample neighborhood as GeoJSON.
func writeSample(path string) error {
	raw, err := mapmesh.SampleGEOJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("[os.WriteFile] in pkg [tools] encountered: %w", err)
	}
	logger.Get().Info("sample written", zap.String("path", path), zap.Int("bytes", len(raw)))
	return nil
}
