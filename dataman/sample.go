package main

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/godeepar/mapmesh"
	"github.com/godeepar/mapmesh/config"
	"github.com/godeepar/mapmesh/logger"
	"github.com/godeepar/mapmesh/stl"
)

// sampleHandler serves the built-in sample neighborhood: as GeoJSON with
// get=collection, otherwise as STL built with the default config.
func sampleHandler(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	w.Header().Set("X-Request-Id", id)

	raw, err := mapmesh.SampleGEOJSON()
	if err != nil {
		fail(w, id, err)
		return
	}

	switch r.URL.Query().Get("get") {
	case "collection":
		logger.Get().Info("sample collection requested", zap.String("id", id))
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write(raw)
		return
	case "", "stl":
	default:
		http.Error(w, "get must be collection or stl", http.StatusBadRequest)
		return
	}

	cfg := config.Default()
	cfg.Name = "sample"
	res, ds, err := convert(r.Context(), raw, cfg)
	if err != nil {
		fail(w, id, err)
		return
	}
	out, err := stl.Encode(res.Mesh, res.Header())
	if err != nil {
		fail(w, id, err)
		return
	}

	m := res.Manifest(cfg.Name, ds, cfg)
	m.ID = id
	recent.Put(m)

	w.Header().Set("Content-Type", "application/sla")
	w.Header().Set("X-Triangles", strconv.Itoa(res.Mesh.Len()))
	w.Write(out)

	counter.Incr("sample")
	logger.Get().Info("sample built", zap.String("id", id), zap.Int("bytes", len(out)))
}
