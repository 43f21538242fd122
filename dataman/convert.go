package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/godeepar/mapmesh"
	"github.com/godeepar/mapmesh/config"
	"github.com/godeepar/mapmesh/logger"
	"github.com/godeepar/mapmesh/stl"
)

// requestError carries the status a failed conversion answers with.
type requestError struct {
	status int
	err    error
}

func (e *requestError) Error() string {
	return e.err.Error()
}

func (e *requestError) Unwrap() error {
	return e.err
}

func badRequest(err error) error {
	return &requestError{status: http.StatusBadRequest, err: err}
}

func unprocessable(err error) error {
	return &requestError{status: http.StatusUnprocessableEntity, err: err}
}

// dataHandler converts a multipart upload: "info" holds the YAML config and
// may be left out, "file" holds the GeoJSON.
func dataHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := uuid.NewString()
	w.Header().Set("X-Request-Id", id)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "POST a multipart form with info and file parts", http.StatusMethodNotAllowed)
		return
	}

	info, data, err := readParts(http.MaxBytesReader(w, r.Body, maxUpload), r.Header.Get("Content-Type"))
	if err != nil {
		fail(w, id, err)
		return
	}

	cfg := config.Default()
	if len(info) > 0 {
		if cfg, err = config.Parse(info); err != nil {
			fail(w, id, badRequest(err))
			return
		}
	}
	res, ds, err := convert(r.Context(), data, cfg)
	if err != nil {
		fail(w, id, err)
		return
	}

	out, err := stl.Encode(res.Mesh, res.Header())
	if err != nil {
		fail(w, id, unprocessable(err))
		return
	}

	name := cfg.Name
	if name == "" {
		name = id
	}
	m := res.Manifest(name, ds, cfg)
	m.ID = id
	recent.Put(m)

	w.Header().Set("Content-Type", "application/sla")
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.Header().Set("X-Triangles", strconv.Itoa(res.Mesh.Len()))
	w.Write(out)

	counter.Incr("geojson")
	logger.Get().Info("converted",
		zap.String("id", id),
		zap.Int("bytes", len(out)),
		zap.Int("triangles", res.Mesh.Len()),
		zap.Int("warnings", len(res.Report.Warnings)),
		zap.Int64("ms", time.Since(start).Milliseconds()))
}

func readParts(body io.Reader, contentType string) (info, data []byte, err error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, nil, badRequest(fmt.Errorf("[mime.ParseMediaType] in pkg [dataman] encountered: %w", err))
	}
	if mediaType != "multipart/form-data" {
		return nil, nil, badRequest(fmt.Errorf("expected multipart/form-data, got %s", mediaType))
	}

	reader := multipart.NewReader(body, params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, badRequest(fmt.Errorf("[multipart.NextPart] in pkg [dataman] encountered: %w", err))
		}

		switch part.FormName() {
		case "info":
			info, err = io.ReadAll(part)
		case "file":
			data, err = io.ReadAll(part)
		}
		part.Close()
		if err != nil {
			return nil, nil, badRequest(fmt.Errorf("[io.ReadAll] in pkg [dataman] encountered: %w", err))
		}
	}

	if len(data) == 0 {
		return nil, nil, badRequest(errors.New("missing file part"))
	}
	return info, data, nil
}

// convert reads GeoJSON and builds the map. Unreadable input is a bad
// request; readable input that yields no solid is unprocessable.
func convert(ctx context.Context, data []byte, cfg config.Config) (*mapmesh.Result, *mapmesh.Dataset, error) {
	ds, err := mapmesh.FeaturesFromGEOJSON(bytes.NewReader(data))
	if errors.Is(err, mapmesh.ErrNoFeatures) {
		return nil, nil, unprocessable(err)
	}
	if err != nil {
		return nil, nil, badRequest(err)
	}

	res, err := mapmesh.Build(ctx, ds, cfg)
	if err != nil {
		return nil, nil, unprocessable(err)
	}
	return res, ds, nil
}

func fail(w http.ResponseWriter, id string, err error) {
	status := http.StatusInternalServerError
	var re *requestError
	if errors.As(err, &re) {
		status = re.status
	}
	counter.Incr("failed")
	logger.Get().Warn("conversion failed",
		zap.String("id", id),
		zap.Int("status", status),
		zap.Error(err))
	http.Error(w, err.Error(), status)
}
