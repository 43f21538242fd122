// Command dataman serves map conversions over HTTP: a GeoJSON upload and a
// YAML config go in, a printable STL comes out.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/godeepar/mapmesh/logger"
)

const (
	ListeningPort = "8000"
	persistEvery  = 60 * time.Second
	maxUpload     = 64 << 20
)

// apilog is where request counts survive restarts.
var apilog = "./apilog"

// Requests is the persisted form of the counters.
type Requests struct {
	Geojson int64 `json:"geojson"`
	Sample  int64 `json:"sample"`
	Failed  int64 `json:"failed"`
}

type single struct {
	mu     sync.Mutex
	values map[string]int64
}

var counter = single{
	values: make(map[string]int64),
}

func main() {
	log := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	persisted := readCount(apilog, persistEvery, done)

	srv := &http.Server{
		Addr:              ":" + ListeningPort,
		Handler:           newMux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	log.Info("listening", zap.String("port", ListeningPort))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", zap.Error(err))
	}
	close(done)
	<-persisted
}

func newMux() *http.ServeMux {
	m := http.NewServeMux()
	m.HandleFunc("/data", dataHandler)
	m.HandleFunc("/manifest/", manifestHandler)
	m.HandleFunc("/sample", sampleHandler)
	return m
}

func (s *single) Get(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

func (s *single) Set(key string, newValue int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = newValue
	return s.values[key]
}

func (s *single) Incr(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key]++
	return s.values[key]
}

// readCount restores the counters from path, then writes them back on a
// ticker until done is closed. The returned channel closes after the final
// write.
func readCount(path string, every time.Duration, done <-chan struct{}) <-chan struct{} {
	log := logger.Get()
	if err := loadCount(path); err != nil {
		log.Warn("starting counts from zero", zap.Error(err))
	}
	log.Info("starting counts",
		zap.Int64("geojson", counter.Get("geojson")),
		zap.Int64("sample", counter.Get("sample")),
		zap.Int64("failed", counter.Get("failed")))

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		writeTicker := time.NewTicker(every)
		defer writeTicker.Stop()
		for {
			select {
			case <-writeTicker.C:
				if err := writeCount(path); err != nil {
					log.Error("persisting counts", zap.Error(err))
				}
			case <-done:
				if err := writeCount(path); err != nil {
					log.Error("persisting counts", zap.Error(err))
				}
				return
			}
		}
	}()
	return finished
}

func loadCount(path string) error {
	read, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var count Requests
	if err := json.Unmarshal(read, &count); err != nil {
		return err
	}
	counter.Set("geojson", count.Geojson)
	counter.Set("sample", count.Sample)
	counter.Set("failed", count.Failed)
	return nil
}

func writeCount(path string) error {
	count := Requests{
		Geojson: counter.Get("geojson"),
		Sample:  counter.Get("sample"),
		Failed:  counter.Get("failed"),
	}
	writeMe, err := json.Marshal(count)
	if err != nil {
		return err
	}
	return os.WriteFile(path, writeMe, 0644)
}
