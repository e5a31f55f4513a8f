package main

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"spendo/internal/dto"
	"spendo/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type recordCreator interface {
	Create(ctx context.Context, req *dto.CreateRecordRequest) (*models.Record, error)
}

// SeededFile represents a seed file already loaded into the store
type SeededFile struct {
	FilePath string    `json:"file_path"`
	FileHash string    `json:"file_hash"`
	SeededAt time.Time `json:"seeded_at"`
	Records  int       `json:"records"`
	Failed   []int     `json:"failed,omitempty"` // indexes to retry on the next run
}

// CacheData remembers which seed files were loaded
type CacheData struct {
	SeededFiles map[string]SeededFile `json:"seeded_files"` // key: file path
}

func loadCache(cacheFile string) (*CacheData, error) {
	cache := &CacheData{
		SeededFiles: make(map[string]SeededFile),
	}

	if _, err := os.Stat(cacheFile); os.IsNotExist(err) {
		return cache, nil
	}

	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	if len(data) == 0 {
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if cache.SeededFiles == nil {
		cache.SeededFiles = make(map[string]SeededFile)
	}

	return cache, nil
}

func saveCache(cacheFile string, cache *CacheData) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// calculateFileHash calculates MD5 hash of a file
func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

func readSeedFile(path string) ([]dto.CreateRecordRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var requests []dto.CreateRecordRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return requests, nil
}

// seedRecords creates every record in seedFile through the service, at most
// concurrency at a time. Individual failures are logged, do not stop the run,
// and are retried on the next run. A file whose hash matches the cache and
// has nothing left to retry is skipped.
func seedRecords(
	ctx context.Context,
	seedFile string,
	cacheFile string,
	creator recordCreator,
	concurrency int,
	logger *zap.Logger,
) (int, error) {
	cache, err := loadCache(cacheFile)
	if err != nil {
		logger.Warn("Failed to load cache, will seed anyway", zap.Error(err))
		cache = &CacheData{SeededFiles: make(map[string]SeededFile)}
	}

	fileHash, err := calculateFileHash(seedFile)
	if err != nil {
		return 0, err
	}

	requests, err := readSeedFile(seedFile)
	if err != nil {
		return 0, err
	}

	pending := make([]int, len(requests))
	for i := range requests {
		pending[i] = i
	}
	previous := 0

	if cached, exists := cache.SeededFiles[seedFile]; exists {
		switch {
		case cached.FileHash != fileHash:
			logger.Info("Seed file changed, loading again",
				zap.String("path", seedFile),
				zap.String("old_hash", cached.FileHash),
				zap.String("new_hash", fileHash),
			)
		case len(cached.Failed) == 0:
			logger.Info("Seed file already loaded, skipping",
				zap.String("path", seedFile),
				zap.Time("seeded_at", cached.SeededAt),
			)
			return 0, nil
		default:
			logger.Info("Retrying records that failed last run",
				zap.String("path", seedFile),
				zap.Int("failed", len(cached.Failed)),
			)
			pending = pending[:0]
			for _, i := range cached.Failed {
				if i >= 0 && i < len(requests) {
					pending = append(pending, i)
				}
			}
			previous = cached.Records
		}
	}

	if concurrency < 1 {
		concurrency = 1
	}

	var (
		created atomic.Int64
		mu      sync.Mutex
		failed  []int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, i := range pending {
		req := &requests[i]
		g.Go(func() error {
			record, err := creator.Create(gctx, req)
			if err != nil {
				logger.Error("Failed to create record",
					zap.Int("index", i),
					zap.String("title", req.Title),
					zap.Error(err),
				)
				mu.Lock()
				failed = append(failed, i)
				mu.Unlock()
				return nil
			}
			created.Add(1)
			logger.Debug("Created record",
				zap.String("id", record.ID.String()),
				zap.String("title", record.Title),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(created.Load()), err
	}
	sort.Ints(failed)

	cache.SeededFiles[seedFile] = SeededFile{
		FilePath: seedFile,
		FileHash: fileHash,
		SeededAt: time.Now(),
		Records:  previous + int(created.Load()),
		Failed:   failed,
	}
	if err := saveCache(cacheFile, cache); err != nil {
		logger.Warn("Failed to save cache", zap.Error(err))
	} else {
		logger.Info("Cache saved",
			zap.Int("seeded_files", len(cache.SeededFiles)),
			zap.Int("failed", len(failed)),
		)
	}

	return int(created.Load()), nil
}
