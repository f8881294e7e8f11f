package main

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"agency-ledger/internal/dto"
	"agency-ledger/internal/repository"
	"agency-ledger/internal/service"
	"agency-ledger/pkg/config"
	"agency-ledger/pkg/logger"
	"agency-ledger/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	tenant := flag.String("tenant", "", "tenant ID the rules belong to")
	seedDir := flag.String("dir", filepath.Join("cmd", "seed", "rules"), "directory with *.json rule files")
	flag.Parse()

	tenantID, err := uuid.Parse(*tenant)
	if err != nil {
		log.Fatalf("Invalid -tenant: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ruleService := service.NewRuleService(
		repository.NewRuleRepository(db, appLogger),
		repository.NewUserRepository(db, appLogger),
		appLogger,
	)

	appLogger.Info("Seeding auto-match rules", zap.String("tenant_id", tenantID.String()), zap.String("dir", *seedDir))

	cacheFile := filepath.Join(*seedDir, ".seed_cache.json")
	if err := seedRules(ctx, tenantID, *seedDir, cacheFile, ruleService, appLogger); err != nil {
		appLogger.Fatal("Failed to seed rules", zap.Error(err))
	}

	appLogger.Info("Rule seeding completed")
}

type ruleCreator interface {
	Create(ctx context.Context, tenantID uuid.UUID, req *dto.RuleRequest) (*dto.RuleResponse, error)
}

// ProcessedFile is a rule file already loaded for a tenant.
type ProcessedFile struct {
	FilePath    string    `json:"file_path"`
	FileHash    string    `json:"file_hash"`
	ProcessedAt time.Time `json:"processed_at"`
}

type CacheData struct {
	ProcessedFiles map[string]ProcessedFile `json:"processed_files"` // key: tenant + file path
}

func loadCache(cacheFile string) (*CacheData, error) {
	cache := &CacheData{
		ProcessedFiles: make(map[string]ProcessedFile),
	}

	data, err := os.ReadFile(cacheFile)
	if errors.Is(err, os.ErrNotExist) {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(data) == 0 {
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if cache.ProcessedFiles == nil {
		cache.ProcessedFiles = make(map[string]ProcessedFile)
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

// seedRules creates the rules from every unchanged-since-last-run JSON file in
// seedDir. A keyword the tenant already has is skipped, so reruns are safe.
func seedRules(
	ctx context.Context,
	tenantID uuid.UUID,
	seedDir string,
	cacheFile string,
	rules ruleCreator,
	logger *zap.Logger,
) error {
	files, err := filepath.Glob(filepath.Join(seedDir, "*.json"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	cache, err := loadCache(cacheFile)
	if err != nil {
		logger.Warn("Failed to load cache, will process all files", zap.Error(err))
		cache = &CacheData{ProcessedFiles: make(map[string]ProcessedFile)}
	}

	for _, path := range files {
		if filepath.Base(path) == filepath.Base(cacheFile) {
			continue
		}

		fileHash, err := calculateFileHash(path)
		if err != nil {
			logger.Warn("Failed to calculate file hash, will process anyway", zap.String("path", path), zap.Error(err))
		}

		key := tenantID.String() + ":" + path
		if cached, ok := cache.ProcessedFiles[key]; ok && cached.FileHash == fileHash {
			logger.Info("Rule file already loaded, skipping",
				zap.String("path", path),
				zap.Time("processed_at", cached.ProcessedAt),
			)
			continue
		}

		created, err := seedFile(ctx, tenantID, path, rules, logger)
		if err != nil {
			logger.Error("Failed to load rule file", zap.String("path", path), zap.Error(err))
			continue
		}

		logger.Info("Loaded rule file", zap.String("path", path), zap.Int("created", created))
		cache.ProcessedFiles[key] = ProcessedFile{
			FilePath:    path,
			FileHash:    fileHash,
			ProcessedAt: time.Now(),
		}
	}

	if err := saveCache(cacheFile, cache); err != nil {
		logger.Warn("Failed to save cache", zap.Error(err))
	}

	return nil
}

func seedFile(ctx context.Context, tenantID uuid.UUID, path string, rules ruleCreator, logger *zap.Logger) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var reqs []dto.RuleRequest
	if err := json.Unmarshal(data, &reqs); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	created := 0
	for i := range reqs {
		_, err := rules.Create(ctx, tenantID, &reqs[i])
		switch {
		case err == nil:
			created++
		case errors.Is(err, service.ErrDuplicateKeyword):
			logger.Debug("Rule exists", zap.String("keyword", reqs[i].Keyword))
		case errors.Is(err, service.ErrInvalidRule):
			logger.Warn("Skipping invalid rule",
				zap.String("keyword", strings.TrimSpace(reqs[i].Keyword)),
				zap.Error(err),
			)
		default:
			return created, err
		}
	}

	return created, nil
}
