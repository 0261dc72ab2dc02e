package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"openvoice-client/internal/config"
)

type audioFile struct {
	path    string
	size    int64
	modTime time.Time
}

func main() {
	var (
		keepCount = flag.Int("keep", 10, "Количество последних аудио файлов для сохранения")
		dryRun    = flag.Bool("dry-run", false, "Показать что будет удалено без фактического удаления")
	)
	flag.Parse()

	// Инициализация логгера
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Ошибка инициализации логгера:", err)
	}
	defer logger.Sync()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Ошибка загрузки конфигурации", zap.Error(err))
	}

	removed, err := cleanupOutputDir(cfg.Output.Dir, *keepCount, *dryRun, logger)
	if err != nil {
		logger.Fatal("Ошибка очистки аудио файлов", zap.Error(err))
	}

	logger.Info("Очистка аудио файлов завершена успешно",
		zap.String("dir", cfg.Output.Dir),
		zap.Int("removed", removed),
		zap.Bool("dry_run", *dryRun))
}

// cleanupOutputDir удаляет все файлы каталога, кроме keepCount самых новых
func cleanupOutputDir(dir string, keepCount int, dryRun bool, logger *zap.Logger) (int, error) {
	if keepCount < 0 {
		return 0, fmt.Errorf("keep не может быть отрицательным: %d", keepCount)
	}

	files, err := listAudioFiles(dir)
	if err != nil {
		return 0, err
	}

	toDelete := len(files) - keepCount
	if toDelete <= 0 {
		logger.Info("Нет файлов для удаления",
			zap.String("dir", dir),
			zap.Int("current_count", len(files)),
			zap.Int("keep_count", keepCount))
		return 0, nil
	}

	// Самые новые файлы в начале
	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.After(files[j].modTime)
	})

	removed := 0
	for _, f := range files[keepCount:] {
		if dryRun {
			logger.Info("Будет удален файл",
				zap.String("file", f.path),
				zap.Int64("size", f.size),
				zap.Time("modified", f.modTime))
			removed++
			continue
		}

		if err := os.Remove(f.path); err != nil {
			logger.Warn("ошибка удаления файла",
				zap.String("file", f.path),
				zap.Error(err))
			continue
		}
		removed++
	}

	return removed, nil
}

func listAudioFiles(dir string) ([]audioFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка чтения каталога %s: %w", dir, err)
	}

	files := make([]audioFile, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("ошибка получения информации о файле %s: %w", entry.Name(), err)
		}
		files = append(files, audioFile{
			path:    filepath.Join(dir, entry.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}

	return files, nil
}
