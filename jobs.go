package main

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/session"
)

// nextRun returns the next time of day at hour:min after now.
func nextRun(now time.Time, hour, min int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// sleepUntil waits for t or ctx, reporting false when ctx ended first.
func sleepUntil(ctx context.Context, t time.Time) bool {
	timer := time.NewTimer(time.Until(t))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// startDailySessionSweep deletes session blobs untouched for longer than ttl,
// once a day at the given hour.
func startDailySessionSweep(ctx context.Context, registry *session.Registry, ttl time.Duration, hour int) {
	for {
		next := nextRun(time.Now(), hour, 0)
		log.Printf("⏳ Next session sweep scheduled at: %s", next.Format("2006-01-02 15:04:05"))
		if !sleepUntil(ctx, next) {
			return
		}
		if _, err := registry.Sweep(ctx, ttl); err != nil {
			log.Printf("❌ Session sweep failed: %v", err)
		}
	}
}

// startIdleEviction drops in-memory sessions nobody has used for maxIdle.
// Their blobs stay, so the next request reloads them.
func startIdleEviction(ctx context.Context, registry *session.Registry, maxIdle time.Duration) {
	ticker := time.NewTicker(maxIdle / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := registry.EvictIdle(maxIdle); n > 0 {
				log.Printf("💤 Evicted %d idle sessions", n)
			}
		}
	}
}

// startDailyBackupAtFixedTime backs up uploads daily at a fixed hour and removes old backups
func startDailyBackupAtFixedTime(ctx context.Context, srcDir, backupDir string, retention time.Duration, hour, min int) {
	for {
		next := nextRun(time.Now(), hour, min)
		log.Printf("⏳ Next upload backup scheduled at: %s", next.Format("2006-01-02 15:04:05"))
		if !sleepUntil(ctx, next) {
			return
		}

		destDir := filepath.Join(backupDir, time.Now().Format("2006-01-02_15-04-05"))
		if err := copyDir(srcDir, destDir); err != nil {
			log.Printf("❌ Failed to back up uploads: %v", err)
		} else {
			log.Printf("✅ Uploads backed up to %s", destDir)
		}

		cleanupOldBackups(backupDir, retention, time.Now())
	}
}

// copyDir recursively copies a folder
func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			err = copyDir(srcPath, destPath)
		} else {
			err = copyFile(srcPath, destPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// cleanupOldBackups removes backup folders older than retention and returns
// how many went.
func cleanupOldBackups(backupDir string, retention time.Duration, now time.Time) int {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		log.Printf("❌ Failed to read backup directory: %v", err)
		return 0
	}

	cutoff := now.Add(-retention)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folderPath := filepath.Join(backupDir, entry.Name())
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(folderPath); err != nil {
			log.Printf("❌ Failed to remove old backup %s: %v", folderPath, err)
			continue
		}
		log.Printf("🗑️ Removed old backup: %s", folderPath)
		removed++
	}
	return removed
}
