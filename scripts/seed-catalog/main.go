// Command seed-catalog bulk-loads subjects from a CSV file into the catalog.
// Intended for fresh installs and local development databases.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/studygrid/scheduler-api/internal/models"
	"github.com/studygrid/scheduler-api/internal/repository"
	"github.com/studygrid/scheduler-api/pkg/config"
	"github.com/studygrid/scheduler-api/pkg/database"
)

type catalogRow struct {
	Name          string `csv:"name"`
	Code          string `csv:"code"`
	Description   string `csv:"description"`
	Category      string `csv:"category"`
	Difficulty    int    `csv:"difficulty_level"`
	Credits       int    `csv:"credits"`
	Prerequisites string `csv:"prerequisites"`
	TeacherName   string `csv:"teacher_name"`
	MaxStudents   int    `csv:"max_students"`
	Semester      string `csv:"semester"`
	Schedule      string `csv:"schedule"`
}

func main() {
	var (
		csvPath string
		dryRun  bool
		timeout time.Duration
	)

	flag.StringVar(&csvPath, "csv", "subjects.csv", "Path to subjects CSV file")
	flag.BoolVar(&dryRun, "dry-run", false, "Parse and report without inserting")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Overall run timeout")
	flag.Parse()

	file, err := os.Open(csvPath)
	if err != nil {
		log.Fatalf("failed to open csv: %v", err)
	}
	defer file.Close() //nolint:errcheck

	var rows []catalogRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		log.Fatalf("failed to parse csv: %v", err)
	}

	valid := make([]catalogRow, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		if strings.TrimSpace(row.Name) == "" || strings.TrimSpace(row.Schedule) == "" {
			skipped++
			continue
		}
		valid = append(valid, row)
	}
	fmt.Printf("parsed %d rows (%d skipped: missing name or schedule)\n", len(valid), skipped)

	if dryRun {
		for _, row := range valid {
			fmt.Printf("  %-10s %-40s %s\n", row.Code, row.Name, row.Schedule)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	repo := repository.NewSubjectRepository(db)
	inserted := 0
	for _, row := range valid {
		subject := &models.Subject{
			Name:            row.Name,
			Code:            row.Code,
			Description:     row.Description,
			Category:        row.Category,
			DifficultyLevel: clamp(row.Difficulty, 1, 5, 3),
			Credits:         clamp(row.Credits, 1, 10, 3),
			Prerequisites:   row.Prerequisites,
			TeacherName:     row.TeacherName,
			MaxStudents:     row.MaxStudents,
			Semester:        row.Semester,
			Schedule:        row.Schedule,
			IsActive:        true,
		}
		if err := repo.Create(ctx, subject); err != nil {
			log.Printf("skipping %q: %v", row.Name, err)
			continue
		}
		inserted++
	}
	fmt.Printf("inserted %d subjects\n", inserted)
}

func clamp(v, lo, hi, fallback int) int {
	if v == 0 {
		return fallback
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
