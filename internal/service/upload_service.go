package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/studygrid/scheduler-api/internal/dto"
	appErrors "github.com/studygrid/scheduler-api/pkg/errors"
)

// SupportedUploadExtensions lists the file types the upload parser accepts.
var SupportedUploadExtensions = []string{".csv", ".json", ".txt", ".xlsx"}

const (
	uploadDefaultCategory = "General"
	uploadDefaultValue    = 3
	defaultMaxUploadBytes = 5 << 20
)

// uploadRow is the common intermediate form all file formats parse into.
// Numeric fields stay raw strings until coercion.
type uploadRow struct {
	Name       string
	Schedule   string
	Credits    string
	Difficulty string
	Category   string
}

// UploadService parses subject files into uploadable subject rows.
type UploadService struct {
	maxBytes int64
	logger   *zap.Logger
}

// NewUploadService creates a new upload service.
func NewUploadService(maxBytes int64, logger *zap.Logger) *UploadService {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{maxBytes: maxBytes, logger: logger}
}

// Parse converts an uploaded file into subject rows. Rows missing a name or a
// schedule are dropped; credits and difficulty are coerced and clamped.
func (s *UploadService) Parse(filename string, content []byte) (*dto.UploadParseResult, error) {
	if int64(len(content)) > s.maxBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file exceeds maximum upload size")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	var (
		rows []uploadRow
		err  error
	)
	switch ext {
	case ".csv":
		rows, err = parseCSVUpload(content)
	case ".json":
		rows, err = parseJSONUpload(content)
	case ".txt":
		rows = parseTextUpload(content)
	case ".xlsx":
		rows, err = parseXLSXUpload(content)
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFileType,
			fmt.Sprintf("unsupported file type %q, supported formats: %s", ext, strings.Join(SupportedUploadExtensions, ", ")))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to parse uploaded file")
	}

	subjects := assembleUploadRows(rows)
	s.logger.Info("parsed subject upload",
		zap.String("file_type", ext),
		zap.Int("rows", len(rows)),
		zap.Int("subjects", len(subjects)))

	return &dto.UploadParseResult{
		Subjects: subjects,
		Count:    len(subjects),
		FileType: strings.TrimPrefix(ext, "."),
	}, nil
}

type csvUploadRow struct {
	Name       string `csv:"name"`
	Subject    string `csv:"subject"`
	Schedule   string `csv:"schedule"`
	Credits    string `csv:"credits"`
	Difficulty string `csv:"difficulty"`
	Category   string `csv:"category"`
}

func parseCSVUpload(content []byte) ([]uploadRow, error) {
	var records []csvUploadRow
	if err := gocsv.UnmarshalBytes(content, &records); err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	rows := make([]uploadRow, 0, len(records))
	for _, record := range records {
		name := record.Name
		if name == "" {
			name = record.Subject
		}
		rows = append(rows, uploadRow{
			Name:       name,
			Schedule:   record.Schedule,
			Credits:    record.Credits,
			Difficulty: record.Difficulty,
			Category:   record.Category,
		})
	}
	return rows, nil
}

// flexNumber accepts both JSON numbers and numeric strings, keeping the raw
// text for later coercion.
type flexNumber string

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexNumber(s)
		return nil
	}
	*f = flexNumber(string(data))
	return nil
}

type jsonUploadRow struct {
	Name       string     `json:"name"`
	Subject    string     `json:"subject"`
	Schedule   string     `json:"schedule"`
	Credits    flexNumber `json:"credits"`
	Difficulty flexNumber `json:"difficulty"`
	Category   string     `json:"category"`
}

func parseJSONUpload(content []byte) ([]uploadRow, error) {
	var records []jsonUploadRow
	if err := json.Unmarshal(content, &records); err != nil {
		var single jsonUploadRow
		if err2 := json.Unmarshal(content, &single); err2 != nil {
			return nil, fmt.Errorf("read json: %w", err)
		}
		records = []jsonUploadRow{single}
	}
	rows := make([]uploadRow, 0, len(records))
	for _, record := range records {
		name := record.Name
		if name == "" {
			name = record.Subject
		}
		rows = append(rows, uploadRow{
			Name:       name,
			Schedule:   record.Schedule,
			Credits:    string(record.Credits),
			Difficulty: string(record.Difficulty),
			Category:   record.Category,
		})
	}
	return rows, nil
}

// parseTextUpload reads "---"-separated blocks of "key: value" lines. Only the
// first colon splits, so schedule values keep their clock times intact.
func parseTextUpload(content []byte) []uploadRow {
	blocks := strings.Split(string(content), "---")
	rows := make([]uploadRow, 0, len(blocks))
	for _, block := range blocks {
		var row uploadRow
		for _, line := range strings.Split(block, "\n") {
			idx := strings.Index(line, ":")
			if idx < 0 {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(line[:idx]))
			value := strings.TrimSpace(line[idx+1:])
			switch key {
			case "subject", "name":
				row.Name = value
			case "schedule":
				row.Schedule = value
			case "credits":
				row.Credits = value
			case "difficulty":
				row.Difficulty = value
			case "category":
				row.Category = value
			}
		}
		if row != (uploadRow{}) {
			rows = append(rows, row)
		}
	}
	return rows
}

func parseXLSXUpload(content []byte) ([]uploadRow, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	records, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	header := make(map[string]int, len(records[0]))
	for i, cell := range records[0] {
		header[strings.ToLower(strings.TrimSpace(cell))] = i
	}
	cell := func(record []string, key string) string {
		idx, ok := header[key]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	rows := make([]uploadRow, 0, len(records)-1)
	for _, record := range records[1:] {
		name := cell(record, "name")
		if name == "" {
			name = cell(record, "subject")
		}
		rows = append(rows, uploadRow{
			Name:       name,
			Schedule:   cell(record, "schedule"),
			Credits:    cell(record, "credits"),
			Difficulty: cell(record, "difficulty"),
			Category:   cell(record, "category"),
		})
	}
	return rows, nil
}

func assembleUploadRows(rows []uploadRow) []dto.UploadedSubject {
	subjects := make([]dto.UploadedSubject, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		schedule := strings.TrimSpace(row.Schedule)
		if name == "" || schedule == "" {
			continue
		}
		category := strings.TrimSpace(row.Category)
		if category == "" {
			category = uploadDefaultCategory
		}
		subjects = append(subjects, dto.UploadedSubject{
			Name:       name,
			Schedule:   schedule,
			Category:   category,
			Credits:    clampInt(coerceInt(row.Credits, uploadDefaultValue), 1, 10),
			Difficulty: clampInt(coerceInt(row.Difficulty, uploadDefaultValue), 1, 5),
		})
	}
	return subjects
}

// coerceInt tolerates float text like "3.0"; anything unparsable falls back.
func coerceInt(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return int(f)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
