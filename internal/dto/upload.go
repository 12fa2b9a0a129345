package dto

// UploadParseResult returns the subjects extracted from an uploaded file.
// Rows missing a name or schedule are dropped rather than reported as
// errors, matching the permissive import contract.
type UploadParseResult struct {
	Subjects []UploadedSubject `json:"subjects"`
	Count    int               `json:"count"`
	FileType string            `json:"file_type"`
}
