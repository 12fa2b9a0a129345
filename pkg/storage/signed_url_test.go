package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Hour)

	token, expiresAt, err := signer.Generate("job-123", "timetable_20250101.csv")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	jobID, relPath, parsedExpiry, err := signer.Parse(token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-123", jobID)
	assert.Equal(t, "timetable_20250101.csv", relPath)
	assert.WithinDuration(t, expiresAt, parsedExpiry, time.Second)
}

func TestSignedURLSignerRejectsTamperedToken(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Hour)

	token, _, err := signer.Generate("job-123", "timetable.pdf")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 4)
	parts[0] = "job-456"
	tampered := strings.Join(parts, ".")

	_, _, _, err = signer.Parse(tampered, false)
	require.Error(t, err)
}

func TestSignedURLSignerRejectsWrongSecret(t *testing.T) {
	signer := NewSignedURLSigner("secret-a", time.Hour)
	other := NewSignedURLSigner("secret-b", time.Hour)

	token, _, err := signer.Generate("job-1", "file.ics")
	require.NoError(t, err)

	_, _, _, err = other.Parse(token, false)
	require.Error(t, err)
}

func TestSignedURLSignerExpiry(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Millisecond*10)

	token, _, err := signer.Generate("job-1", "file.xlsx")
	require.NoError(t, err)
	time.Sleep(time.Millisecond * 20)

	_, _, _, err = signer.Parse(token, false)
	require.Error(t, err)

	jobID, relPath, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, "file.xlsx", relPath)
}

func TestSignedURLSignerRequiresArguments(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Hour)

	_, _, err := signer.Generate("", "file.csv")
	require.Error(t, err)

	_, _, err = signer.Generate("job-1", "")
	require.Error(t, err)
}
