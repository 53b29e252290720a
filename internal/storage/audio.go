package storage

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Recording struct {
	ID         string
	Path       string
	Status     string  // uploaded, processing, processed, failed
	Duration   float64 // in seconds
	Size       int64   // file size in bytes
	CreatedAt  string
	Language   string
	Transcript string
	TLDR       string
	Error      string
}

// Store keeps uploaded recordings on disk under a single directory and
// tracks their processing state in memory.
type Store struct {
	dir        string
	mu         sync.Mutex
	recordings map[string]*Recording
}

// NewStore creates a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{
		dir:        dir,
		recordings: make(map[string]*Recording),
	}
}

// SaveAudio saves an uploaded audio file and returns its recording ID
func (s *Store) SaveAudio(file *multipart.FileHeader) (string, error) {
	id := "rec_" + uuid.NewString()
	dst := filepath.Join(s.dir, id+"_"+filepath.Base(file.Filename))

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	if err := saveMultipartFile(file, dst); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	var fileSize int64
	if fileInfo, err := os.Stat(dst); err == nil {
		fileSize = fileInfo.Size()
	}

	s.mu.Lock()
	s.recordings[id] = &Recording{
		ID:        id,
		Path:      dst,
		Status:    "uploaded",
		Size:      fileSize,
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	s.mu.Unlock()

	return id, nil
}

// Get retrieves a recording by ID
func (s *Store) Get(id string) (*Recording, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recordings[id]
	if !ok {
		return nil, false
	}
	// Return a copy to avoid race conditions
	recCopy := *rec
	return &recCopy, true
}

// SetStatus updates the status of a recording
func (s *Store) SetStatus(id, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.recordings[id]; ok {
		rec.Status = status
	}
}

// SetResult records a completed transcription
func (s *Store) SetResult(id, transcript, language, tldr string, duration float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.recordings[id]; ok {
		rec.Transcript = transcript
		rec.Language = language
		rec.TLDR = tldr
		rec.Duration = duration
		rec.Status = "processed"
	}
}

// SetError marks a recording as failed with an error message
func (s *Store) SetError(id string, errorMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.recordings[id]; ok {
		rec.Error = errorMsg
		rec.Status = "failed"
	}
}

/* helper */
func saveMultipartFile(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = out.ReadFrom(src)
	return err
}
