package api

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neurotrain/transcribe/internal/utils"
)

// maxUploadBytes caps uploaded audio at 25MB
const maxUploadBytes = 25 * 1024 * 1024

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"model":   s.engine.Name(),
		"version": version,
	})
}

// transcribe handles POST /transcribe: one multipart audio part named
// "file", optional "language" value, flat JSON result. Errors use a
// {"detail": ...} body.
func (s *Server) transcribe(c *gin.Context) {
	s.metrics.UploadsReceived.Inc()

	file, err := c.FormFile("file")
	if err != nil {
		log.Printf("[Transcribe] FormFile error: %v", err)
		s.metrics.UploadsRejected.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"detail": "file is required"})
		return
	}
	log.Printf("[Transcribe] Received file: %s, size: %d bytes, type: %s",
		file.Filename, file.Size, file.Header.Get("Content-Type"))

	if file.Size > maxUploadBytes {
		s.metrics.UploadsRejected.Inc()
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "File too large. Max 25MB."})
		return
	}
	s.metrics.UploadBytes.Observe(float64(file.Size))

	language := c.PostForm("language")
	if language == "" {
		language = c.Query("language")
	}

	// Save to a temp file the engine can read; removed after processing.
	tmp, err := os.CreateTemp("", "transcribe-*"+filepath.Ext(file.Filename))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		log.Printf("[Transcribe] Failed to save upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	start := time.Now()
	result, err := s.engine.Transcribe(c.Request.Context(), tmpPath, language)
	s.metrics.TranscriptionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Printf("[Transcribe] Engine error: %v", err)
		s.metrics.TranscriptionFailures.Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	s.metrics.TranscriptionSuccesses.Inc()

	log.Printf("[Transcribe] Complete. Language: %s, length: %d characters",
		result.Language, len(result.Transcript))

	c.JSON(http.StatusOK, gin.H{
		"transcript": result.Transcript,
		"language":   result.Language,
		"tldr":       result.TLDR,
		"duration":   result.Duration,
		"status":     "success",
	})
}

// uploadRecording handles audio file upload for deferred processing
func (s *Server) uploadRecording(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		// Try alternative field names used by older clients
		if file, err = c.FormFile("audio"); err != nil {
			if file, err = c.FormFile("audio_file"); err != nil {
				utils.Error(c, http.StatusBadRequest, "file is required. Error: "+err.Error())
				return
			}
		}
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowedExts := []string{".ogg", ".oga", ".opus", ".m4a", ".mp3", ".wav", ".aac", ".flac", ".webm"}
	valid := false
	for _, allowed := range allowedExts {
		if ext == allowed {
			valid = true
			break
		}
	}
	if !valid {
		utils.Error(c, http.StatusBadRequest, "unsupported audio format. Supported: ogg, opus, m4a, mp3, wav, aac, flac, webm")
		return
	}

	if file.Size > maxUploadBytes {
		utils.Error(c, http.StatusBadRequest, "file size exceeds 25MB limit")
		return
	}

	recordingID, err := s.store.SaveAudio(file)
	if err != nil {
		log.Printf("Error saving audio: %v", err)
		utils.Error(c, http.StatusInternalServerError, "failed to save audio file")
		return
	}

	log.Printf("Audio uploaded successfully: %s", recordingID)
	utils.Success(c, gin.H{
		"recording_id": recordingID,
		"status":       "uploaded",
	})
}

// processRecording runs a previously uploaded recording through the engine
func (s *Server) processRecording(c *gin.Context) {
	id := c.Param("recording_id")

	rec, ok := s.store.Get(id)
	if !ok {
		utils.Error(c, http.StatusNotFound, "recording not found")
		return
	}

	if rec.Status == "processing" {
		utils.Error(c, http.StatusConflict, "recording is already being processed")
		return
	}

	if rec.Status == "processed" && rec.Transcript != "" {
		utils.Success(c, gin.H{
			"recording_id": id,
			"status":       "processed",
			"language":     rec.Language,
			"transcript":   rec.Transcript,
			"tldr":         rec.TLDR,
		})
		return
	}

	s.store.SetStatus(id, "processing")
	log.Printf("Processing recording: %s", id)

	language := c.Query("language")

	start := time.Now()
	result, err := s.engine.Transcribe(c.Request.Context(), rec.Path, language)
	s.metrics.TranscriptionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Printf("Engine error for recording %s: %v", id, err)
		s.metrics.TranscriptionFailures.Inc()
		s.store.SetError(id, err.Error())
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	if result.Transcript == "" {
		log.Printf("Empty transcript for recording %s", id)
		s.metrics.TranscriptionFailures.Inc()
		s.store.SetError(id, "empty transcript")
		utils.Error(c, http.StatusBadRequest, "no speech detected in audio")
		return
	}
	s.metrics.TranscriptionSuccesses.Inc()

	s.store.SetResult(id, result.Transcript, result.Language, result.TLDR, result.Duration)
	log.Printf("Recording processed successfully: %s (language: %s, length: %d)",
		id, result.Language, len(result.Transcript))

	utils.Success(c, gin.H{
		"recording_id": id,
		"status":       "processed",
		"language":     result.Language,
		"transcript":   result.Transcript,
		"tldr":         result.TLDR,
	})
}

// getRecording returns recording information
func (s *Server) getRecording(c *gin.Context) {
	rec, ok := s.store.Get(c.Param("recording_id"))
	if !ok {
		utils.Error(c, http.StatusNotFound, "recording not found")
		return
	}

	utils.Success(c, gin.H{
		"recording_id": rec.ID,
		"status":       rec.Status,
		"created_at":   rec.CreatedAt,
		"duration":     rec.Duration,
		"language":     rec.Language,
		"transcript":   rec.Transcript,
		"tldr":         rec.TLDR,
	})
}

// getRecordingStatus returns only the status of a recording
func (s *Server) getRecordingStatus(c *gin.Context) {
	rec, ok := s.store.Get(c.Param("recording_id"))
	if !ok {
		utils.Error(c, http.StatusNotFound, "recording not found")
		return
	}

	utils.Success(c, gin.H{
		"recording_id": rec.ID,
		"status":       rec.Status,
	})
}
