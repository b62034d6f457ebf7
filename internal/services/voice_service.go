package services

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lightlog-app/backend/internal/config"
	"github.com/lightlog-app/backend/internal/dto"
)

// MaxAudioFileSize is the largest audio upload accepted, matching the
// Whisper API limit.
const (
	MaxAudioFileSize       = 25 * 1024 * 1024
	maxTranscriptLength    = 5000
	whisperResponseFormat  = "verbose_json"
	whisperTemperature     = "0.0"
)

// SupportedAudioFormats lists the accepted upload extensions.
var SupportedAudioFormats = []string{"mp3", "wav", "m4a", "flac", "mp4", "mpeg", "mpga", "oga", "ogg", "webm"}

var validAudioMimePrefixes = []string{
	"audio/mpeg", "audio/mp3", "audio/wav", "audio/wave", "audio/x-wav",
	"audio/mp4", "audio/m4a", "audio/x-m4a", "audio/flac", "audio/ogg", "audio/webm",
	"video/mp4", "video/mpeg", "video/webm",
	// Mobile clients often upload audio without a specific MIME type.
	"application/octet-stream",
}

// VoiceProcessingError marks transcription failures that are not the
// caller's fault and map to 422 rather than 400.
type VoiceProcessingError struct {
	Message string
	Err     error
}

func (e *VoiceProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *VoiceProcessingError) Unwrap() error { return e.Err }

type whisperSegment struct {
	AvgLogprob *float64 `json:"avg_logprob"`
}

type whisperResponse struct {
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Segments []whisperSegment `json:"segments"`
}

// VoiceService converts uploaded audio to text via the Whisper endpoint and
// runs the transcript through moderation before returning it.
type VoiceService struct {
	cfg        *config.Config
	moderation *ModerationService
	client     *resty.Client
}

func NewVoiceService(cfg *config.Config, moderation *ModerationService) *VoiceService {
	return &VoiceService{
		cfg:        cfg,
		moderation: moderation,
		client:     resty.New().SetTimeout(cfg.AITimeout),
	}
}

// SupportedFormats describes the accepted upload formats and limits.
func (s *VoiceService) SupportedFormats() *dto.SupportedFormatsResponse {
	return &dto.SupportedFormatsResponse{
		SupportedFormats: SupportedAudioFormats,
		MaxFileSize:      "25MB",
		MaxDuration:      "unlimited",
		Model:            s.cfg.WhisperModel,
	}
}

func (s *VoiceService) Transcribe(file io.Reader, filename string, size int64, contentType string) (*dto.VoiceUploadResponse, error) {
	started := time.Now()

	if err := validateAudioUpload(filename, size, contentType); err != nil {
		return nil, err
	}

	whisper, err := s.callWhisper(file, filename)
	if err != nil {
		return nil, &VoiceProcessingError{Message: "speech-to-text call failed", Err: err}
	}

	text := strings.TrimSpace(whisper.Text)
	if text == "" {
		return nil, &VoiceProcessingError{Message: "no speech could be extracted from the audio"}
	}
	if len(text) > maxTranscriptLength {
		return nil, &VoiceProcessingError{Message: "transcribed text is too long, please record a shorter clip"}
	}

	if !s.moderation.IsContentSafe(text) {
		return nil, ErrContentInappropriate
	}

	return &dto.VoiceUploadResponse{
		TranscribedText:  text,
		ProcessingTimeMs: time.Since(started).Milliseconds(),
		Language:         whisper.Language,
		Confidence:       confidenceOf(whisper.Segments),
	}, nil
}

func (s *VoiceService) callWhisper(file io.Reader, filename string) (*whisperResponse, error) {
	var parsed whisperResponse

	resp, err := s.client.R().
		SetAuthToken(s.cfg.OpenAIAPIKey).
		SetFileReader("file", filename, file).
		SetFormData(map[string]string{
			"model":           s.cfg.WhisperModel,
			"language":        s.cfg.WhisperLanguage,
			"response_format": whisperResponseFormat,
			"temperature":     whisperTemperature,
		}).
		SetResult(&parsed).
		Post(s.cfg.WhisperEndpoint)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("whisper API returned status %d", resp.StatusCode())
	}

	return &parsed, nil
}

func validateAudioUpload(filename string, size int64, contentType string) error {
	if size == 0 {
		return errors.New("uploaded file is empty")
	}
	if size > MaxAudioFileSize {
		return errors.New("file too large, the limit is 25MB")
	}

	ext := fileExtension(filename)
	supported := false
	for _, f := range SupportedAudioFormats {
		if ext == f {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported file format, supported formats: %s", strings.Join(SupportedAudioFormats, ", "))
	}

	for _, prefix := range validAudioMimePrefixes {
		if strings.HasPrefix(contentType, prefix) {
			return nil
		}
	}
	return errors.New("not a valid audio file")
}

func fileExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

// confidenceOf estimates transcript confidence from segment log
// probabilities; Whisper has no native confidence signal.
func confidenceOf(segments []whisperSegment) *float64 {
	var sum float64
	var n int
	for _, seg := range segments {
		if seg.AvgLogprob != nil {
			sum += *seg.AvgLogprob
			n++
		}
	}
	if n == 0 {
		return nil
	}

	c := math.Exp(sum / float64(n))
	if c > 1 {
		c = 1
	}
	if c < 0 {
		c = 0
	}
	return &c
}
