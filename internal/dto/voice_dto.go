package dto

type VoiceUploadResponse struct {
	TranscribedText  string   `json:"transcribed_text"`
	ProcessingTimeMs int64    `json:"processing_time_ms"`
	Language         string   `json:"language,omitempty"`
	Confidence       *float64 `json:"confidence,omitempty"`
}

type SupportedFormatsResponse struct {
	SupportedFormats []string `json:"supported_formats"`
	MaxFileSize      string   `json:"max_file_size"`
	MaxDuration      string   `json:"max_duration"`
	Model            string   `json:"model"`
}
