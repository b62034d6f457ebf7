package dto

type SummaryRequest struct {
	Activities []string `json:"activities"`
	Date       string   `json:"date"`
}

type ReinterpretationRequest struct {
	DiaryContent string `json:"diary_content"`
	Date         string `json:"date"`
}

type DailyFeedbackRequest struct {
	Date string `json:"date"`
}

// AITextResponse carries generated text plus its provenance: "model" when
// the upstream produced it, "fallback" when a hand-authored message was used.
type AITextResponse struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}
