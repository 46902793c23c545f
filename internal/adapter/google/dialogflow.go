package google

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/ports"
)

type detectIntentRequest struct {
	QueryInput struct {
		Text struct {
			Text         string `json:"text"`
			LanguageCode string `json:"languageCode"`
		} `json:"text"`
	} `json:"queryInput"`
}

type detectIntentResponse struct {
	QueryResult *struct {
		QueryText string `json:"queryText"`
		Intent    *struct {
			DisplayName string `json:"displayName"`
		} `json:"intent"`
		Parameters                map[string]interface{} `json:"parameters"`
		IntentDetectionConfidence float64                `json:"intentDetectionConfidence"`
	} `json:"queryResult"`
}

// IntentDetector calls Dialogflow ES detectIntent.
type IntentDetector struct {
	rest      *restClient
	baseURL   string
	projectID string
	token     string
	log       *zap.Logger
}

func NewIntentDetector(cfg Config, log *zap.Logger) *IntentDetector {
	return &IntentDetector{
		rest:      newRESTClient("dialogflow", cfg, log),
		baseURL:   strings.TrimRight(cfg.DialogflowURL, "/"),
		projectID: cfg.ProjectID,
		token:     cfg.DialogflowToken,
		log:       log,
	}
}

var _ ports.IntentProvider = (*IntentDetector)(nil)

// DetectIntent returns the matched intent. An unmatched query yields an empty name.
func (d *IntentDetector) DetectIntent(ctx context.Context, sessionID, text, languageCode string) (domain.Intent, error) {
	endpoint := fmt.Sprintf("%s/projects/%s/agent/sessions/%s:detectIntent",
		d.baseURL, url.PathEscape(d.projectID), url.PathEscape(sessionID))

	var req detectIntentRequest
	req.QueryInput.Text.Text = text
	req.QueryInput.Text.LanguageCode = languageCode

	header := http.Header{}
	if d.token != "" {
		header.Set("Authorization", "Bearer "+d.token)
	}

	var resp detectIntentResponse
	if err := d.rest.postJSON(ctx, endpoint, header, req, &resp); err != nil {
		return domain.Intent{}, err
	}
	if resp.QueryResult == nil {
		return domain.Intent{}, &domain.ContractError{Provider: "dialogflow", Field: "queryResult"}
	}

	in := domain.Intent{Parameters: resp.QueryResult.Parameters}
	if resp.QueryResult.Intent != nil {
		in.Name = resp.QueryResult.Intent.DisplayName
	}
	d.log.Debug("Intent detected",
		zap.String("session_id", sessionID),
		zap.String("intent", in.Name),
		zap.Float64("confidence", resp.QueryResult.IntentDetectionConfidence),
	)
	return in, nil
}
