// Package llm wraps the OpenAI vision call that turns a chart image into
// structured technical analysis. The client is initialized lazily on first
// use; the analysis prompt and schema live here, opaque to callers.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"chartsense-app/config"

	openai "github.com/sashabaranov/go-openai"
)

// Generous bound on the vision call; on timeout the caller surfaces a
// generic failure and commits no partial state.
const requestTimeout = 60 * time.Second

var (
	initOnce sync.Once
	client   *openai.Client
)

func getClient() (*openai.Client, error) {
	if config.OPENAI_API_KEY == "" {
		return nil, errors.New("llm not configured: OPENAI_API_KEY not set")
	}
	initOnce.Do(func() {
		cfg := openai.DefaultConfig(config.OPENAI_API_KEY)
		cfg.HTTPClient = &http.Client{Timeout: requestTimeout}
		client = openai.NewClientWithConfig(cfg)
	})
	return client, nil
}

// ChartAnalysis is the structured result the model is asked to return.
type ChartAnalysis struct {
	Trend         string   `json:"trend"`
	Confidence    int      `json:"confidence"`
	RSIValue      int      `json:"rsiValue"`
	RSIStatus     string   `json:"rsiStatus"`
	MACDSignal    string   `json:"macdSignal"`
	MAStatus      string   `json:"maStatus"`
	Patterns      []string `json:"patterns"`
	BuyZoneMin    string   `json:"buyZoneMin"`
	BuyZoneMax    string   `json:"buyZoneMax"`
	StopLoss      string   `json:"stopLoss"`
	TakeProfit1   string   `json:"takeProfit1"`
	TakeProfit2   string   `json:"takeProfit2"`
	RiskReward    string   `json:"riskReward"`
	RiskLevel     string   `json:"riskLevel"`
	Volatility    string   `json:"volatility"`
	TrendStrength int      `json:"trendStrength"`

	Raw json.RawMessage `json:"-"`
}

// AnalyzeChart sends the uploaded chart image to the model and decodes its
// JSON answer.
func AnalyzeChart(ctx context.Context, imageURL, assetName, strategy string) (*ChartAnalysis, error) {
	cl, err := getClient()
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`You are an expert trading analyst. Analyze this trading chart image and provide detailed technical analysis.

Asset: %s
Strategy: %s

Respond with a single JSON object with these fields: trend ("bullish" or "bearish"), confidence (0-100), rsiValue (0-100), rsiStatus ("oversold", "neutral" or "overbought"), macdSignal ("bullish_crossover", "bearish_crossover" or "neutral"), maStatus, patterns (array of strings), buyZoneMin, buyZoneMax, stopLoss, takeProfit1, takeProfit2, riskReward, riskLevel ("low", "medium" or "high"), volatility ("low", "medium" or "high"), trendStrength (0-100).`, assetName, strategy)

	resp, err := cl.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4o,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a professional trading analyst.",
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageURL},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chart analysis call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chart analysis returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	var out ChartAnalysis
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to decode analysis response: %w", err)
	}
	out.Raw = json.RawMessage(raw)
	return &out, nil
}
