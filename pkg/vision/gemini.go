package vision

import (
	"bytes"
	"context"
	"dishcovery/domain"
	"dishcovery/internal/utils"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const extractPrompt = "Analyze this restaurant menu image and extract all the dishes with their details. " +
	"Focus on identifying dish names, descriptions, prices, and categories. Be thorough and accurate. " +
	"Respond ONLY with a valid JSON object of the form " +
	`{"dishes":[{"name":"string","description":"string","price":"string","category":"string"}]}. ` +
	"description, price and category may be omitted when not visible. " +
	"Do not include any explanations, markdown formatting, or extra text."

type geminiExtractor struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiExtractor() Extractor {
	return &geminiExtractor{
		apiKey:  utils.GetConfig("GEMINI_API_KEY"),
		model:   utils.GetConfig("GEMINI_MODEL"),
		baseURL: "https://generativelanguage.googleapis.com",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *geminiExtractor) ExtractDishes(ctx context.Context, image []byte, mimeType string) ([]domain.DishCandidate, error) {
	if len(image) == 0 {
		return nil, domain.ErrEmptyPhoto
	}
	if g.apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	if g.model == "" {
		return nil, fmt.Errorf("GEMINI_MODEL not set")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{
						"text": extractPrompt,
					},
					{
						"inline_data": map[string]interface{}{
							"mime_type": mimeType,
							"data":      base64.StdEncoding.EncodeToString(image),
						},
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.1,
			"topP":        0.8,
			"topK":        40,
		},
	}

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestJSON))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gemini API error: %s - %s", resp.Status, string(bodyBytes))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return nil, err
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty gemini response")
	}

	return parseDishes(geminiResp.Candidates[0].Content.Parts[0].Text)
}

func parseDishes(responseText string) ([]domain.DishCandidate, error) {
	responseText = stripFences(responseText)

	startIdx := strings.Index(responseText, "{")
	endIdx := strings.LastIndex(responseText, "}")
	if startIdx == -1 || endIdx == -1 || startIdx > endIdx {
		return nil, fmt.Errorf("invalid response format: %s", responseText)
	}
	responseText = responseText[startIdx : endIdx+1]

	var parsed struct {
		Dishes []domain.DishCandidate `json:"dishes"`
	}
	if err := json.Unmarshal([]byte(responseText), &parsed); err != nil {
		return nil, err
	}

	// Candidates without a name carry no information the workflow can use.
	dishes := make([]domain.DishCandidate, 0, len(parsed.Dishes))
	for _, d := range parsed.Dishes {
		if strings.TrimSpace(d.Name) == "" {
			continue
		}
		dishes = append(dishes, d)
	}
	return dishes, nil
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}
