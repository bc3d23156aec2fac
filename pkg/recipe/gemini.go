package recipe

import (
	"bytes"
	"context"
	"dishcovery/domain"
	"dishcovery/internal/utils"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type geminiGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiGenerator() Generator {
	return &geminiGenerator{
		apiKey:  utils.GetConfig("GEMINI_API_KEY"),
		model:   utils.GetConfig("GEMINI_MODEL"),
		baseURL: "https://generativelanguage.googleapis.com",
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

func buildRecipePrompt(req domain.GenerateRecipeRequest) string {
	prompt := fmt.Sprintf("Create a detailed home recipe to recreate %q", req.DishName)
	if req.DishDescription != "" {
		prompt += fmt.Sprintf(" (%s)", req.DishDescription)
	}
	if req.RestaurantName != "" {
		prompt += fmt.Sprintf(" from %s", req.RestaurantName)
	}
	prompt += ". Provide a complete recipe that a home cook can follow, including an accurate " +
		"ingredient list with measurements, clear step-by-step instructions, cooking time, " +
		"difficulty level, number of servings, and cuisine type. Make it authentic and " +
		"achievable for home cooking while capturing the essence of the restaurant dish. " +
		"Respond ONLY with a valid JSON object with these fields: " +
		`"title" (string), "ingredients" (array of strings), "instructions" (array of strings), ` +
		`"cook_time" (string), "servings" (string), "difficulty" ("easy", "medium" or "hard"), ` +
		`"cuisine_type" (string). ` +
		"Do not include any explanations, markdown formatting, or extra text."
	return prompt
}

func (g *geminiGenerator) GenerateRecipe(ctx context.Context, req domain.GenerateRecipeRequest) (domain.GeneratedRecipe, error) {
	if g.apiKey == "" {
		return domain.GeneratedRecipe{}, fmt.Errorf("GEMINI_API_KEY not set")
	}
	if g.model == "" {
		return domain.GeneratedRecipe{}, fmt.Errorf("GEMINI_MODEL not set")
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{
						"text": buildRecipePrompt(req),
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.3,
			"topP":        0.8,
			"topK":        40,
		},
	}

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return domain.GeneratedRecipe{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestJSON))
	if err != nil {
		return domain.GeneratedRecipe{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return domain.GeneratedRecipe{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return domain.GeneratedRecipe{}, fmt.Errorf("gemini API error: %s - %s", resp.Status, string(bodyBytes))
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
		return domain.GeneratedRecipe{}, err
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return domain.GeneratedRecipe{}, domain.ErrGenerationFailed
	}

	return parseGeneratedRecipe(geminiResp.Candidates[0].Content.Parts[0].Text)
}

func parseGeneratedRecipe(responseText string) (domain.GeneratedRecipe, error) {
	responseText = strings.TrimSpace(responseText)
	if strings.HasPrefix(responseText, "```json") {
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimSuffix(responseText, "```")
	} else if strings.HasPrefix(responseText, "```") {
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
	}

	startIdx := strings.Index(responseText, "{")
	endIdx := strings.LastIndex(responseText, "}")
	if startIdx == -1 || endIdx == -1 || startIdx > endIdx {
		return domain.GeneratedRecipe{}, fmt.Errorf("invalid response format: %s", responseText)
	}

	var generated domain.GeneratedRecipe
	if err := json.Unmarshal([]byte(responseText[startIdx:endIdx+1]), &generated); err != nil {
		return domain.GeneratedRecipe{}, err
	}

	if generated.Title == "" {
		return domain.GeneratedRecipe{}, domain.ErrGenerationFailed
	}
	generated.Difficulty = normalizeDifficulty(generated.Difficulty)
	return generated, nil
}

func normalizeDifficulty(difficulty string) string {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case domain.DifficultyEasy:
		return domain.DifficultyEasy
	case domain.DifficultyHard:
		return domain.DifficultyHard
	default:
		return domain.DifficultyMedium
	}
}
