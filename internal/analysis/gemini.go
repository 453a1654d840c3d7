// Package analysis sends finished drawings to Gemini for educational
// feedback.
package analysis

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash-lite"

// tutorPrompt asks the model to act as a tutor over whatever was drawn:
// equations get solved step by step, drawings get explained, text gets
// answered.
const tutorPrompt = `Analyze the image provided (which is a drawing or text) and act as an expert educational tutor. Provide a detailed, structured response in Markdown format.

**Structure Your Response As Follows:**

# 1. Identification
- Clearly state what you see in the image (e.g., "This is a handwritten equation," "This is a geometric diagram," "This is a drawing of a biological cell").

# 2. Detailed Explanation
- **If it's Math:**
  - State the problem clearly.
  - Solve it step-by-step, explaining EACH step.
  - State the final answer clearly.
  - Explain the underlying concept (e.g., "This uses the Pythagorean theorem...").
- **If it's a Drawing:**
  - Describe the details of the drawing.
  - Explain the subject matter in depth (e.g., if it's a heart, explain its function).
- **If it's Text/Question:**
  - Answer the question comprehensively.

# 3. Key Learning Points
- Bullet point 2-3 key concepts or facts the user should remember about this topic.

# 4. Real-World Example
- Briefly connect this concept to a real-world application to make it relatable.

**Tone:** Encouraging, clear, and educational.`

// Analyzer produces educational feedback for a base64-encoded image.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, imageData string) (string, error)
}

// GeminiAnalyzer implements Analyzer against the Gemini API.
type GeminiAnalyzer struct {
	client    *genai.Client
	modelName string
}

// NewGeminiAnalyzer creates an analyzer using the given API key and model
// name. An empty model name falls back to DefaultModel.
func NewGeminiAnalyzer(ctx context.Context, apiKey, modelName string) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiAnalyzer{
		client:    client,
		modelName: modelName,
	}, nil
}

// AnalyzeImage sends the drawing to Gemini with the tutor prompt and
// returns the model's markdown response. The image may carry a data URL
// prefix.
func (g *GeminiAnalyzer) AnalyzeImage(ctx context.Context, imageData string) (string, error) {
	if idx := strings.IndexByte(imageData, ','); idx >= 0 {
		imageData = imageData[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	model := g.client.GenerativeModel(g.modelName)

	res, err := model.GenerateContent(ctx, genai.Text(tutorPrompt), genai.ImageData("image/png", raw))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from gemini")
	}

	text, ok := res.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.New("unexpected response format from gemini")
	}

	return string(text), nil
}

// Close releases the underlying API client.
func (g *GeminiAnalyzer) Close() error {
	return g.client.Close()
}
