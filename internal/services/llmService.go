package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"google.golang.org/api/option"

	"ecotri/internal/geo"
	"ecotri/internal/models"
)

const (
	textModel  = "gemini-2.5-flash"
	imageModel = "gemini-2.5-flash-image"
)

// AnalyzeInput is either a free-text query or an image payload, never both.
type AnalyzeInput struct {
	Query     string
	ImageData []byte
	MimeType  string
}

func (in AnalyzeInput) IsImage() bool { return len(in.ImageData) > 0 }

// Assistant is the generative collaborator boundary. The session logic only
// sees this interface so it can be exercised with canned responses.
type Assistant interface {
	AnalyzeWaste(ctx context.Context, input AnalyzeInput) (*models.SortingResult, error)
	FindNearbyPoints(ctx context.Context, bin models.BinType, itemName string, lat, lng float64) ([]models.CollectionPoint, error)
	GenerateItemImage(ctx context.Context, itemName string) (string, error)
	Chat(ctx context.Context, itemName string, bin models.BinType, transcript []models.ChatMessage, message string) (string, error)
}

// GeminiAssistant talks to Google's generative API: langchaingo for text
// generation and the genai client for the image model, which returns binary
// parts langchaingo cannot carry. Both clients are resolved lazily from
// GEMINI_API_KEY so a misconfigured deployment fails with an explicit
// not-configured error at first use instead of at startup.
type GeminiAssistant struct {
	mu     sync.Mutex
	llm    *googleai.GoogleAI
	client *genai.Client
}

func NewGeminiAssistant() *GeminiAssistant {
	return &GeminiAssistant{}
}

func (a *GeminiAssistant) clients(ctx context.Context) (*googleai.GoogleAI, *genai.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.llm != nil && a.client != nil {
		return a.llm, a.client, nil
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, nil, models.ErrNotConfigured
	}

	llm, err := googleai.New(ctx, googleai.WithAPIKey(apiKey), googleai.WithDefaultModel(textModel))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Google AI LLM: %w", err)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	a.llm = llm
	a.client = client
	return a.llm, a.client, nil
}

// wireResult is the JSON shape the classification prompt demands.
type wireResult struct {
	ItemName             string      `json:"itemName"`
	Bin                  string      `json:"bin"`
	Explanation          string      `json:"explanation"`
	IsRecyclable         bool        `json:"isRecyclable"`
	Tips                 []string    `json:"tips"`
	Impact               *wireImpact `json:"impact"`
	ZeroWasteAlternative string      `json:"zeroWasteAlternative"`
	FollowUpQuestions    []string    `json:"followUpQuestions"`
}

type wireImpact struct {
	CO2SavedGrams    float64 `json:"co2SavedGrams"`
	WaterSavedLiters float64 `json:"waterSavedLiters"`
	EnergySaved      string  `json:"energySaved"`
}

const analyzeSystemPrompt = `You are a waste sorting expert. Reply ONLY with pure JSON, no markdown.
Bins: YELLOW (packaging, plastics, paper), GLASS (bottles, jars), GENERAL (non-recyclable household waste), COMPOST (food, garden), DROP_OFF_CENTER (bulky, rubble, hazardous), TAKE_BACK_POINT (batteries, bulbs, textiles).
Shape: {"itemName": string, "bin": one of the bins, "explanation": string, "isRecyclable": bool, "tips": [string], "impact": {"co2SavedGrams": number, "waterSavedLiters": number, "energySaved": string}, "zeroWasteAlternative": string, "followUpQuestions": [string, at most 3]}.
If you do not recognize the item, return an empty JSON object.`

func (a *GeminiAssistant) AnalyzeWaste(ctx context.Context, input AnalyzeInput) (*models.SortingResult, error) {
	llm, _, err := a.clients(ctx)
	if err != nil {
		return nil, err
	}

	parts := []llms.ContentPart{llms.TextPart(analyzeSystemPrompt)}
	if input.IsImage() {
		parts = append(parts,
			llms.BinaryPart(input.MimeType, input.ImageData),
			llms.TextPart("Identify this waste item precisely and give the sorting instructions."))
	} else {
		parts = append(parts, llms.TextPart(fmt.Sprintf("Sorting instructions for this item: %q.", input.Query)))
	}

	resp, err := llm.GenerateContent(ctx, []llms.MessageContent{{Role: llms.ChatMessageTypeHuman, Parts: parts}})
	if err != nil {
		if isCredentialError(err) {
			return nil, fmt.Errorf("%w: %v", models.ErrNotConfigured, err)
		}
		return nil, fmt.Errorf("failed to generate classification: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, models.ErrNoMatch
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(stripFences(resp.Choices[0].Content)), &wire); err != nil {
		log.Warn().Err(err).Str("raw_response", resp.Choices[0].Content).Msg("Classification response is not valid JSON")
		return nil, models.ErrNoMatch
	}

	// Fail closed: no partially-typed results.
	if wire.ItemName == "" {
		return nil, models.ErrNoMatch
	}
	bin, err := models.ParseBinType(wire.Bin)
	if err != nil {
		log.Warn().Str("bin", wire.Bin).Str("item", wire.ItemName).Msg("Classification returned an unknown bin")
		return nil, models.ErrNoMatch
	}

	result := &models.SortingResult{
		ItemName:             wire.ItemName,
		Bin:                  bin,
		Explanation:          wire.Explanation,
		IsRecyclable:         wire.IsRecyclable,
		Tips:                 wire.Tips,
		ZeroWasteAlternative: wire.ZeroWasteAlternative,
		FollowUpQuestions:    wire.FollowUpQuestions,
	}
	if wire.Impact != nil {
		result.Impact = &models.Impact{
			CO2SavedGrams:    wire.Impact.CO2SavedGrams,
			WaterSavedLiters: wire.Impact.WaterSavedLiters,
			EnergySaved:      wire.Impact.EnergySaved,
		}
	}
	return result, nil
}

type wirePoint struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
}

func (a *GeminiAssistant) FindNearbyPoints(ctx context.Context, bin models.BinType, itemName string, lat, lng float64) ([]models.CollectionPoint, error) {
	llm, _, err := a.clients(ctx)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"List real collection points near lat:%f, lng:%f where %q (%s) can be dropped off. "+
			"Reply ONLY with a JSON array of objects {\"name\": string, \"uri\": string}, "+
			"where uri is a map link embedding the place coordinates as @lat,lng. "+
			"At most 8 entries. Return [] if you know none.",
		lat, lng, itemName, bin.Info().Label,
	)

	raw, err := llms.GenerateFromSinglePrompt(ctx, llm, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to look up nearby points: %w", err)
	}

	var wire []wirePoint
	if err := json.Unmarshal([]byte(stripFences(raw)), &wire); err != nil {
		log.Warn().Err(err).Str("raw_response", raw).Msg("Nearby points response is not valid JSON")
		return nil, fmt.Errorf("failed to parse nearby points: %w", err)
	}

	points := make([]models.CollectionPoint, 0, len(wire))
	for _, wp := range wire {
		// A point without a URI is not usable.
		if wp.URI == "" {
			continue
		}
		p := models.CollectionPoint{Name: wp.Name, URI: wp.URI}
		if p.Name == "" {
			p.Name = "Collection point"
		}
		if plat, plng, ok := geo.ExtractLatLng(wp.URI); ok {
			p.Lat, p.Lng = &plat, &plng
		}
		points = append(points, p)
	}
	return points, nil
}

func (a *GeminiAssistant) GenerateItemImage(ctx context.Context, itemName string) (string, error) {
	_, client, err := a.clients(ctx)
	if err != nil {
		return "", err
	}

	model := client.GenerativeModel(imageModel)
	prompt := fmt.Sprintf("A clean 3D isometric icon of %s on a solid white background, high quality.", itemName)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate item image: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if blob, ok := part.(genai.Blob); ok {
				return base64.StdEncoding.EncodeToString(blob.Data), nil
			}
		}
	}
	return "", nil
}

func (a *GeminiAssistant) Chat(ctx context.Context, itemName string, bin models.BinType, transcript []models.ChatMessage, message string) (string, error) {
	llm, _, err := a.clients(ctx)
	if err != nil {
		return "", err
	}

	system := fmt.Sprintf(
		"You are a friendly waste sorting assistant. The user just classified %q, which goes to %s. "+
			"Answer follow-up questions concisely in plain text.",
		itemName, bin.Info().Label,
	)
	messages := []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeSystem, system)}
	for _, msg := range transcript {
		role := llms.ChatMessageTypeHuman
		if msg.Role == models.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, msg.Text))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, message))

	resp, err := llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate chat reply: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat reply was empty")
	}
	return resp.Choices[0].Content, nil
}

// stripFences removes markdown code block fences the model sometimes wraps
// JSON in despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

func isCredentialError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "api key") || strings.Contains(msg, "permission denied") || strings.Contains(msg, "unauthenticated")
}
