package coach

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"
)

// Expert is a model chat with its own instructions and tools. Other experts
// can consult it as a function taking a question.
type Expert struct {
	Name        string
	Description string
	ModelName   string
	Config      *genai.GenerateContentConfig
	Library     Library // serves the function calls of the expert, if any

	chat *genai.Chat
}

func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return fmt.Errorf("cannot start %s: %w", e.Name, err)
	}
	e.chat = chat
	return nil
}

// maxTurns bounds the function call round trips for a single question.
const maxTurns = 8

// Ask sends parts to the expert and serves every function call of its
// replies until it answers with text.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (*genai.Content, error) {
	if e.chat == nil {
		return nil, fmt.Errorf("%s is not started", e.Name)
	}
	for range maxTurns {
		resp, err := e.chat.Send(ctx, parts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name, err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return nil, fmt.Errorf("no response from %s", e.Name)
		}
		content := resp.Candidates[0].Content

		parts = e.serve(ctx, content)
		if len(parts) == 0 {
			if textOf(content) == "" {
				return nil, fmt.Errorf("empty response from %s", e.Name)
			}
			return content, nil
		}
	}
	return nil, fmt.Errorf("%s kept calling functions without answering", e.Name)
}

// serve answers the function calls in content.
func (e *Expert) serve(ctx context.Context, content *genai.Content) []*genai.Part {
	var responses []*genai.Part
	for _, p := range content.Parts {
		call := p.FunctionCall
		if call == nil {
			continue
		}
		var resp *genai.FunctionResponse
		if e.Library == nil {
			resp = errorResponse(call.ID, call.Name, fmt.Errorf("%s has no functions", e.Name))
		} else {
			log.Printf("%s calls %s(%v)", e.Name, call.Name, call.Args)
			resp = e.Library(ctx, call)
		}
		responses = append(responses, &genai.Part{FunctionResponse: resp})
	}
	return responses
}

// Declaration describes the expert as a function of a question.
func (e *Expert) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        e.Name,
		Description: e.Description,
		Parameters: &genai.Schema{
			Type:     genai.TypeObject,
			Required: []string{"question"},
			Properties: map[string]*genai.Schema{
				"question": {Type: genai.TypeString, Description: "What to ask, with the context the expert needs."},
			},
		},
		Response: &genai.Schema{Type: genai.TypeString, Description: "The answer, in markdown."},
	}
}

// Call asks the question in args.
func (e *Expert) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	question, ok := args["question"].(string)
	if !ok {
		return errorResponse(id, e.Name, fmt.Errorf("question must be a string, got %T", args["question"]))
	}
	answer, err := e.Ask(ctx, &genai.Part{Text: question})
	if err != nil {
		return errorResponse(id, e.Name, err)
	}
	return &genai.FunctionResponse{ID: id, Name: e.Name, Response: map[string]any{"output": textOf(answer)}}
}

func errorResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"error": err.Error()}}
}
