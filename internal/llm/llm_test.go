package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	llmsdk "github.com/hoangvvo/llm-sdk/sdk-go"
	"github.com/hoangvvo/llm-sdk/sdk-go/llmsdktest"
)

func TestAsk_SendsSystemPromptAndQuery(t *testing.T) {
	model := llmsdktest.NewMockLanguageModel()
	model.EnqueueGenerateResult(llmsdktest.NewMockGenerateResultResponse(llmsdk.ModelResponse{
		Content: []llmsdk.Part{
			llmsdk.NewTextPart("Proof of stake "),
			llmsdk.NewTextPart("secures Ethereum."),
		},
	}))

	answer, err := NewAssistant(model).Ask(context.Background(), "what is staking?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "Proof of stake secures Ethereum." {
		t.Fatalf("unexpected answer %q", answer)
	}

	inputs := model.TrackedGenerateInputs()
	if len(inputs) != 1 {
		t.Fatalf("expected 1 generate call, got %d", len(inputs))
	}
	in := inputs[0]
	if in.SystemPrompt == nil || *in.SystemPrompt != SystemPrompt {
		t.Fatalf("system prompt not sent: %v", in.SystemPrompt)
	}
	if len(in.Messages) != 1 || in.Messages[0].UserMessage == nil {
		t.Fatalf("expected a single user message, got %+v", in.Messages)
	}
	if diff := cmp.Diff("what is staking?", in.Messages[0].UserMessage.Content[0].TextPart.Text); diff != "" {
		t.Fatalf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestAsk_Error(t *testing.T) {
	boom := errors.New("connection refused")
	model := llmsdktest.NewMockLanguageModel()
	model.EnqueueGenerateResult(llmsdktest.NewMockGenerateResultError(boom))

	_, err := NewAssistant(model).Ask(context.Background(), "hi")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestAsk_EmptyResponse(t *testing.T) {
	model := llmsdktest.NewMockLanguageModel()
	model.EnqueueGenerateResult(llmsdktest.NewMockGenerateResultResponse(llmsdk.ModelResponse{}))

	_, err := NewAssistant(model).Ask(context.Background(), "hi")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestNewModel_TalksToChatCompletions(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "llama2",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "Bitcoin is a decentralized currency."}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 6, "total_tokens": 16}
		}`))
	}))
	defer srv.Close()

	model := NewModel(Options{BaseURL: srv.URL + "/v1/"})
	if model.ModelID() != DefaultModel {
		t.Fatalf("expected default model, got %s", model.ModelID())
	}

	answer, err := NewAssistant(model).Ask(context.Background(), "what is bitcoin?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "Bitcoin is a decentralized currency." {
		t.Fatalf("unexpected answer %q", answer)
	}
	if gotPath != "/v1/chat/completions" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotAuth != "Bearer ollama" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
}
