package oracle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type recordedCall struct {
	provider, model    string
	prompt, completion int
}

type fakeRecorder struct {
	mu        sync.Mutex
	latencies int
	errors    int
	tokens    []recordedCall
}

func (r *fakeRecorder) ObserveOracleLatency(provider, model string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latencies++
}

func (r *fakeRecorder) ObserveOracleTokens(provider, model string, prompt, completion int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = append(r.tokens, recordedCall{provider, model, prompt, completion})
}

func (r *fakeRecorder) ObserveOracleError(provider, model string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors++
}

// fakeChatModel is a minimal eino chat model returning a fixed reply.
type fakeChatModel struct {
	reply   *schema.Message
	err     error
	lastOpt *model.Options
	input   []*schema.Message
}

func (m *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.input = input
	m.lastOpt = model.GetCommonOptions(nil, opts...)
	if m.err != nil {
		return nil, m.err
	}
	return m.reply, nil
}

func (m *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func TestInstrumentedRecordsUsage(t *testing.T) {
	chat := &fakeChatModel{reply: &schema.Message{
		Role:    schema.Assistant,
		Content: `{"ok": true}`,
		ResponseMeta: &schema.ResponseMeta{
			Usage: &schema.TokenUsage{PromptTokens: 42, CompletionTokens: 7, TotalTokens: 49},
		},
	}}
	rec := &fakeRecorder{}
	o := Instrument(NewEinoWithModel(chat), "openai", "gpt-3.5-turbo", rec)

	text, err := o.Complete(context.Background(), Request{Prompt: "hi", Temperature: 0.1, MaxTokens: 500})
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	if text != `{"ok": true}` {
		t.Errorf("Complete() = %q", text)
	}

	if rec.latencies != 1 || rec.errors != 0 {
		t.Errorf("latencies = %d, errors = %d, want 1, 0", rec.latencies, rec.errors)
	}
	if len(rec.tokens) != 1 || rec.tokens[0] != (recordedCall{"openai", "gpt-3.5-turbo", 42, 7}) {
		t.Errorf("tokens = %+v", rec.tokens)
	}

	if chat.lastOpt.Temperature == nil || *chat.lastOpt.Temperature != float32(0.1) {
		t.Errorf("temperature option not forwarded: %+v", chat.lastOpt)
	}
	if chat.lastOpt.MaxTokens == nil || *chat.lastOpt.MaxTokens != 500 {
		t.Errorf("max tokens option not forwarded: %+v", chat.lastOpt)
	}
	if len(chat.input) != 1 || chat.input[0].Role != schema.User || chat.input[0].Content != "hi" {
		t.Errorf("unexpected messages: %+v", chat.input)
	}
}

func TestInstrumentedRecordsErrors(t *testing.T) {
	rec := &fakeRecorder{}
	boom := errors.New("connection refused")
	o := Instrument(Func(func(ctx context.Context, req Request) (string, error) {
		return "", boom
	}), "anthropic", "claude", rec)

	_, err := o.Complete(context.Background(), Request{Prompt: "hi"})
	if !errors.Is(err, boom) {
		t.Fatalf("Complete() error = %v, want %v", err, boom)
	}
	if rec.errors != 1 || rec.latencies != 1 {
		t.Errorf("errors = %d, latencies = %d, want 1, 1", rec.errors, rec.latencies)
	}
	if len(rec.tokens) != 0 {
		t.Errorf("tokens recorded on failure: %+v", rec.tokens)
	}
}

func TestInstrumentedNilRecorder(t *testing.T) {
	o := Instrument(Static(`{}`), "static", "none", nil)
	if _, err := o.Complete(context.Background(), Request{}); err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
}

// TestEinoEmptyResponse verifies a blank reply is returned as text and only
// fails later, at decoding.
func TestEinoEmptyResponse(t *testing.T) {
	tests := []struct {
		name  string
		reply *schema.Message
	}{
		{"blank content", &schema.Message{Role: schema.Assistant, Content: "  "}},
		{"nil message", nil},
	}

	decoder := MustDecoder("empty", `{"type": "object"}`)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			o := Instrument(NewEinoWithModel(&fakeChatModel{reply: tt.reply}), "openai", "gpt-3.5-turbo", rec)

			text, err := o.Complete(context.Background(), Request{Prompt: "hi"})
			if err != nil {
				t.Fatalf("Complete() error = %v, want nil", err)
			}
			if rec.errors != 0 {
				t.Errorf("errors recorded = %d, want 0", rec.errors)
			}

			var v map[string]any
			if err := decoder.Decode(text, &v); !errors.Is(err, ErrNoObject) {
				t.Errorf("Decode(%q) error = %v, want ErrNoObject", text, err)
			}
		})
	}
}

func TestStaticHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Static("x").Complete(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Complete() error = %v, want context.Canceled", err)
	}
}
