package suites

import (
	"context"
	"testing"
	"time"

	"github.com/llmscope/llmscope/pkg/models"
)

// scriptedAdapter replays canned responses in call order. When the script
// runs out it repeats the last entry.
type scriptedAdapter struct {
	script []scriptStep
	calls  int
}

type scriptStep struct {
	resp *models.GenerationResponse
	err  error
}

func respond(text string, latencyMs int64) scriptStep {
	return scriptStep{resp: &models.GenerationResponse{
		Text:         text,
		FinishReason: "stop",
		LatencyMs:    latencyMs,
	}}
}

func (a *scriptedAdapter) Name() string { return "scripted" }

func (a *scriptedAdapter) Generate(_ context.Context, _ models.GenerationRequest) (*models.GenerationResponse, error) {
	i := a.calls
	if i >= len(a.script) {
		i = len(a.script) - 1
	}
	a.calls++
	step := a.script[i]
	return step.resp, step.err
}

func (a *scriptedAdapter) ValidateConfig() error               { return nil }
func (a *scriptedAdapter) TestConnection(context.Context) bool { return true }

var fastOptions = Options{}

func TestValidSuites(t *testing.T) {
	want := []string{"censorship", "bias", "sidechannel", "edge-cases"}
	got := Valid()
	if len(got) != len(want) {
		t.Fatalf("valid suites = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("suite[%d] = %s, want %s", i, got[i], want[i])
		}
		if !IsValid(want[i]) {
			t.Errorf("IsValid(%s) = false", want[i])
		}
	}
	if IsValid("telepathy") {
		t.Error("IsValid(telepathy) = true")
	}
}

func TestPauseHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	pause(ctx, 5*time.Second)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("pause with cancelled context took %v", elapsed)
	}
}
