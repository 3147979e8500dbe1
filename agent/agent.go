package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/uslanozan/asset-smith/config"
	"github.com/uslanozan/asset-smith/llm"
	"github.com/uslanozan/asset-smith/logger"
	"github.com/uslanozan/asset-smith/models"
	"github.com/uslanozan/asset-smith/tools"
)

const (
	DefaultMaxSteps = 8
	NoAnswer        = "No answer generated"

	DefaultSystemPrompt = `You are an asset management assistant. You help the user understand the assets stored in their inventory.
Whenever the question is about stored assets (what exists, their values, categories, counts or totals), call the query_assets tool first and answer only from its output.
If the tool reports that no assets were found, say so plainly. Do not invent assets or values.`
)

var ErrMaxStepsExceeded = errors.New("agent exceeded max steps without a final answer")

// Agent tek bir soruyu, model araç istemeyi bırakana kadar model ve araçlar arasında gezdirir.
type Agent struct {
	model        llm.ChatModel
	registry     *tools.Registry
	memory       MemoryStore
	log          *logger.Logger
	maxSteps     int
	systemPrompt string
}

// Factory her istek için yeni bir model istemcisi ve Agent kurar.
type Factory struct {
	Cfg      *config.Config
	Log      *logger.Logger
	Registry *tools.Registry
	Memory   MemoryStore

	// NewModel nil ise llm.NewChatModel kullanılır.
	NewModel func(cfg config.LLMConfig, log *logger.Logger) (llm.ChatModel, error)
}

func (f *Factory) New() (*Agent, error) {
	newModel := f.NewModel
	if newModel == nil {
		newModel = llm.NewChatModel
	}
	model, err := newModel(f.Cfg.LLM, f.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to build chat model: %w", err)
	}
	return New(model, f.Registry, f.Memory, f.Log, f.Cfg.Agent), nil
}

func New(model llm.ChatModel, registry *tools.Registry, memory MemoryStore, log *logger.Logger, cfg config.AgentConfig) *Agent {
	a := &Agent{
		model:        model,
		registry:     registry,
		memory:       memory,
		log:          log,
		maxSteps:     cfg.MaxSteps,
		systemPrompt: cfg.SystemPrompt,
	}
	if a.maxSteps <= 0 {
		a.maxSteps = DefaultMaxSteps
	}
	if a.systemPrompt == "" {
		a.systemPrompt = DefaultSystemPrompt
	}
	return a
}

// Run soruyu cevaplar. sessionID boş değilse geçmiş yüklenir ve bu turun mesajları hafızaya eklenir.
func (a *Agent) Run(ctx context.Context, sessionID, question string) (string, error) {
	ctx, span := otel.Tracer("asset-smith/agent").Start(ctx, "agent.run")
	defer span.End()
	span.SetAttributes(attribute.Bool("agent.session", sessionID != ""))

	answer, err := a.run(ctx, sessionID, question)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return answer, err
}

func (a *Agent) run(ctx context.Context, sessionID, question string) (string, error) {
	var history []models.ChatMessage
	if sessionID != "" && a.memory != nil {
		var err error
		history, err = a.memory.Load(ctx, sessionID)
		if err != nil {
			return "", err
		}
	}

	userMsg := models.ChatMessage{Role: models.RoleUser, Content: question}
	messages := make([]models.ChatMessage, 0, len(history)+2)
	messages = append(messages, models.ChatMessage{Role: models.RoleSystem, Content: a.systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, userMsg)

	// bu turda üretilen, hafızaya yazılacak mesajlar
	turn := []models.ChatMessage{userMsg}
	specs := a.registry.Specs()

	for step := 1; step <= a.maxSteps; step++ {
		resp, err := a.model.Chat(ctx, llm.ChatRequest{Messages: messages, Tools: specs})
		if err != nil {
			return "", fmt.Errorf("model call failed: %w", err)
		}
		reply := resp.Message
		reply.Role = models.RoleAssistant
		messages = append(messages, reply)
		turn = append(turn, reply)

		if len(reply.ToolCalls) == 0 {
			answer := reply.Content
			if strings.TrimSpace(answer) == "" {
				answer = NoAnswer
			}
			a.log.Info("agent answered", "steps", step, "session_id", sessionID)
			a.remember(ctx, sessionID, turn)
			return answer, nil
		}

		for _, tc := range reply.ToolCalls {
			out, err := a.callTool(ctx, tc)
			if err != nil {
				return "", err
			}
			toolMsg := models.ChatMessage{
				Role:       models.RoleTool,
				Content:    out,
				ToolCallID: tc.ID,
				Name:       tc.Name,
			}
			messages = append(messages, toolMsg)
			turn = append(turn, toolMsg)
		}
	}

	a.log.Warn("agent gave up", "max_steps", a.maxSteps, "session_id", sessionID)
	return "", ErrMaxStepsExceeded
}

// callTool bilinmeyen araç ve geçersiz argüman hatalarını modele metin olarak geri verir,
// diğer hatalar isteği sonlandırır.
func (a *Agent) callTool(ctx context.Context, tc models.ToolCall) (string, error) {
	a.log.Debug("calling tool", "tool", tc.Name, "call_id", tc.ID)
	out, err := a.registry.Call(ctx, tc.Name, tc.Arguments)
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, tools.ErrToolNotFound), errors.Is(err, tools.ErrInvalidArguments):
		a.log.Warn("tool call rejected", "tool", tc.Name, "error", err)
		return "error: " + err.Error(), nil
	default:
		return "", fmt.Errorf("tool %s failed: %w", tc.Name, err)
	}
}

// remember cevap zaten üretildiği için hafıza hatasını sadece loglar.
func (a *Agent) remember(ctx context.Context, sessionID string, turn []models.ChatMessage) {
	if sessionID == "" || a.memory == nil {
		return
	}
	if err := a.memory.Append(ctx, sessionID, turn...); err != nil {
		a.log.Error("failed to save session memory", "session_id", sessionID, "error", err)
	}
}
