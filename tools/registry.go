package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	"github.com/uslanozan/asset-smith/models"
)

var (
	ErrToolNotFound     = errors.New("tool not found")
	ErrInvalidArguments = errors.New("invalid tool arguments")
	ErrDuplicateTool    = errors.New("tool already registered")
)

// HandlerFunc şemaya göre doğrulanmış argümanlarla çağrılır ve modele dönecek metni üretir.
type HandlerFunc func(ctx context.Context, args json.RawMessage) (string, error)

// Tool, modelin çağırabileceği tek bir yetenektir.
type Tool struct {
	Name        string
	Description string
	Schema      json.RawMessage
	Handler     HandlerFunc

	validator *gojsonschema.Schema
}

// NewTool parametre şemasını T struct'ından üretir ve argümanları T'ye çözüp fn'e verir.
func NewTool[T any](name, description string, fn func(ctx context.Context, args T) (string, error)) (Tool, error) {
	schema, err := ReflectSchema(new(T))
	if err != nil {
		return Tool{}, fmt.Errorf("tool %s: %w", name, err)
	}
	handler := func(ctx context.Context, raw json.RawMessage) (string, error) {
		var args T
		if err := json.Unmarshal(raw, &args); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		}
		return fn(ctx, args)
	}
	return newTool(name, description, schema, handler)
}

func newTool(name, description string, schema json.RawMessage, handler HandlerFunc) (Tool, error) {
	validator, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema))
	if err != nil {
		return Tool{}, fmt.Errorf("tool %s: şema derlenemedi: %w", name, err)
	}
	return Tool{
		Name:        name,
		Description: description,
		Schema:      schema,
		Handler:     handler,
		validator:   validator,
	}, nil
}

// ReflectSchema v'nin tipinden, model sağlayıcılarının kabul ettiği düz (ref'siz) bir JSON Schema üretir.
func ReflectSchema(v any) (json.RawMessage, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	s := r.Reflect(v)
	s.Version = ""
	s.ID = ""
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Tüm araçları tutan ve yöneten merkezi registry
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

func (r *Registry) Register(tool Tool) error {
	if tool.Name == "" || tool.Handler == nil || tool.validator == nil {
		return fmt.Errorf("tool %q eksik tanımlanmış", tool.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[tool.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, tool.Name)
	}
	r.tools[tool.Name] = tool
	return nil
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Specs araçları isim sırasıyla, modele gönderilecek formatta döndürür.
func (r *Registry) Specs() []models.ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]models.ToolSpec, 0, len(r.tools))
	for _, tool := range r.tools {
		specs = append(specs, models.ToolSpec{
			Name:        tool.Name,
			Description: tool.Description,
			Schema:      tool.Schema,
		})
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// Call argümanları şemaya göre doğrular, sonra aracı çalıştırır.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	tool, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	if len(strings.TrimSpace(string(args))) == 0 {
		args = json.RawMessage("{}")
	}
	result, err := tool.validator.Validate(gojsonschema.NewBytesLoader(args))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return "", fmt.Errorf("%w: %s", ErrInvalidArguments, strings.Join(msgs, "; "))
	}

	return tool.Handler(ctx, args)
}
