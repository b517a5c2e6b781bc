// ABOUTME: Local sentence-transformer embeddings through onnxruntime and a HuggingFace tokenizer.json.
// ABOUTME: Runs the model once per text and mean-pools last_hidden_state over the attention mask.
package embeddings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

const (
	// DefaultMaxSeqLen caps the token count passed to the model.
	DefaultMaxSeqLen = 256

	// DefaultONNXDimension matches all-MiniLM-L6-v2.
	DefaultONNXDimension = 384

	defaultONNXOutput = "last_hidden_state"
)

var defaultONNXInputs = []string{"input_ids", "attention_mask", "token_type_ids"}

// ONNXConfig locates the model files and the onnxruntime shared library.
type ONNXConfig struct {
	SharedLibraryPath string
	ModelPath         string
	TokenizerPath     string
	MaxSeqLen         int
	Dimension         int
	InputNames        []string
	OutputName        string
}

// ortEnvMu serializes onnxruntime environment setup, which is process-global.
var ortEnvMu sync.Mutex

type onnxModel struct {
	tk         *tokenizer.Tokenizer
	session    *ort.DynamicAdvancedSession
	inputNames []string
	maxSeqLen  int
	dim        int
}

// ONNXLoader returns a Loader that initializes onnxruntime, the tokenizer, and the session.
func ONNXLoader(cfg ONNXConfig) Loader {
	return func(ctx context.Context) (Model, error) {
		return loadONNX(cfg)
	}
}

func loadONNX(cfg ONNXConfig) (*onnxModel, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("onnx model path is required")
	}
	if cfg.TokenizerPath == "" {
		return nil, errors.New("tokenizer path is required")
	}
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = DefaultMaxSeqLen
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = DefaultONNXDimension
	}
	if len(cfg.InputNames) == 0 {
		cfg.InputNames = defaultONNXInputs
	}
	if cfg.OutputName == "" {
		cfg.OutputName = defaultONNXOutput
	}

	if err := initORT(cfg.SharedLibraryPath); err != nil {
		return nil, err
	}

	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, cfg.InputNames, []string{cfg.OutputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create onnx session: %w", err)
	}

	return &onnxModel{
		tk:         tk,
		session:    session,
		inputNames: cfg.InputNames,
		maxSeqLen:  cfg.MaxSeqLen,
		dim:        cfg.Dimension,
	}, nil
}

func initORT(libPath string) error {
	ortEnvMu.Lock()
	defer ortEnvMu.Unlock()
	if ort.IsInitialized() {
		return nil
	}
	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize onnxruntime: %w", err)
	}
	return nil
}

// Encode tokenizes text, runs the model, and mean-pools the token embeddings.
func (m *onnxModel) Encode(ctx context.Context, text string) ([]float32, error) {
	enc, err := m.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize: %w", err)
	}

	ids := truncateTokens(toInt64(enc.Ids), m.maxSeqLen)
	mask := truncateTokens(toInt64(enc.AttentionMask), m.maxSeqLen)
	typeIDs := truncateTokens(toInt64(enc.TypeIds), m.maxSeqLen)
	seqLen := len(ids)
	if seqLen == 0 {
		return nil, errors.New("tokenizer produced no tokens")
	}
	if len(typeIDs) != seqLen {
		typeIDs = make([]int64, seqLen)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	shape := ort.NewShape(1, int64(seqLen))
	byName := map[string][]int64{
		"input_ids":      ids,
		"attention_mask": mask,
		"token_type_ids": typeIDs,
	}

	inputs := make([]ort.Value, 0, len(m.inputNames))
	defer func() {
		for _, v := range inputs {
			_ = v.Destroy()
		}
	}()
	for _, name := range m.inputNames {
		data, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unsupported model input %q", name)
		}
		tensor, err := ort.NewTensor(shape, data)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s tensor: %w", name, err)
		}
		inputs = append(inputs, tensor)
	}

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(seqLen), int64(m.dim)))
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer func() { _ = output.Destroy() }()

	if err := m.session.Run(inputs, []ort.Value{output}); err != nil {
		return nil, fmt.Errorf("onnx inference failed: %w", err)
	}

	return MeanPool(output.GetData(), mask, m.dim), nil
}

// Dimension returns the model's hidden size.
func (m *onnxModel) Dimension() int {
	return m.dim
}

// Close destroys the session. The onnxruntime environment stays up for the process.
func (m *onnxModel) Close() error {
	if m.session == nil {
		return nil
	}
	err := m.session.Destroy()
	m.session = nil
	return err
}

// MeanPool averages the rows of hidden (seqLen x dim, row-major) whose mask entry is non-zero.
func MeanPool(hidden []float32, mask []int64, dim int) []float32 {
	if dim <= 0 {
		return nil
	}
	out := make([]float32, dim)
	var count float32
	for t, m := range mask {
		if m == 0 || (t+1)*dim > len(hidden) {
			continue
		}
		row := hidden[t*dim : (t+1)*dim]
		for i, v := range row {
			out[i] += v
		}
		count++
	}
	if count == 0 {
		return out
	}
	for i := range out {
		out[i] /= count
	}
	return out
}

// truncateTokens keeps at most limit tokens, preserving the final (separator) token.
func truncateTokens(tokens []int64, limit int) []int64 {
	if len(tokens) <= limit || limit < 2 {
		return tokens
	}
	out := make([]int64, limit)
	copy(out, tokens[:limit-1])
	out[limit-1] = tokens[len(tokens)-1]
	return out
}

func toInt64(in []int) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}
