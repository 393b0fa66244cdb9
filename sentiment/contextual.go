package sentiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// ContextualConfig wraps the paths needed by the ONNX runtime session.
type ContextualConfig struct {
	OrtLibrary    string
	ModelPath     string
	TokenizerPath string
	MaxSeqLen     int
}

// baseScores maps the five model classes (1 to 5 stars) onto the 0-10
// scale before contextual adjustment.
var baseScores = [5]float64{1.0, 3.0, 5.0, 7.5, 9.0}

// ContextualAnalyzer scores text with a five-class multilingual sentiment
// model and adjusts the result with domain keywords. The model is loaded
// once on first use and the session is reused for the whole process;
// inference calls are serialized.
type ContextualAnalyzer struct {
	cfg ContextualConfig

	initOnce sync.Once
	initErr  error
	tk       *tokenizer.Tokenizer
	session  *ort.DynamicAdvancedSession

	runMu sync.Mutex
}

// NewContextualAnalyzer prepares a lazy analyzer. No model resources are
// touched until the first Analyze or an explicit Load.
func NewContextualAnalyzer(cfg ContextualConfig) *ContextualAnalyzer {
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = 512
	}
	return &ContextualAnalyzer{cfg: cfg}
}

// Load forces model initialization, returning the load error callers use
// to decide whether to fall back to the lexicon analyzer.
func (a *ContextualAnalyzer) Load() error {
	a.initOnce.Do(a.initialize)
	return a.initErr
}

func (a *ContextualAnalyzer) initialize() {
	if a.cfg.ModelPath == "" || a.cfg.TokenizerPath == "" {
		a.initErr = errors.New("model and tokenizer paths are required")
		return
	}
	if a.cfg.OrtLibrary != "" {
		ort.SetSharedLibraryPath(a.cfg.OrtLibrary)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			a.initErr = fmt.Errorf("initialize onnxruntime: %w", err)
			return
		}
	}
	tk, err := pretrained.FromFile(a.cfg.TokenizerPath)
	if err != nil {
		a.initErr = fmt.Errorf("load tokenizer: %w", err)
		return
	}
	session, err := ort.NewDynamicAdvancedSession(a.cfg.ModelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"logits"}, nil)
	if err != nil {
		a.initErr = fmt.Errorf("load model: %w", err)
		return
	}
	a.tk = tk
	a.session = session
}

// Close releases the runtime session. The analyzer is unusable after.
func (a *ContextualAnalyzer) Close() error {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	if a.session != nil {
		err := a.session.Destroy()
		a.session = nil
		return err
	}
	return nil
}

// Analyze classifies one text. Empty and placeholder input returns the
// neutral default without touching the model.
func (a *ContextualAnalyzer) Analyze(ctx context.Context, text string) (Result, error) {
	if IsPlaceholder(text) {
		return NeutralResult(), nil
	}
	clean := Preprocess(text)
	if clean == "" {
		return NeutralResult(), nil
	}
	if err := a.Load(); err != nil {
		return NeutralResult(), err
	}
	if err := ctx.Err(); err != nil {
		return NeutralResult(), err
	}

	base, err := a.classify(clean)
	if err != nil {
		return NeutralResult(), err
	}
	score := base + contextAdjustment(strings.ToLower(clean))
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	score = math.Round(score*10) / 10
	return Result{Label: LabelForScore(score), Score: score}, nil
}

// classify runs the model and returns the base score for the most
// probable class.
func (a *ContextualAnalyzer) classify(text string) (float64, error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	if a.session == nil {
		return 0, errors.New("analyzer is closed")
	}

	encoding, err := a.tk.EncodeSingle(text, true)
	if err != nil {
		return 0, fmt.Errorf("tokenize: %w", err)
	}
	ids := encoding.Ids
	mask := encoding.AttentionMask
	if len(ids) > a.cfg.MaxSeqLen {
		ids = ids[:a.cfg.MaxSeqLen]
		mask = mask[:a.cfg.MaxSeqLen]
	}
	inputIds := make([]int64, len(ids))
	attention := make([]int64, len(ids))
	for i := range ids {
		inputIds[i] = int64(ids[i])
		attention[i] = int64(mask[i])
	}

	shape := ort.NewShape(1, int64(len(inputIds)))
	idTensor, err := ort.NewTensor(shape, inputIds)
	if err != nil {
		return 0, fmt.Errorf("build input tensor: %w", err)
	}
	defer idTensor.Destroy()
	maskTensor, err := ort.NewTensor(shape, attention)
	if err != nil {
		return 0, fmt.Errorf("build mask tensor: %w", err)
	}
	defer maskTensor.Destroy()
	logits, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(baseScores))))
	if err != nil {
		return 0, fmt.Errorf("build output tensor: %w", err)
	}
	defer logits.Destroy()

	if err := a.session.Run([]ort.Value{idTensor, maskTensor}, []ort.Value{logits}); err != nil {
		return 0, fmt.Errorf("run model: %w", err)
	}

	data := logits.GetData()
	best := 0
	for i := 1; i < len(data) && i < len(baseScores); i++ {
		if data[i] > data[best] {
			best = i
		}
	}
	return baseScores[best], nil
}
