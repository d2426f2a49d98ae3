package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"takeoff/logging"
	"takeoff/metrics"
)

// ErrPropertyStoreNotFound is recorded for a model none of the locator's
// accessors could read.
var ErrPropertyStoreNotFound = errors.New("no property store found in model")

// ElementError records one record dropped during a pass.
type ElementError struct {
	ModelID string
	Key     string
	Err     error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("model %s element %s: %v", e.ModelID, e.Key, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

// ExtractionReport describes what a pass skipped and dropped.
type ExtractionReport struct {
	ModelsScanned int             `json:"modelsScanned"`
	SkippedModels []string        `json:"skippedModels"`
	Extracted     int             `json:"extracted"`
	Failures      []*ElementError `json:"-"`
}

// FailureCount returns the number of dropped records.
func (r *ExtractionReport) FailureCount() int {
	return len(r.Failures)
}

// ModelSource hands over the currently loaded models.
type ModelSource interface {
	Models(ctx context.Context) ([]*Model, error)
}

// StaticSource is a fixed list of models.
type StaticSource []*Model

func (s StaticSource) Models(ctx context.Context) ([]*Model, error) {
	return s, nil
}

// recordVisitor handles one record. Records outside the pass return nil.
type recordVisitor func(modelID string, id int64, record RawElementRecord) error

// walker runs the sequential walk shared by both paths.
type walker struct {
	locator *PropertyLocator
	logger  *zap.Logger
	metrics *metrics.Recorder
}

func (w *walker) walk(ctx context.Context, src ModelSource, visit recordVisitor) (*ExtractionReport, error) {
	models, err := src.Models(ctx)
	if err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}

	report := &ExtractionReport{}
	for _, m := range models {
		if m == nil {
			continue
		}
		report.ModelsScanned++
		store, location, ok := w.locator.Locate(m)
		if !ok {
			w.logger.Warn("Property store not found, skipping model",
				zap.String("model", m.ID), zap.Error(ErrPropertyStoreNotFound))
			report.SkippedModels = append(report.SkippedModels, m.ID)
			w.metrics.RecordModel(true)
			continue
		}
		w.metrics.RecordModel(false)
		w.logger.Debug("Property store located",
			zap.String("model", m.ID), zap.String("location", location), zap.Int("records", len(store)))

		for _, key := range sortedKeys(store) {
			if err := w.visitRecord(m.ID, key, store[key], visit); err != nil {
				var elErr *ElementError
				if !errors.As(err, &elErr) {
					elErr = &ElementError{ModelID: m.ID, Key: key, Err: err}
				}
				report.Failures = append(report.Failures, elErr)
				w.metrics.RecordFailure()
				w.logger.Warn("Dropping element", zap.String("model", m.ID), zap.String("key", key), zap.Error(err))
			}
		}
	}
	return report, nil
}

// visitRecord isolates one record; a panic in the visitor drops only
// that record.
func (w *walker) visitRecord(modelID, key string, raw any, visit recordVisitor) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ElementError{ModelID: modelID, Key: key, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	// Only the canonical decimal form is an id.
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil || id < 0 || strconv.FormatInt(id, 10) != key {
		return &ElementError{ModelID: modelID, Key: key, Err: fmt.Errorf("invalid element id %q", key)}
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return &ElementError{ModelID: modelID, Key: key, Err: fmt.Errorf("record is %T, not an object", raw)}
	}
	return visit(modelID, id, RawElementRecord(obj))
}

// sortedKeys orders ids numerically; non-numeric keys sort last so they
// still get reported.
func sortedKeys(store PropertyStore) []string {
	keys := make([]string, 0, len(store))
	for k := range store {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseInt(keys[i], 10, 64)
		b, errB := strconv.ParseInt(keys[j], 10, 64)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// recordType resolves the record's type. ok is false when the record has
// no type at all; a type that is present but not numeric is an error.
func recordType(types *TypeResolver, record RawElementRecord) (string, bool, error) {
	raw, present := record["type"]
	if !present || raw == nil {
		return "", false, nil
	}
	code, ok := record.TypeCode()
	if !ok {
		return "", false, fmt.Errorf("type is not an integer code: %v", raw)
	}
	return types.Resolve(code), true, nil
}

// Extractor is the generic multi-type path.
type Extractor struct {
	walker
	types *TypeResolver
}

// NewExtractor builds the generic path.
func NewExtractor(types *TypeResolver, logger *zap.Logger) *Extractor {
	if types == nil {
		types = NewTypeResolver(nil)
	}
	return &Extractor{
		walker: walker{
			locator: NewPropertyLocator(),
			logger:  logging.Or(logger).With(zap.String("path", "generic")),
			metrics: metrics.NewRecorder("generic"),
		},
		types: types,
	}
}

// ExtractElements walks every model and returns its physical elements.
func (x *Extractor) ExtractElements(ctx context.Context, src ModelSource) ([]NormalizedElement, *ExtractionReport, error) {
	timer := metrics.NewTimer()
	var elements []NormalizedElement

	report, err := x.walk(ctx, src, func(modelID string, id int64, record RawElementRecord) error {
		typeName, ok, err := recordType(x.types, record)
		if err != nil {
			return err
		}
		if !ok || !IsPhysical(typeName) {
			return nil
		}
		elements = append(elements, NormalizedElement{
			ModelID:    modelID,
			ID:         id,
			Type:       typeName,
			Name:       ResolveName(record, GenericPath),
			GlobalID:   ResolveGlobalID(record),
			Material:   ResolveMaterial(record, GenericPath),
			Quantities: ExtractQuantities(record, typeName),
		})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	report.Extracted = len(elements)
	x.metrics.RecordElements(len(elements))
	x.metrics.ObserveExtraction(timer.Stop())
	x.logger.Info("Extraction complete",
		zap.Int("models", report.ModelsScanned),
		zap.Int("skipped", len(report.SkippedModels)),
		zap.Int("elements", len(elements)),
		zap.Int("failures", report.FailureCount()))
	return elements, report, nil
}

// WallTakeoff is the stricter wall-only path.
type WallTakeoff struct {
	walker
	types *TypeResolver
	opts  WallOptions
}

// NewWallTakeoff builds the wall path.
func NewWallTakeoff(types *TypeResolver, opts WallOptions, logger *zap.Logger) *WallTakeoff {
	if types == nil {
		types = NewTypeResolver(nil)
	}
	return &WallTakeoff{
		walker: walker{
			locator: NewPropertyLocator(),
			logger:  logging.Or(logger).With(zap.String("path", "wall")),
			metrics: metrics.NewRecorder("wall"),
		},
		types: types,
		opts:  opts,
	}
}

// BuildWall turns one wall record into a WallElement.
func (w *WallTakeoff) BuildWall(modelID string, id int64, record RawElementRecord, typeName string) WallElement {
	q := ExtractWallQuantities(record, w.opts)
	if !q.Found {
		w.logger.Debug("Wall has no Qto_WallBaseQuantities", zap.String("model", modelID), zap.Int64("id", id))
	}

	area := q.Area
	if area == nil && w.opts.DeriveMissingArea {
		area = DeriveSurfaceArea(q.Length, q.Height)
	}

	return WallElement{
		ModelID:     modelID,
		ID:          id,
		Name:        ResolveName(record, WallPath),
		GlobalID:    ResolveGlobalID(record),
		GrossVolume: q.GrossVolume,
		NetVolume:   q.NetVolume,
		SurfaceArea: area,
		Length:      q.Length,
		Height:      q.Height,
		Width:       q.Width,
		Material:    ResolveMaterial(record, WallPath),
		WallSubtype: typeName,
	}
}

// ExtractWalls walks every model and returns its walls.
func (w *WallTakeoff) ExtractWalls(ctx context.Context, src ModelSource) ([]WallElement, *ExtractionReport, error) {
	timer := metrics.NewTimer()
	var walls []WallElement

	report, err := w.walk(ctx, src, func(modelID string, id int64, record RawElementRecord) error {
		typeName, ok, err := recordType(w.types, record)
		if err != nil {
			return err
		}
		if !ok || !IsWall(typeName) {
			return nil
		}
		walls = append(walls, w.BuildWall(modelID, id, record, typeName))
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	report.Extracted = len(walls)
	w.metrics.RecordElements(len(walls))
	w.metrics.ObserveExtraction(timer.Stop())
	w.logger.Info("Wall extraction complete",
		zap.Int("models", report.ModelsScanned),
		zap.Int("walls", len(walls)),
		zap.Int("failures", report.FailureCount()))
	return walls, report, nil
}

// Summarize extracts walls and reduces them.
func (w *WallTakeoff) Summarize(ctx context.Context, src ModelSource) (WallSummary, *ExtractionReport, error) {
	walls, report, err := w.ExtractWalls(ctx, src)
	if err != nil {
		return WallSummary{}, nil, err
	}
	summary := SummarizeWalls(walls)
	w.logger.Info("Wall summary",
		zap.Int("count", summary.Count),
		zap.String("total_volume_m3", FormatFixed(summary.TotalVolume)),
		zap.String("total_area_m2", FormatFixed(summary.TotalArea)))
	return summary, report, nil
}

// Engine bundles both paths.
type Engine struct {
	Elements *Extractor
	Walls    *WallTakeoff
}

// NewEngine builds both paths over one resolver.
func NewEngine(types *TypeResolver, opts WallOptions, logger *zap.Logger) *Engine {
	return &Engine{
		Elements: NewExtractor(types, logger),
		Walls:    NewWallTakeoff(types, opts, logger),
	}
}

// Snapshot is the result of one full pass over the loaded models. Nothing
// is cached between snapshots; callers that want reuse keep the value.
type Snapshot struct {
	ID           string              `json:"id"`
	TakenAt      time.Time           `json:"takenAt"`
	Elements     []NormalizedElement `json:"elements"`
	Summaries    []TypeSummary       `json:"summaries"`
	Walls        WallSummary         `json:"walls"`
	ElementsInfo *ExtractionReport   `json:"elementsReport"`
	WallsInfo    *ExtractionReport   `json:"wallsReport"`
}

// IsEmpty reports whether the pass found nothing at all.
func (s *Snapshot) IsEmpty() bool {
	return len(s.Elements) == 0 && s.Walls.Count == 0
}

// Snapshot loads the models once and runs both paths over that one set.
func (e *Engine) Snapshot(ctx context.Context, src ModelSource) (*Snapshot, error) {
	models, err := src.Models(ctx)
	if err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}
	loaded := StaticSource(models)

	elements, elReport, err := e.Elements.ExtractElements(ctx, loaded)
	if err != nil {
		return nil, err
	}
	walls, wallReport, err := e.Walls.Summarize(ctx, loaded)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		ID:           uuid.NewString(),
		TakenAt:      time.Now().UTC(),
		Elements:     elements,
		Summaries:    GroupAndSummarize(elements),
		Walls:        walls,
		ElementsInfo: elReport,
		WallsInfo:    wallReport,
	}, nil
}
