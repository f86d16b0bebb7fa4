package model

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"dairyai/internal/common"
)

// Bundle is a loaded estimator plus its companion scaler. Bundles are
// read-only after load and shared across requests.
type Bundle struct {
	Forest   *Forest
	Scaler   *Scaler
	Version  string
	LoadedAt time.Time
}

// TestPredict runs a scaled inference over a raw test vector, exercising the
// full scaler+forest path without shaping a response. Used by health checks.
func (b *Bundle) TestPredict(x []float64) error {
	scaled, err := b.Scaler.Transform(x)
	if err != nil {
		return err
	}
	switch b.Forest.Kind {
	case KindRegressor:
		_, err = b.Forest.Predict(scaled)
	case KindClassifier:
		_, err = b.Forest.PredictClass(scaled)
	default:
		err = fmt.Errorf("unknown forest kind %q", b.Forest.Kind)
	}
	return err
}

// MetricsInterface defines metrics methods needed by the registry
type MetricsInterface interface {
	ModelLoadsInc()
	ModelLoadFailuresInc()
	ModelLoadDurationObserve(float64)
	ModelAvailableSet(family string, available bool)
}

type family struct {
	name       string
	version    string
	modelPath  string
	scalerPath string

	once      sync.Once
	bundle    *Bundle
	loadErr   error
	attempted atomic.Bool
}

// Registry lazily loads and caches the model bundles, one per family. The
// first Get for a family performs the load inside sync.Once, so concurrent
// first requests cannot race or trigger redundant disk reads. A failed load
// is cached for the process lifetime: a corrupt or missing artifact cannot
// self-heal without a restart.
type Registry struct {
	families map[string]*family
	metrics  MetricsInterface
	catalog  *Catalog
}

// NewRegistry creates a registry for the artifacts under modelsDir.
// Both metrics and catalog may be nil.
func NewRegistry(modelsDir string, metrics MetricsInterface, catalog *Catalog) *Registry {
	return &Registry{
		metrics: metrics,
		catalog: catalog,
		families: map[string]*family{
			common.FamilyYield: {
				name:       common.FamilyYield,
				version:    common.YieldModelVersion,
				modelPath:  filepath.Join(modelsDir, common.YieldModelFile),
				scalerPath: filepath.Join(modelsDir, common.YieldScalerFile),
			},
			common.FamilyMastitis: {
				name:       common.FamilyMastitis,
				version:    common.MastitisModelVersion,
				modelPath:  filepath.Join(modelsDir, common.MastitisModelFile),
				scalerPath: filepath.Join(modelsDir, common.MastitisScalerFile),
			},
		},
	}
}

// Get returns the bundle for a model family, loading it on first access.
// Returns (nil, false) for unknown families and for families whose load
// failed; the failure is never retried.
func (r *Registry) Get(name string) (*Bundle, bool) {
	fam, ok := r.families[name]
	if !ok {
		return nil, false
	}

	fam.once.Do(func() {
		fam.bundle, fam.loadErr = r.load(fam)
		fam.attempted.Store(true)
		if r.metrics != nil {
			r.metrics.ModelAvailableSet(fam.name, fam.loadErr == nil)
		}
	})

	if fam.loadErr != nil {
		return nil, false
	}
	return fam.bundle, true
}

// Attempted reports whether a load has been tried for the family, regardless
// of outcome. Used by health checks to expose cache state. Safe to call
// concurrently with a first Get.
func (r *Registry) Attempted(name string) bool {
	fam, ok := r.families[name]
	if !ok {
		return false
	}
	return fam.attempted.Load()
}

// ArtifactPaths returns the model and scaler paths for a family.
func (r *Registry) ArtifactPaths(name string) (modelPath, scalerPath string, ok bool) {
	fam, found := r.families[name]
	if !found {
		return "", "", false
	}
	return fam.modelPath, fam.scalerPath, true
}

func (r *Registry) load(fam *family) (*Bundle, error) {
	start := time.Now()
	log.Info().
		Str("family", fam.name).
		Str("model_path", fam.modelPath).
		Str("scaler_path", fam.scalerPath).
		Msg("model load started")

	if r.metrics != nil {
		r.metrics.ModelLoadsInc()
	}

	bundle, err := loadBundle(fam)
	duration := time.Since(start)

	if r.catalog != nil {
		if cerr := r.catalog.RecordLoad(LoadRecord{
			Family:     fam.name,
			Version:    fam.version,
			ModelPath:  fam.modelPath,
			ScalerPath: fam.scalerPath,
			OK:         err == nil,
			Error:      errString(err),
			DurationMS: float64(duration.Microseconds()) / 1000.0,
			LoadedAt:   time.Now(),
		}); cerr != nil {
			log.Warn().Err(cerr).Str("family", fam.name).Msg("failed to record load in catalog")
		}
	}

	if err != nil {
		if r.metrics != nil {
			r.metrics.ModelLoadFailuresInc()
		}
		log.Error().Err(err).Str("family", fam.name).Msg("model load failed")
		return nil, err
	}

	if r.metrics != nil {
		r.metrics.ModelLoadDurationObserve(duration.Seconds())
	}
	log.Info().
		Str("family", fam.name).
		Str("version", fam.version).
		Dur("duration", duration).
		Msg("model load complete")

	return bundle, nil
}

func loadBundle(fam *family) (*Bundle, error) {
	if _, err := os.Stat(fam.modelPath); err != nil {
		return nil, fmt.Errorf("model artifact missing: %w", err)
	}
	if _, err := os.Stat(fam.scalerPath); err != nil {
		return nil, fmt.Errorf("scaler artifact missing: %w", err)
	}

	scaler, err := LoadScaler(fam.scalerPath)
	if err != nil {
		return nil, err
	}
	forest, err := LoadForest(fam.modelPath)
	if err != nil {
		return nil, err
	}

	if forest.NFeatures != len(scaler.Mean) {
		return nil, fmt.Errorf("artifact mismatch: forest expects %d features, scaler has %d",
			forest.NFeatures, len(scaler.Mean))
	}

	return &Bundle{
		Forest:   forest,
		Scaler:   scaler,
		Version:  fam.version,
		LoadedAt: time.Now(),
	}, nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
