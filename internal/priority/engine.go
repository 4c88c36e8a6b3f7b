// Package priority implements the feature prioritization and ROI analytics
// engine: RICE scoring, a gradient-boosted composite model with synthetic
// augmentation, quarter assignment, ROI and risk projection, quadrant
// classification and the executive summary roll-up.
//
// Data flows strictly forward through the stages; each stage returns a new
// table and never mutates its input.
package priority

import (
	"context"
	"log/slog"

	apperrors "github.com/ZanzyTHEbar/roadmap-prioritizer/internal/errors"
)

// Engine orchestrates one full analysis run. It holds no per-run state, so
// a single Engine can serve sequential runs over changing catalogs.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// NewEngine returns an engine with the given configuration, filling unset
// options from DefaultConfig.
func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg.withDefaults(), logger: logger}
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Run recomputes every derived table from scratch for the given aggregates.
// Training failures and small catalogs both degrade to RICE-only composite
// scores; no run fails because the model could not be fit.
func (e *Engine) Run(ctx context.Context, aggregates []FeatureAggregate) (*AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scored := ScoreAggregates(aggregates)

	var diagnostics ModelDiagnostics
	model, err := TrainModel(scored, e.cfg.SyntheticSampleCount)
	if err != nil {
		trainingErr := apperrors.NewTrainingError("composite model unavailable, falling back to RICE-only scores", err)
		e.logger.Warn(trainingErr.Error(), "features", len(scored), "cause", err)
	} else {
		diagnostics = ModelDiagnostics{
			Trained:            true,
			TrainScore:         model.TrainScore,
			TestScore:          model.TestScore,
			FeatureImportances: model.FeatureImportances(),
		}
	}

	ranked := BlendComposite(scored, model)
	ranked = AssignQuarters(ranked, e.cfg.TargetPlanningYear)
	ranked = enrichScores(ranked)

	projections := ProjectROI(ranked, e.cfg)
	summary := Summarize(ranked, projections)

	e.logger.Info("analysis run complete",
		"features", len(ranked),
		"roi_subset", len(projections),
		"model_trained", diagnostics.Trained,
		"train_r2", diagnostics.TrainScore,
		"test_r2", diagnostics.TestScore,
	)

	return &AnalysisResult{
		Features:    ranked,
		Projections: projections,
		Summary:     summary,
		Diagnostics: diagnostics,
	}, nil
}
