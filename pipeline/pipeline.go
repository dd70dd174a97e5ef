// Package pipeline runs extract → analyze → revise for a single article.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"doc_reviewer/extractor"
	"doc_reviewer/reviewer"
)

// Stage names used in records and logs.
const (
	StageExtract = "extract"
	StageAnalyze = "analyze"
	StageRevise  = "revise"
)

// Extractor produces the article for a URL.
type Extractor interface {
	Extract(ctx context.Context, url string) (extractor.Article, error)
}

// Reviewer is the model side of the pipeline.
type Reviewer interface {
	Analyze(ctx context.Context, title, body string) (reviewer.Analysis, error)
	Revise(ctx context.Context, body string, analysis reviewer.Analysis) (string, error)
}

// Reporter is told about each stage's output as soon as it exists.
type Reporter interface {
	ArticleExtracted(extractor.Article)
	AnalysisReady(reviewer.Analysis)
	RevisionReady(string)
}

// StageRecord 记录一次阶段执行。
type StageRecord struct {
	Stage     string        `json:"stage"`
	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`
	Err       string        `json:"error,omitempty"`
}

// Result is everything one run produced. Fields after a failed stage stay zero.
type Result struct {
	RunID    string
	Article  extractor.Article
	Analysis reviewer.Analysis
	Revised  string
	Stages   []StageRecord
}

// Pipeline wires the three stages together.
type Pipeline struct {
	extractor Extractor
	reviewer  Reviewer
	reporter  Reporter
	logger    *zap.Logger
}

func New(ex Extractor, rv Reviewer, reporter Reporter, logger *zap.Logger) (*Pipeline, error) {
	if ex == nil {
		return nil, errors.New("extractor is required")
	}
	if rv == nil {
		return nil, errors.New("reviewer is required")
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{extractor: ex, reviewer: rv, reporter: reporter, logger: logger}, nil
}

// Run processes url. The first failing stage ends the run and its error is
// returned unchanged so callers can classify it with errors.Is/As.
func (p *Pipeline) Run(ctx context.Context, url string) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	log := p.logger.With(zap.String("run_id", res.RunID))
	log.Info("review started", zap.String("url", url))

	err := p.stage(&res, log, StageExtract, func() error {
		art, err := p.extractor.Extract(ctx, url)
		if err != nil {
			return err
		}
		res.Article = art
		p.reporter.ArticleExtracted(art)
		return nil
	})
	if err != nil {
		return res, err
	}

	err = p.stage(&res, log, StageAnalyze, func() error {
		analysis, err := p.reviewer.Analyze(ctx, res.Article.Title, res.Article.Body)
		if err != nil {
			return err
		}
		res.Analysis = analysis
		p.reporter.AnalysisReady(analysis)
		return nil
	})
	if err != nil {
		return res, err
	}

	err = p.stage(&res, log, StageRevise, func() error {
		revised, err := p.reviewer.Revise(ctx, res.Article.Body, res.Analysis)
		if err != nil {
			return err
		}
		res.Revised = revised
		p.reporter.RevisionReady(revised)
		return nil
	})
	if err != nil {
		return res, err
	}

	log.Info("review finished", zap.Int("stages", len(res.Stages)))
	return res, nil
}

func (p *Pipeline) stage(res *Result, log *zap.Logger, name string, fn func() error) error {
	rec := StageRecord{Stage: name, StartedAt: time.Now()}
	err := fn()
	rec.Elapsed = time.Since(rec.StartedAt)
	if err != nil {
		rec.Err = err.Error()
		log.Warn("stage failed", zap.String("stage", name), zap.Duration("elapsed", rec.Elapsed), zap.Error(err))
	} else {
		log.Debug("stage done", zap.String("stage", name), zap.Duration("elapsed", rec.Elapsed))
	}
	res.Stages = append(res.Stages, rec)
	return err
}

type nopReporter struct{}

func (nopReporter) ArticleExtracted(extractor.Article) {}
func (nopReporter) AnalysisReady(reviewer.Analysis)    {}
func (nopReporter) RevisionReady(string)               {}
