// Package pipeline drives a full load: read or synthesize each sheet,
// resolve natural keys through the run cache, validate, and commit rows
// stage by stage in dependency order, journaling every skipped row.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iancoleman/orderedmap"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rajmukherjee207/SQL-Student-Loader/config"
	"github.com/rajmukherjee207/SQL-Student-Loader/internal/refcache"
	"github.com/rajmukherjee207/SQL-Student-Loader/internal/schema"
	"github.com/rajmukherjee207/SQL-Student-Loader/internal/sheet"
	"github.com/rajmukherjee207/SQL-Student-Loader/internal/synth"
	"github.com/rajmukherjee207/SQL-Student-Loader/internal/validate"
)

type Pipeline struct {
	cfg    config.Config
	log    *zap.SugaredLogger
	db     *gorm.DB
	sheets *sheet.Service
	synth  *synth.Synthesizer
	cache  *refcache.Cache

	// memo caches sheet reads so a workbook feeding two stages (students
	// feeds both the student and academic-map stages) is read once.
	memo       map[string][]sheet.Record
	memoSource map[string]string

	issues     []RowIssue
	fileSheets []string
	paymentIDs []uint
	runID      string
}

func New(cfg config.Config, log *zap.SugaredLogger, db *gorm.DB) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		log:        log,
		db:         db,
		sheets:     &sheet.Service{Dir: cfg.ExcelDir},
		synth:      synth.New(cfg),
		cache:      refcache.New(cfg.CaseInsensitiveKeys),
		memo:       make(map[string][]sheet.Record),
		memoSource: make(map[string]string),
	}
}

// Run executes every stage in order and returns the per-stage stats. A
// returned error means the run aborted; rows committed by earlier stages
// stay in place and the journal records how far it got.
func (p *Pipeline) Run(ctx context.Context) ([]StageStats, error) {
	if err := p.migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if p.cfg.RequireEmpty {
		var n int64
		if err := p.db.WithContext(ctx).Model(&schema.School{}).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("check target store: %w", err)
		}
		if n > 0 {
			return nil, fmt.Errorf("target store already holds %d schools, refusing to load", n)
		}
	}

	run := LoadRun{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Status:    runStatusRunning,
	}
	if err := p.db.WithContext(ctx).Create(&run).Error; err != nil {
		return nil, fmt.Errorf("open run journal: %w", err)
	}
	p.runID = run.ID
	p.log.Infow("load run started", "run_id", run.ID)

	var stats []StageStats
	var runErr error
	for _, st := range stages() {
		s, err := p.runStage(ctx, st)
		stats = append(stats, s)
		if err != nil {
			runErr = fmt.Errorf("stage %s: %w", st.name, err)
			break
		}
		p.log.Infow("stage complete", "stage", st.name, "source", s.Source,
			"attempted", s.Attempted, "inserted", s.Inserted, "skipped", s.Skipped)
	}

	p.finalize(ctx, &run, stats, runErr)
	return stats, runErr
}

func (p *Pipeline) migrate(ctx context.Context) error {
	models := append(schema.All(), &LoadRun{}, &RowIssue{})
	return p.db.WithContext(ctx).AutoMigrate(models...)
}

// runStage wraps one stage in its own transaction: an abort or fatal error
// rolls the whole stage back, so a failed run never leaves a partial stage
// behind. Journal rows are flushed after the transaction so skip records
// survive the rollback.
func (p *Pipeline) runStage(ctx context.Context, st stage) (StageStats, error) {
	stats := StageStats{Stage: st.name}
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return p.loadStage(ctx, NewGateway(tx), st, &stats)
	})
	p.flushIssues(ctx)
	if err != nil {
		stats.Inserted = 0
	}
	return stats, err
}

func (p *Pipeline) loadStage(ctx context.Context, gw Gateway, st stage, stats *StageStats) error {
	if st.derive != nil {
		stats.Source = sourceDerived
		for i, row := range st.derive(p) {
			rec := sheet.Record{Row: i + 1}
			if err := p.commit(ctx, gw, st, rec, row, stats); err != nil {
				return err
			}
		}
		return nil
	}

	recs, source, err := p.records(st.sheetName)
	if err != nil {
		return err
	}
	stats.Source = source

	for _, rec := range recs {
		stats.Attempted++
		if rec.Err != nil {
			p.skip(st, rec, coercionField(rec.Err), rec.Err.Error(), stats)
			if err := p.checkAbort(st, *stats); err != nil {
				return err
			}
			continue
		}
		row, err := st.build(p, rec)
		if err != nil {
			var unres *refcache.UnresolvedReferenceError
			if !errors.As(err, &unres) {
				return err
			}
			p.skip(st, rec, string(unres.Entity), err.Error(), stats)
			if err := p.checkAbort(st, *stats); err != nil {
				return err
			}
			continue
		}
		if err := p.commit(ctx, gw, st, rec, row, stats); err != nil {
			return err
		}
	}
	return nil
}

// commit validates one built row, inserts it, and binds its natural key.
// Validation and constraint failures skip the row. A second definition for
// a key already bound this run is fatal, and is refused before the insert
// so the store never holds two rows for one natural key.
func (p *Pipeline) commit(ctx context.Context, gw Gateway, st stage, rec sheet.Record, row schema.Row, stats *StageStats) error {
	if st.derive != nil {
		stats.Attempted++
	}
	var entity refcache.Entity
	var key string
	if st.key != nil {
		var err error
		entity, key, err = st.key(p, rec)
		if err != nil {
			p.skip(st, rec, "", err.Error(), stats)
			return p.checkAbort(st, *stats)
		}
		if have, ok := p.cache.TryResolve(entity, key); ok {
			return &refcache.DuplicateKeyError{Entity: entity, Key: key, Have: have}
		}
	}
	if res := validate.Check(schema.Specs[st.table], row.Fields(), p.cache); !res.OK {
		p.skip(st, rec, res.Field, string(res.Code), stats)
		return p.checkAbort(st, *stats)
	}
	id, err := gw.Insert(ctx, row)
	if err != nil {
		var cv *ConstraintViolationError
		if !errors.As(err, &cv) {
			// the store is unreachable; skipping rows will not help
			return err
		}
		p.skip(st, rec, "", err.Error(), stats)
		return p.checkAbort(st, *stats)
	}
	if st.key != nil {
		if err := p.cache.Register(entity, key, id); err != nil {
			return err
		}
	}
	if st.register != nil {
		if err := st.register(p, rec, id); err != nil {
			return err
		}
	}
	stats.Inserted++
	return nil
}

func (p *Pipeline) checkAbort(st stage, stats StageStats) error {
	if stats.Skipped > p.cfg.AbortThreshold {
		return &StageAbortError{Stage: st.name, Failures: stats.Skipped, Threshold: p.cfg.AbortThreshold}
	}
	return nil
}

// records reads a workbook once per run; when the workbook is absent the
// synthesizer supplies the rows instead.
func (p *Pipeline) records(name string) ([]sheet.Record, string, error) {
	if recs, ok := p.memo[name]; ok {
		return recs, p.memoSource[name], nil
	}
	recs, err := p.sheets.Read(schema.Contracts[name])
	source := sourceFile
	if errors.Is(err, sheet.ErrSheetNotFound) {
		synthRecs, ok := p.synth.Records(name)
		if !ok {
			return nil, "", fmt.Errorf("sheet %s: no workbook and no synthesized data", name)
		}
		recs, source, err = synthRecs, sourceSynthesized, nil
		p.log.Infow("workbook missing, synthesizing rows", "sheet", name, "rows", len(recs))
	}
	if err != nil {
		return nil, "", err
	}
	if source == sourceFile {
		p.fileSheets = append(p.fileSheets, name)
	}
	p.memo[name] = recs
	p.memoSource[name] = source
	return recs, source, nil
}

func (p *Pipeline) skip(st stage, rec sheet.Record, field, reason string, stats *StageStats) {
	stats.Skipped++
	label := st.sheetName
	if label == "" {
		label = st.name
	}
	p.log.Warnw("row skipped", "sheet", label, "row", rec.Row, "field", field, "reason", reason)

	p.issues = append(p.issues, RowIssue{
		RunID:    p.runID,
		Sheet:    label,
		RowIndex: rec.Row,
		Field:    field,
		Reason:   reason,
		RowData:  p.rowData(st.sheetName, rec),
	})
}

// flushIssues writes the buffered journal rows outside any stage
// transaction, so the journal keeps the skip records of a rolled-back
// stage.
func (p *Pipeline) flushIssues(ctx context.Context) {
	for i := range p.issues {
		if err := p.db.WithContext(ctx).Create(&p.issues[i]).Error; err != nil {
			p.log.Warnw("journal write failed", "sheet", p.issues[i].Sheet,
				"row", p.issues[i].RowIndex, "error", err)
		}
	}
	p.issues = p.issues[:0]
}

// rowData dumps the row's cells in sheet column order for the journal.
func (p *Pipeline) rowData(sheetName string, rec sheet.Record) datatypes.JSON {
	c, ok := schema.Contracts[sheetName]
	if !ok || rec.Cells == nil {
		return nil
	}
	om := orderedmap.New()
	for _, col := range c.ColumnNames() {
		om.Set(col, rec.Get(col).String())
	}
	b, err := json.Marshal(om)
	if err != nil {
		return nil
	}
	return b
}

func (p *Pipeline) finalize(ctx context.Context, run *LoadRun, stats []StageStats, runErr error) {
	now := time.Now()
	run.FinishedAt = &now
	run.Sheets = pq.StringArray(p.fileSheets)
	run.Status = runStatusOK
	if runErr != nil {
		run.Status = runStatusFailed
		run.Error = runErr.Error()
	}
	if b, err := json.Marshal(stats); err == nil {
		run.Summary = b
	}
	if err := p.db.WithContext(ctx).Save(run).Error; err != nil {
		p.log.Errorw("run journal update failed", "run_id", run.ID, "error", err)
	}
	p.log.Infow("load run finished", "run_id", run.ID, "status", run.Status)
}

func coercionField(err error) string {
	var ce *sheet.TypeCoercionError
	if errors.As(err, &ce) {
		return ce.Column
	}
	return ""
}
