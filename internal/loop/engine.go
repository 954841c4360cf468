// Package loop drives the iteration cycle: select a task, dispatch the
// worker, interpret its output, commit the result, repeat until the
// backlog completes, the budget runs out, or the operator stops the run.
package loop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/grindloop/grind/internal/archive"
	"github.com/grindloop/grind/internal/backlog"
	"github.com/grindloop/grind/internal/checkpoint"
	"github.com/grindloop/grind/internal/classify"
	"github.com/grindloop/grind/internal/gates"
	"github.com/grindloop/grind/internal/guidance"
	"github.com/grindloop/grind/internal/journal"
	"github.com/grindloop/grind/internal/lock"
	"github.com/grindloop/grind/internal/model"
	"github.com/grindloop/grind/internal/policy"
	"github.com/grindloop/grind/internal/progress"
	"github.com/grindloop/grind/internal/worker"
)

// Exit codes for grind run.
const (
	ExitComplete = 0 // every story passes
	ExitError    = 1 // error, budget exhausted, or skipped work remains
	ExitStopped  = 2 // operator stop or abort, checkpoint saved
)

// LogLevel controls logging verbosity.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func parseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// guider is the operator conversation on stagnation.
type guider interface {
	Resolve(req guidance.Request) (guidance.Outcome, error)
}

// Engine owns one run of the iteration loop.
type Engine struct {
	workDir  string
	stateDir string
	cfg      model.Config

	logger   *log.Logger
	logFile  io.Closer
	logLevel LogLevel
	stdout   io.Writer

	store       *backlog.Store
	policies    *policy.Engine
	checkpoints *checkpoint.Manager
	journal     *journal.Journal
	progLog     *progress.Log
	archiver    *archive.Manager
	git         *archive.Git
	gates       *gates.Runner
	guide       guider
	tool        worker.Worker
	fileLock    *lock.FileLock
	stop        *stopSentinel

	resume       bool
	runID        string
	guidanceText string
	lastTaskID   string
	lastAttempts int
	lastDetails  []string
}

// NewEngine builds an engine logging to .grind/logs/run.log, using the
// configured worker or the first one found on PATH.
func NewEngine(workDir string, cfg model.Config, resume bool) (*Engine, error) {
	cfg.ApplyDefaults()

	if cfg.Worker.Name == "" {
		name, err := worker.Detect()
		if err != nil {
			return nil, err
		}
		cfg.Worker.Name = name
	}
	tool, err := worker.New(cfg.Worker, cfg.Run.OutputLimitBytes)
	if err != nil {
		return nil, err
	}

	stateDir := filepath.Join(workDir, ".grind")
	logPath := filepath.Join(stateDir, "logs", "run.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", logPath, err)
	}

	e, err := newEngine(workDir, cfg, resume, tool, guidance.NewCoordinator(), logFile, logFile, os.Stdout)
	if err != nil {
		logFile.Close()
		return nil, err
	}
	return e, nil
}

// newEngine is the internal constructor that accepts the worker, the
// guidance coordinator, and an io.Writer for testing.
func newEngine(workDir string, cfg model.Config, resume bool, tool worker.Worker, guide guider, logW io.Writer, logCloser io.Closer, stdout io.Writer) (*Engine, error) {
	stateDir := filepath.Join(workDir, ".grind")
	for _, dir := range []string{stateDir, filepath.Join(stateDir, "locks"), filepath.Join(stateDir, "logs")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}

	j, err := journal.New(filepath.Join(stateDir, "logs", "journal.jsonl"), 0)
	if err != nil {
		return nil, err
	}

	return &Engine{
		workDir:     workDir,
		stateDir:    stateDir,
		cfg:         cfg,
		logger:      log.New(logW, "", 0),
		logFile:     logCloser,
		logLevel:    parseLogLevel(cfg.Logging.Level),
		stdout:      stdout,
		store:       backlog.NewStore(filepath.Join(workDir, "backlog.yaml")),
		policies:    policy.NewEngine(cfg),
		checkpoints: checkpoint.NewManager(stateDir, filepath.Join(stateDir, "checkpoint.yaml")),
		journal:     j,
		progLog:     progress.NewLog(filepath.Join(workDir, "progress.txt")),
		archiver:    archive.NewManager(workDir, filepath.Join(stateDir, ".last-generation")),
		git:         archive.NewGit(workDir),
		gates:       gates.NewRunner(cfg.Gates, workDir),
		guide:       guide,
		tool:        tool,
		fileLock:    lock.NewFileLock(filepath.Join(stateDir, "locks", "run.lock")),
		stop:        newStopSentinel(filepath.Join(stateDir, "stop")),
		resume:      resume,
	}, nil
}

// Close releases the journal and log file handles.
func (e *Engine) Close() error {
	err := e.journal.Close()
	if e.logFile != nil {
		if cerr := e.logFile.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Run executes the loop and returns the process exit code.
func (e *Engine) Run(ctx context.Context) (int, error) {
	if err := e.fileLock.TryLock(); err != nil {
		return ExitError, err
	}
	defer e.fileLock.Unlock()

	b, err := e.store.Load()
	if err != nil {
		return ExitError, err
	}

	if dest, err := e.archiver.ArchiveIfGenerationChanged(b.Generation, e.store.Path(), e.progLog); err != nil {
		e.log(LogLevelWarn, "archive_failed generation=%s error=%v", b.Generation, err)
	} else if dest != "" {
		e.log(LogLevelInfo, "generation_archived generation=%s dest=%s", b.Generation, dest)
	}
	e.switchBranch(ctx, b.Generation)

	if err := e.progLog.Ensure(); err != nil {
		return ExitError, err
	}

	startIter, err := e.restoreCheckpoint()
	if err != nil {
		return ExitError, err
	}

	runID, err := model.GenerateID(model.IDTypeRun)
	if err != nil {
		return ExitError, err
	}
	e.runID = runID
	e.log(LogLevelInfo, "run_start run_id=%s worker=%s max_iterations=%d start_iteration=%d",
		runID, e.tool.Name(), e.cfg.Run.MaxIterations, startIter)

	iter := startIter
	for iter < e.cfg.Run.MaxIterations {
		if e.stop.Requested() {
			return e.stopRun(iter)
		}

		b, err = e.store.Load()
		if err != nil {
			return ExitError, fmt.Errorf("reload backlog: %w", err)
		}

		task, err := backlog.NextReady(b)
		if err != nil {
			var dl *backlog.DeadlockError
			if errors.As(err, &dl) {
				e.log(LogLevelError, "deadlock remaining=%d cycle=%v", len(dl.Remaining), dl.Cycle)
			}
			return ExitError, err
		}
		if task == nil {
			return e.finishDrained(b, iter)
		}

		attempts := e.policies.Attempts.Observe(task.ID())
		e.lastTaskID, e.lastAttempts = task.ID(), attempts
		if attempts > e.policies.Attempts.Max() {
			// only reachable via a seeded checkpoint at the limit
			if !e.tripBreaker(b, task, iter) {
				return ExitError, fmt.Errorf("cannot skip exhausted task %s", task.ID())
			}
			continue
		}

		exit, done, err := e.iterate(ctx, b, task, attempts, iter)
		if done || err != nil {
			return exit, err
		}
		if exit == iterationNotCounted {
			continue
		}

		iter++
		e.saveCheckpoint(task.ID(), iter, attempts, model.PauseIterationBoundary)

		if iter < e.cfg.Run.MaxIterations && e.cfg.Run.SleepBetweenSec > 0 {
			stopped, err := e.stop.sleepOrStop(ctx, time.Duration(e.cfg.Run.SleepBetweenSec)*time.Second)
			if err != nil {
				return ExitError, err
			}
			if stopped {
				return e.stopRun(iter)
			}
		}
	}

	e.log(LogLevelWarn, "iteration_budget_exhausted used=%d", iter)
	e.printSummary(e.reloadQuiet(), iter, "iteration budget exhausted")
	return ExitError, fmt.Errorf("iteration budget exhausted after %d iterations", iter)
}

// iterationNotCounted signals that the loop should reselect without
// consuming an iteration (connection errors, breaker trips).
const iterationNotCounted = -1

// iterate runs one full Dispatching→Running→Interpreting→Committing
// cycle. done=true means the run is over and exit is the final code.
func (e *Engine) iterate(ctx context.Context, b *model.Backlog, task *backlog.Task, attempts, iter int) (exit int, done bool, err error) {
	prompt := buildPrompt(b, task, e.progLog.PatternsExcerpt(), e.guidanceText)
	e.guidanceText = ""

	e.log(LogLevelInfo, "iteration_start index=%d task_id=%s attempt=%d/%d",
		iter, task.ID(), attempts, e.policies.Attempts.Max())

	started := time.Now().UTC()
	runCtx, cancel := context.WithTimeout(ctx, time.Duration(e.cfg.Run.TimeoutSec)*time.Second)
	res, invokeErr := e.tool.Invoke(runCtx, worker.Invocation{Prompt: prompt, WorkDir: e.workDir})
	cancel()
	ended := time.Now().UTC()

	if invokeErr != nil {
		if errors.Is(invokeErr, context.Canceled) {
			// operator interrupt mid-iteration; checkpoint and leave,
			// the attempt does not count against the task
			e.log(LogLevelInfo, "run_interrupted task_id=%s", task.ID())
			e.saveCheckpoint(task.ID(), iter, attempts-1, model.PauseUserRequested)
			e.printSummary(e.reloadQuiet(), iter, "interrupted by operator")
			return ExitStopped, true, nil
		}
		e.log(LogLevelError, "worker_spawn_failed worker=%s error=%v", e.tool.Name(), invokeErr)
		e.saveCheckpoint(task.ID(), iter, attempts, model.PauseError)
		return ExitError, true, fmt.Errorf("invoke worker: %w", invokeErr)
	}

	cur, verdict := e.interpret(b, res)

	story := cur.FindStory(task.Story.ID)
	if story == nil {
		// the worker deleted the story; treat the pre-iteration copy as truth
		if saveErr := e.store.Save(b); saveErr != nil {
			return ExitError, true, saveErr
		}
		cur = b
		story = cur.FindStory(task.Story.ID)
		verdict = classify.Verdict{Outcome: model.OutcomeFailure, Detail: "story removed from backlog"}
	}

	if verdict.Outcome == model.OutcomeConnectionError {
		return e.onConnectionError(ctx, task, verdict, attempts, iter, started, ended)
	}
	e.policies.Backoff.Reset()

	backlog.RecordAttempt(story, attempts)
	if err := e.store.Save(cur); err != nil {
		return ExitError, true, err
	}

	if verdict.CompletionClaimed {
		if backlog.AllComplete(cur) {
			e.journalAppend(iter, task.ID(), model.OutcomeCompleted, "completion verified", started, ended)
			return e.finishComplete(cur, iter+1)
		}
		left := backlog.Summarize(cur)
		e.log(LogLevelWarn, "completion_claim_rejected pending=%d skipped=%d", left.Pending, left.Skipped)
		if verdict.Outcome == model.OutcomeCompleted {
			if backlog.Progressed(b, cur) {
				verdict = classify.Verdict{Outcome: model.OutcomeSuccess, Detail: "completion claimed early"}
			} else {
				verdict = classify.Verdict{Outcome: model.OutcomeFailure, Detail: "completion claimed with tasks remaining"}
			}
		}
	}

	if verdict.Outcome == model.OutcomeSuccess && e.gates.Enabled() {
		if _, failed := e.gates.Run(ctx); failed != nil {
			e.log(LogLevelWarn, "gate_failed name=%s duration=%s", failed.Name, failed.Duration)
			verdict = classify.Verdict{Outcome: model.OutcomeFailure, Detail: fmt.Sprintf("gate %s failed", failed.Name)}
		}
	}

	e.journalAppend(iter, task.ID(), verdict.Outcome, verdict.Detail, started, ended)
	e.log(LogLevelInfo, "iteration_end index=%d task_id=%s outcome=%s detail=%q",
		iter, task.ID(), verdict.Outcome, verdict.Detail)

	if !verdict.Outcome.Failed() {
		e.policies.Stagnation.Reset()
		e.lastDetails = nil
		return 0, false, nil
	}

	e.lastDetails = append(e.lastDetails, verdict.Detail)
	if len(e.lastDetails) > 5 {
		e.lastDetails = e.lastDetails[len(e.lastDetails)-5:]
	}

	sig := classify.Signature(task.ID(), verdict)
	if e.policies.Stagnation.Observe(task.ID(), sig) {
		exit, done, err := e.onStagnation(cur, task, sig, attempts, iter)
		if done || err != nil {
			return exit, done, err
		}
	}

	if e.policies.Attempts.Exhausted() {
		story = e.storyIn(cur, task)
		if story != nil && !story.Skipped() && !story.Passes {
			e.tripBreaker(cur, task, iter)
		}
	}
	return 0, false, nil
}

// interpret reloads the backlog the worker may have edited and reads
// the iteration outcome. An unparseable backlog is rolled back to the
// pre-iteration state.
func (e *Engine) interpret(prev *model.Backlog, res worker.Result) (*model.Backlog, classify.Verdict) {
	cur, err := e.store.Load()
	if err != nil {
		e.log(LogLevelWarn, "backlog_rollback error=%v", err)
		if saveErr := e.store.Save(prev); saveErr != nil {
			e.log(LogLevelError, "backlog_rollback_failed error=%v", saveErr)
		}
		return prev, classify.Verdict{Outcome: model.OutcomeFailure, Detail: "backlog unparseable after iteration"}
	}

	for _, v := range backlog.Reconcile(prev, cur) {
		e.log(LogLevelWarn, "reconcile %s", v)
	}

	switch {
	case res.TimedOut:
		return cur, classify.Verdict{
			Outcome: model.OutcomeTimeout,
			Detail:  fmt.Sprintf("timed out after %ds", e.cfg.Run.TimeoutSec),
		}
	case res.Truncated:
		return cur, classify.Verdict{
			Outcome: model.OutcomeOutputOverflow,
			Detail:  "output limit exceeded",
		}
	default:
		return cur, classify.Classify(res.Output, res.ExitCode, backlog.Progressed(prev, cur))
	}
}

// onConnectionError handles a transient infrastructure failure: the
// attempt does not count and the iteration index does not advance.
func (e *Engine) onConnectionError(ctx context.Context, task *backlog.Task, verdict classify.Verdict, attempts, iter int, started, ended time.Time) (int, bool, error) {
	e.policies.Attempts.Seed(task.ID(), attempts-1)
	e.lastAttempts = attempts - 1
	e.journalAppend(iter, task.ID(), model.OutcomeConnectionError, verdict.Detail, started, ended)

	delay, aborted := e.policies.Backoff.OnConnectionError()
	if aborted {
		e.log(LogLevelError, "backoff_exhausted consecutive=%d detail=%q",
			e.policies.Backoff.Consecutive(), verdict.Detail)
		e.saveCheckpoint(task.ID(), iter, attempts-1, model.PauseError)
		e.printSummary(e.reloadQuiet(), iter, "persistent connection failures")
		return ExitError, true, fmt.Errorf("aborting after %d consecutive connection errors", e.policies.Backoff.Consecutive())
	}

	e.log(LogLevelWarn, "connection_error detail=%q consecutive=%d delay=%s",
		verdict.Detail, e.policies.Backoff.Consecutive(), delay)
	stopped, err := e.stop.sleepOrStop(ctx, delay)
	if err != nil {
		return ExitError, true, err
	}
	if stopped {
		exit, serr := e.stopRun(iter)
		return exit, true, serr
	}
	return iterationNotCounted, false, nil
}

// onStagnation consults the operator after repeated identical failures.
func (e *Engine) onStagnation(cur *model.Backlog, task *backlog.Task, sig string, attempts, iter int) (int, bool, error) {
	e.log(LogLevelWarn, "stagnation task_id=%s signature=%q", task.ID(), sig)

	outcome, err := e.guide.Resolve(guidance.Request{
		TaskID:      task.ID(),
		Attempts:    attempts,
		Signature:   sig,
		LastDetails: e.lastDetails,
	})
	if err != nil {
		return ExitError, true, fmt.Errorf("guidance: %w", err)
	}

	switch outcome.Decision {
	case guidance.DecisionGuide:
		e.guidanceText = outcome.Text
		e.policies.Stagnation.Reset()
		e.log(LogLevelInfo, "guidance_injected task_id=%s", task.ID())
	case guidance.DecisionSkip:
		story := e.storyIn(cur, task)
		if story != nil {
			backlog.MarkSkipped(story, model.SkipNoteOperator())
			if err := e.store.Save(cur); err != nil {
				return ExitError, true, err
			}
			e.progLog.Append(task.ID(), "skipped by operator during guidance")
		}
		e.policies.Stagnation.Reset()
		e.log(LogLevelInfo, "operator_skip task_id=%s", task.ID())
	case guidance.DecisionAbort:
		e.saveCheckpoint(task.ID(), iter+1, attempts, model.PauseUserRequested)
		e.log(LogLevelInfo, "operator_abort task_id=%s", task.ID())
		e.printSummary(cur, iter+1, "aborted by operator")
		return ExitStopped, true, nil
	}
	return 0, false, nil
}

// tripBreaker skips a story that exhausted its attempt budget. Returns
// false when the skip could not be persisted.
func (e *Engine) tripBreaker(b *model.Backlog, task *backlog.Task, iter int) bool {
	note := model.SkipNote(e.policies.Attempts.Max())
	story := e.storyIn(b, task)
	if story == nil || story.Skipped() {
		return true
	}
	backlog.MarkSkipped(story, note)
	if err := e.store.Save(b); err != nil {
		e.log(LogLevelError, "breaker_save_failed task_id=%s error=%v", task.ID(), err)
		return false
	}
	now := time.Now().UTC()
	e.journalAppend(iter, task.ID(), model.OutcomeSkipped, note, now, now)
	e.progLog.Append(task.ID(), note)
	e.log(LogLevelWarn, "breaker_tripped task_id=%s max_attempts=%d", task.ID(), e.policies.Attempts.Max())
	return true
}

func (e *Engine) storyIn(b *model.Backlog, task *backlog.Task) *model.Story {
	return b.FindStory(task.Story.ID)
}

// restoreCheckpoint seeds the attempt tracker and iteration index from
// a prior checkpoint on resume, or clears the slot on a fresh run.
func (e *Engine) restoreCheckpoint() (int, error) {
	if !e.resume {
		if err := e.checkpoints.Clear(); err != nil {
			e.log(LogLevelWarn, "checkpoint_clear_failed error=%v", err)
		}
		return 0, nil
	}

	cp, qPath, err := e.checkpoints.Load()
	if err != nil {
		return 0, err
	}
	if qPath != "" {
		e.log(LogLevelWarn, "checkpoint_quarantined path=%s", qPath)
	}
	if cp == nil {
		return 0, nil
	}

	e.policies.Attempts.Seed(cp.TaskID, cp.Attempts)
	e.lastTaskID, e.lastAttempts = cp.TaskID, cp.Attempts
	start := cp.IterationsUsed
	if start >= e.cfg.Run.MaxIterations {
		// a bigger budget this run, or a stale checkpoint; start over
		start = 0
	}
	e.log(LogLevelInfo, "resume task_id=%s iterations_used=%d attempts=%d reason=%s",
		cp.TaskID, cp.IterationsUsed, cp.Attempts, cp.Reason)
	return start, nil
}

func (e *Engine) saveCheckpoint(taskID string, iterationsUsed, attempts int, reason model.PauseReason) {
	cp := &model.Checkpoint{
		TaskID:         taskID,
		IterationsUsed: iterationsUsed,
		MaxIterations:  e.cfg.Run.MaxIterations,
		Attempts:       attempts,
		Reason:         reason,
	}
	if err := e.checkpoints.Save(cp); err != nil {
		e.log(LogLevelError, "checkpoint_save_failed task_id=%s error=%v", taskID, err)
	}
}

// stopRun honors the stop sentinel: consume it, checkpoint, exit 2.
func (e *Engine) stopRun(iter int) (int, error) {
	if err := e.stop.Consume(); err != nil {
		e.log(LogLevelWarn, "stop_consume_failed error=%v", err)
	}
	if e.lastTaskID != "" {
		e.saveCheckpoint(e.lastTaskID, iter, e.lastAttempts, model.PauseUserRequested)
	}
	e.log(LogLevelInfo, "stop_honored iterations_used=%d", iter)
	e.printSummary(e.reloadQuiet(), iter, "stopped by operator")
	return ExitStopped, nil
}

// finishComplete ends a run whose backlog fully passes.
func (e *Engine) finishComplete(b *model.Backlog, iter int) (int, bool, error) {
	if err := e.checkpoints.Clear(); err != nil {
		e.log(LogLevelWarn, "checkpoint_clear_failed error=%v", err)
	}
	e.progLog.Append("run", "all stories complete")
	e.log(LogLevelInfo, "run_complete run_id=%s iterations_used=%d", e.runID, iter)
	e.printSummary(b, iter, "all stories complete")
	return ExitComplete, true, nil
}

// finishDrained ends a run with no selectable work left: clean when
// everything passes, exit 1 when skipped stories remain.
func (e *Engine) finishDrained(b *model.Backlog, iter int) (int, error) {
	if backlog.AllComplete(b) {
		exit, _, err := e.finishComplete(b, iter)
		return exit, err
	}
	sum := backlog.Summarize(b)
	e.log(LogLevelWarn, "run_drained skipped=%d pending=%d", sum.Skipped, sum.Pending)
	e.printSummary(b, iter, "no selectable work remains")
	return ExitError, fmt.Errorf("%d stories skipped, %d blocked", sum.Skipped, sum.Pending)
}

func (e *Engine) journalAppend(index int, taskID string, outcome model.Outcome, detail string, started, ended time.Time) {
	rec := &model.IterationRecord{
		RunID:     e.runID,
		Index:     index,
		TaskID:    taskID,
		Outcome:   outcome,
		Detail:    detail,
		StartedAt: started.Format(time.RFC3339),
		EndedAt:   ended.Format(time.RFC3339),
	}
	if err := e.journal.Append(rec); err != nil {
		e.log(LogLevelError, "journal_append_failed task_id=%s error=%v", taskID, err)
	}
}

// switchBranch checks out the generation branch when the workspace is
// a git repository. Failures are warnings; the loop runs fine without git.
func (e *Engine) switchBranch(ctx context.Context, generation string) {
	if generation == "" || !e.git.IsRepository(ctx) {
		return
	}
	stashed, err := e.git.SwitchToBranch(ctx, generation)
	if err != nil {
		e.log(LogLevelWarn, "branch_switch_failed generation=%s error=%v", generation, err)
		return
	}
	if stashed {
		if err := e.git.RestoreStash(ctx); err != nil {
			e.log(LogLevelWarn, "stash_restore_conflict error=%v", err)
			fmt.Fprintf(e.stdout, "warning: %v\n", err)
		}
	}
}

func (e *Engine) reloadQuiet() *model.Backlog {
	b, err := e.store.Load()
	if err != nil {
		return &model.Backlog{}
	}
	return b
}

func (e *Engine) printSummary(b *model.Backlog, iter int, reason string) {
	sum := backlog.Summarize(b)
	fmt.Fprintf(e.stdout, "run finished: %s\n", reason)
	fmt.Fprintf(e.stdout, "  iterations: %d/%d\n", iter, e.cfg.Run.MaxIterations)
	fmt.Fprintf(e.stdout, "  stories:    %d complete, %d skipped, %d pending (of %d)\n",
		sum.Complete, sum.Skipped, sum.Pending, sum.Total)
}

func (e *Engine) log(level LogLevel, format string, args ...any) {
	if level < e.logLevel {
		return
	}
	levelStr := "INFO"
	switch level {
	case LogLevelDebug:
		levelStr = "DEBUG"
	case LogLevelWarn:
		levelStr = "WARN"
	case LogLevelError:
		levelStr = "ERROR"
	}
	msg := fmt.Sprintf(format, args...)
	e.logger.Printf("%s %s loop: %s", time.Now().Format(time.RFC3339), levelStr, msg)
}
