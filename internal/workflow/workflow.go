package workflow

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/hackid/pkg/metrics"
	"github.com/JaimeStill/hackid/pkg/source"
)

// Validate runs the validation graph for one project against repo.
//
// An inaccessible repository or malformed window yields an ERROR report, not
// an error. The only error returned is cancellation or deadline expiry, in
// which case partial evidence is discarded.
func Validate(
	ctx context.Context,
	rt *Runtime,
	repo source.Repository,
	claims ClaimSet,
	window Window,
) (*Report, error) {
	if rt.Options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.Options.Timeout)
		defer cancel()
	}

	started := time.Now()
	r := newRun(rt, repo, claims, window)

	if err := window.Validate(); err != nil {
		return r.finish(ctx, ErrorReport(err.Error()), claims, started), nil
	}

	r.logger.InfoContext(
		ctx, "validation started",
		"window_start", window.Start,
		"window_end", window.End,
		"tech_claims", len(claims.TechStack),
		"team_claims", len(claims.TeamMembers),
	)

	graph, err := buildGraph(r)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	final, err := graph.Execute(ctx, state.New(nil))
	if ctxErr := ctx.Err(); ctxErr != nil {
		r.logger.WarnContext(ctx, "validation aborted", "error", ctxErr)
		return nil, ctxErr
	}
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	report, err := extractReport(final)
	if err != nil {
		return nil, err
	}

	return r.finish(ctx, report, claims, started), nil
}

func (r *run) finish(ctx context.Context, report *Report, claims ClaimSet, started time.Time) *Report {
	report.ExternalCallsUsed = r.calls()
	report.Description = Describe(report, claims)
	report.Reasoning = Reason(report, claims)

	metrics.ObserveValidation(string(report.Status), time.Since(started))

	r.logger.InfoContext(
		ctx, "validation complete",
		"status", report.Status,
		"confidence", report.Confidence,
		"external_calls_used", report.ExternalCallsUsed,
	)
	return report
}

func buildGraph(r *run) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("hackid-validate")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("timeline", timelineNode(r)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("evidence", evidenceNode(r)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("finalize", finalizeNode(r)); err != nil {
		return nil, err
	}

	// timeline → finalize (disqualified or inaccessible)
	if err := graph.AddEdge("timeline", "finalize", halted); err != nil {
		return nil, err
	}

	// timeline → evidence (otherwise)
	if err := graph.AddEdge("timeline", "evidence", state.Not(halted)); err != nil {
		return nil, err
	}

	// evidence → finalize (unconditional)
	if err := graph.AddEdge("evidence", "finalize", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("timeline"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("finalize"); err != nil {
		return nil, err
	}

	return graph, nil
}

// timelineNode lists commits once and buckets them. A failed listing is the
// run's access check: it marks the run as inaccessible. A truncated listing
// lacks the oldest history, so when it shows nothing before the start one
// more request looks for a commit before the window.
func timelineNode(r *run) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		rd := r.repo.Commits(ctx, nil, nil)
		if !rd.OK() {
			r.logger.WarnContext(ctx, "repository inaccessible", "status", rd.Status, "error", rd.Err)
			return s.Set(KeyCause, fmt.Sprintf("%s: %v", ErrRepoInaccessible, rd.Err)), nil
		}

		verdict, inWindow := ClassifyTimeline(rd.Value, r.window)

		if rd.Truncated && verdict.PreStart == 0 {
			older := r.repo.CommitsBefore(ctx, r.window.Start, 1)
			switch {
			case older.OK():
				verdict, inWindow = ClassifyTimeline(append(rd.Value, older.Value...), r.window)
			case older.Status == source.StatusFailed:
				r.logger.WarnContext(ctx, "pre-start lookup failed", "error", older.Err)
			}
		}

		r.logger.InfoContext(
			ctx, "timeline node complete",
			"commits", verdict.Total(),
			"pre_start", verdict.PreStart,
			"in_window", verdict.InWindow,
			"leeway", verdict.Leeway,
			"after_leeway", verdict.AfterLeeway,
		)

		s = s.Set(KeyTimeline, verdict)
		s = s.Set(KeyInWindow, inWindow)
		return s, nil
	})
}

// evidenceNode runs the tech, team, and core-logic checks concurrently and
// joins them. The checks share no mutable state.
func evidenceNode(r *run) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		inWindow, err := get[[]source.Commit](s, KeyInWindow)
		if err != nil {
			return s, fmt.Errorf("evidence: %w", err)
		}

		var (
			tech  map[string]Evidence
			team  TeamVerdict
			logic CoreLogicVerdict
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			tech = resolveTech(gctx, r)
			return gctx.Err()
		})
		g.Go(func() error {
			team = MatchTeam(r.claims.TeamMembers, inWindow)
			return nil
		})
		g.Go(func() error {
			logic = verifyCoreLogic(gctx, r)
			return gctx.Err()
		})

		if err := g.Wait(); err != nil {
			return s, fmt.Errorf("evidence: %w", err)
		}

		r.logger.InfoContext(
			ctx, "evidence node complete",
			"tech_claims", len(tech),
			"team_matched", len(team.Matched),
			"core_logic", logic.Status,
		)

		s = s.Set(KeyTech, tech)
		s = s.Set(KeyTeam, team)
		s = s.Set(KeyLogic, logic)
		return s, nil
	})
}

// finalizeNode assembles the report from whatever path reached it.
func finalizeNode(r *run) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		if cause, ok := s.Get(KeyCause); ok {
			return s.Set(KeyReport, ErrorReport(fmt.Sprint(cause))), nil
		}

		tl, err := get[TimelineVerdict](s, KeyTimeline)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		if tl.Disqualifying() {
			r.logger.InfoContext(ctx, "disqualified by timeline", "pre_start", tl.PreStart)
			return s.Set(KeyReport, Disqualify(r.claims, tl)), nil
		}

		tech, err := get[map[string]Evidence](s, KeyTech)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}
		team, err := get[TeamVerdict](s, KeyTeam)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}
		logic, err := get[CoreLogicVerdict](s, KeyLogic)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		report := Aggregate(r.claims, Findings{
			Timeline: tl,
			Tech:     tech,
			Team:     team,
			Logic:    logic,
		})
		return s.Set(KeyReport, report), nil
	})
}

func halted(s state.State) bool {
	if _, ok := s.Get(KeyCause); ok {
		return true
	}
	tl, err := get[TimelineVerdict](s, KeyTimeline)
	return err == nil && tl.Disqualifying()
}

func get[T any](s state.State, key string) (T, error) {
	var zero T
	val, ok := s.Get(key)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrMissingState, key)
	}
	v, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s has type %T", ErrMissingState, key, val)
	}
	return v, nil
}

func extractReport(s state.State) (*Report, error) {
	return get[*Report](s, KeyReport)
}
