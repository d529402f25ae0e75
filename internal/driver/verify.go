package driver

import (
	"fmt"

	"lattice/internal/ir"
	"lattice/internal/observ"
	"lattice/internal/snapshot"
)

// VerifyFile loads one snapshot, rebuilds it into a fresh Context and
// verifies the module. A non-nil cache short-circuits files whose
// digest was already verified.
func VerifyFile(path string, cache *snapshot.DiskCache, sink ProgressSink) VerifyResult {
	if sink == nil {
		sink = nopSink{}
	}
	timer := observ.NewTimer()
	res := VerifyResult{Path: path}

	sink.OnEvent(Event{File: path, Stage: StageLoad, Status: StatusWorking})
	phase := timer.Begin("load")
	payload, digest, err := snapshot.LoadFile(path)
	timer.End(phase, "")
	if err != nil {
		res.Err = err
		sink.OnEvent(Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
		return finish(res, timer)
	}

	if cache != nil {
		if cached, ok := cache.Lookup(digest); ok {
			res.Cached = true
			if !cached.OK {
				res.Err = fmt.Errorf("%s", cached.Message)
			}
			status := StatusCached
			if res.Err != nil {
				status = StatusError
			}
			sink.OnEvent(Event{File: path, Stage: StageVerify, Status: status, Err: res.Err})
			return finish(res, timer)
		}
	}

	sink.OnEvent(Event{File: path, Stage: StageBuild, Status: StatusWorking})
	phase = timer.Begin("build")
	irCtx, mod, err := snapshot.Build(payload)
	timer.End(phase, fmt.Sprintf("funcs=%d", len(payload.Funcs)))
	if err != nil {
		res.Err = err
		sink.OnEvent(Event{File: path, Stage: StageBuild, Status: StatusError, Err: err})
		return finish(res, timer)
	}

	sink.OnEvent(Event{File: path, Stage: StageVerify, Status: StatusWorking})
	phase = timer.Begin("verify")
	verifyErr := ir.VerifyModule(irCtx, mod)
	timer.End(phase, "")
	res.Err = verifyErr

	if cache != nil {
		msg := ""
		if verifyErr != nil {
			msg = verifyErr.Error()
		}
		// Cache write failures are not verification failures.
		_ = cache.Store(digest, verifyErr == nil, msg)
	}

	status := StatusDone
	if verifyErr != nil {
		status = StatusError
	}
	sink.OnEvent(Event{File: path, Stage: StageVerify, Status: status, Err: verifyErr})
	return finish(res, timer)
}

func finish(res VerifyResult, timer *observ.Timer) VerifyResult {
	report := timer.Report()
	res.Timing = &report
	return res
}
