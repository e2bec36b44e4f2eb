/*
Package runner implements the effect-execution runtime for vine stores.

A Runner executes the inert effect requests that reducers return and reports
results back through a sink. It is the only place where goroutines, timers
and I/O happen; reducers stay pure.

# Guarantees

  - At most one flight per effect ID: starting an ID that is already in
    flight cancels the previous flight first.
  - Cancel(id) stops id and every flight scoped beneath it ("id/...").
  - A cancelled or superseded flight never delivers again, and Active
    reports it as inactive immediately, so stores can drop stale results.

# Usage

	r := runner.New(
		runner.WithHandler("fact.fetch", factClient),
		runner.WithLogger(logger),
	)
	defer r.Close()

	store := vine.NewStore(initial, reducer, vine.WithExecutor(r))
*/
package runner
