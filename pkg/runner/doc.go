/*
Package runner supervises routing sessions.

A Runner owns the session state machine:

	RESOLVING -> OPENING -> RUNNING -> TEARDOWN -> RESOLVING ...

Every pass resolves ports from scratch, opens them, compiles the routing
table and runs ingestion, dispatch and the topology monitor until the
monitor reports a change. The loop only ends when the context passed to
Run is cancelled.

# Usage

	r := runner.NewRunner(provider, routing,
		runner.WithLogger(logger),
		runner.WithStatusStore(store, "studio"),
	)
	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
