/*
Package midiroute routes MIDI messages between ports according to a declarative
mapping table, and keeps routing while devices are plugged, unplugged or renamed.

# Concept

A configuration declares logical ports (an identifier bound to a device name,
optionally pinned to one "N:M" connector) and mappings between them. A Router
resolves the logical ports against the names the provider currently exposes,
opens them, compiles the mappings into per-input pipelines and dispatches every
incoming message through them. A topology monitor polls the provider; when the
set of port names changes the session is torn down and rebuilt from scratch.

# Usage

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal(err)
	}

	router, err := midiroute.New(cfg,
		midiroute.WithLogger(logger),
		midiroute.WithMetrics(observability.NewMetrics()),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := router.Run(ctx); err != nil {
		log.Fatal(err)
	}

Without WithProvider the router talks to hardware through the gomidi driver
registered by the binary (see cmd/midiroute).
*/
package midiroute
