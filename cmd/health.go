package main

import (
	"context"
	"time"

	"github.com/naughtygopher/proberesponder"
	"github.com/naughtygopher/proberesponder/extensions/depprober"
	"go.mongodb.org/mongo-driver/mongo"
)

const dependencyIDMongo = "mongodb"

// healthStatus starts periodic dependency probes which feed the readiness
// response. Liveness is never tied to dependencies; a catalog process with an
// unreachable store is still alive. mongoCli is nil when running on the
// in-memory backend, in which case readiness has nothing to probe.
func healthStatus( //nolint:ireturn // returning interface because that's what's exposed by the package
	delay time.Duration,
	pstatus *proberesponder.ProbeResponder,
	mongoCli *mongo.Client,
) depprober.Stopper {
	/*
		Important: having regular pings would keep the respective clients "active".
		This may or may not be a desirable behavior.
		e.g. it might be better to let all connections of MongoDB be disconnected
		if there's no activity, so that the server would only need to deal with fewer connections.
	*/
	probes := make([]depprober.Prober, 0, 1)
	if mongoCli != nil {
		probes = append(probes, &depprober.Probe{
			ID:               dependencyIDMongo,
			AffectedStatuses: []proberesponder.Statuskey{proberesponder.StatusReady},
			Checker: depprober.CheckerFunc(func(ctx context.Context) error {
				return mongoCli.Ping(ctx, nil)
			}),
		})
	}

	return depprober.Start(delay, pstatus, probes...)
}
