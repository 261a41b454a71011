package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/naughtygopher/proberesponder"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	xhttp "github.com/prashantkr001/catalog-go/cmd/server/http"
	"github.com/prashantkr001/catalog-go/internal/pkg/apm"
	"github.com/prashantkr001/catalog-go/internal/pkg/logger"
)

func appendShutdownStatus(pResp *proberesponder.ProbeResponder, key, stage string) {
	pResp.AppendHealthResponse(
		fmt.Sprintf("shutdown/%s", key),
		fmt.Sprintf("%s %s", stage, time.Now().Format(time.RFC3339)),
	)
}

func shutdown(
	pResp *proberesponder.ProbeResponder,
	healthResp *http.Server,
	httpServer *xhttp.HTTP,
	mongoCli *mongo.Client,
	apmHandler *apm.APM,
) {
	// the time should be decided based on the K8s grace period allowed for shutdown
	// ref: terminationGracePeriodSeconds, https://kubernetes.io/docs/concepts/containers/container-lifecycle-hooks/
	const shutdownTimeout = time.Second * 60
	pResp.AppendHealthResponse("shutdown", fmt.Sprintf("initiated %s", time.Now().Format(time.RFC3339)))
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	/*
		Note: Though there is no mandate to do healthcheck via HTTP, it is important to keep healthcheck
		endpoint available as long as possible to provide Kubernetes probes as much context as possible.
		Esepcially during the graceful shutdown period. Hence it is recommended to setup an independent
		server for health checks alone.
	*/
	defer func() {
		_ = healthResp.Shutdown(ctx)
	}()

	shutdownAPIs(ctx, pResp, httpServer)

	// after all the APIs of the application are shutdown we should close connections
	// to dependencies like the database. This should only be done after the APIs are
	// shutdown completely
	shutdownDependencies(ctx, pResp, mongoCli, apmHandler)
}

func shutdownAPIs(
	ctx context.Context,
	pResp *proberesponder.ProbeResponder,
	httpServer *xhttp.HTTP,
) {
	grp := new(errgroup.Group)

	grp.Go(func() error {
		appendShutdownStatus(pResp, "http-catalogserver", "initiated")
		defer appendShutdownStatus(pResp, "http-catalogserver", "completed")
		return httpServer.Shutdown(ctx)
	})

	err := grp.Wait()
	if err != nil {
		logger.ErrWithStacktrace(err)
	}
}

func shutdownDependencies(
	ctx context.Context,
	pResp *proberesponder.ProbeResponder,
	mongoCli *mongo.Client,
	apmHandler *apm.APM,
) {
	grp := new(errgroup.Group)

	if mongoCli != nil {
		grp.Go(func() error {
			appendShutdownStatus(pResp, "mongodb-driver", "initiated")
			defer appendShutdownStatus(pResp, "mongodb-driver", "completed")
			return mongoCli.Disconnect(ctx)
		})
	}

	grp.Go(func() error {
		appendShutdownStatus(pResp, "apm-server", "initiated")
		defer appendShutdownStatus(pResp, "apm-server", "completed")
		return apmHandler.Shutdown(ctx)
	})

	err := grp.Wait()
	if err != nil {
		logger.ErrWithStacktrace(err)
	}
}
