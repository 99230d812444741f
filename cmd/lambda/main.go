package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/spacesedan/wordlens/internal/app"
)

var (
	chiLambda     *chiadapter.ChiLambdaV2
	coldStart     = true
	coldStartTime time.Time
)

func init() {
	coldStartTime = time.Now()

	cfg, err := app.Bootstrap(os.Stdout)
	if err != nil {
		slog.Error("[Lambda] Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// No health monitor: the runtime is frozen between invocations.
	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("[Lambda] Failed to initialize", slog.String("error", err.Error()))
		os.Exit(1)
	}

	chiLambda = chiadapter.NewV2(a.Router())
	slog.Info("[Lambda] Cold start completed", slog.Duration("elapsed", time.Since(coldStartTime)))
}

func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	resp, err := chiLambda.ProxyWithContextV2(ctx, req)
	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	if coldStart {
		resp.Headers["X-Cold-Start"] = "true"
		coldStart = false
	} else {
		resp.Headers["X-Cold-Start"] = "false"
	}
	return resp, err
}

func main() {
	lambda.Start(Handler)
}
