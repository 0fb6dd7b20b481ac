// Command stripehook-forwarder receives Stripe webhook deliveries on a
// function URL, verifies their signatures, and relays them to an EventBridge
// bus.
package main

import (
	"context"
	"os"

	"github.com/apex/log"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/substratehq/groundwork/handlers/stripewebhook"
	"github.com/substratehq/groundwork/internal/awsenv"
	"github.com/substratehq/groundwork/internal/logging"
	"github.com/substratehq/groundwork/internal/secrets"
)

func main() {
	logging.Init()

	ctx := context.Background()
	cfg, err := awsenv.Load(ctx)
	if err != nil {
		log.WithError(err).Fatal("loading AWS config")
	}

	secretID := os.Getenv("SIGNING_SECRET_ID")
	if secretID == "" {
		log.Fatal("SIGNING_SECRET_ID is required")
	}
	busName := os.Getenv("EVENT_BUS_NAME")
	if busName == "" {
		log.Fatal("EVENT_BUS_NAME is required")
	}
	source := os.Getenv("EVENT_SOURCE")
	if source == "" {
		source = "stripe.webhook"
	}

	// The signing secret rotates only when the endpoint is re-provisioned,
	// so resolving once at cold start is safe.
	resolver := secrets.NewResolver(awsenv.NewSecretsManager(cfg))
	signingSecret, err := resolver.Resolve(ctx, secretID)
	if err != nil {
		log.WithError(err).Fatal("resolving signing secret")
	}

	forwarder := stripewebhook.NewForwarder(
		signingSecret,
		awsenv.NewEventBridge(cfg),
		busName,
		source,
	)
	lambda.Start(forwarder.Handle)
}
