// Command stripehook-provisioner is the custom resource handler managing
// Stripe webhook endpoints. Deploy it once per account and point
// ServiceToken at it.
package main

import (
	"context"
	"os"

	"github.com/apex/log"
	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/substratehq/groundwork/handlers/stripewebhook"
	"github.com/substratehq/groundwork/internal/awsenv"
	"github.com/substratehq/groundwork/internal/logging"
	"github.com/substratehq/groundwork/internal/secrets"
	"github.com/substratehq/groundwork/lifecycle"
)

func main() {
	logging.Init()

	cfg, err := awsenv.Load(context.Background())
	if err != nil {
		log.WithError(err).Fatal("loading AWS config")
	}

	resolver := secrets.NewResolver(awsenv.NewSecretsManager(cfg))

	var opts []stripewebhook.ProvisionerOption
	if ref := os.Getenv("STRIPE_API_KEY_SECRET"); ref != "" {
		opts = append(opts, stripewebhook.WithAPIKeyReference(ref))
	}
	provisioner := stripewebhook.NewProvisioner(resolver, opts...)

	lambda.Start(cfn.LambdaWrap(lifecycle.Wrap(provisioner)))
}
