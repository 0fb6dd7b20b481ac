// Command edgeconfig-injector is the custom resource handler that bakes
// configuration into a Lambda function's environment and publishes a version
// for edge replication.
package main

import (
	"context"

	"github.com/apex/log"
	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/substratehq/groundwork/handlers/edgeconfig"
	"github.com/substratehq/groundwork/internal/awsenv"
	"github.com/substratehq/groundwork/internal/logging"
	"github.com/substratehq/groundwork/lifecycle"
)

func main() {
	logging.Init()

	cfg, err := awsenv.Load(context.Background())
	if err != nil {
		log.WithError(err).Fatal("loading AWS config")
	}

	injector := edgeconfig.NewInjector(awsenv.NewLambda(cfg))
	lambda.Start(cfn.LambdaWrap(lifecycle.Wrap(injector)))
}
