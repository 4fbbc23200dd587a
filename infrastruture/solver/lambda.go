package solver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/beka-birhanu/vinom-sweeper/game/board"
	"github.com/beka-birhanu/vinom-sweeper/service/i"
)

// Invoker is the part of the Lambda API the solver needs.
type Invoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaClient runs the solver as an AWS Lambda function.
type LambdaClient struct {
	invoker  Invoker
	function string
}

var _ i.Solver = &LambdaClient{}

// NewLambdaClient uses the default AWS credential chain for region.
func NewLambdaClient(ctx context.Context, region, function string) (*LambdaClient, error) {
	if function == "" {
		return nil, errors.New("solver lambda function name is empty")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return NewLambdaClientWithInvoker(lambda.NewFromConfig(cfg), function), nil
}

func NewLambdaClientWithInvoker(inv Invoker, function string) *LambdaClient {
	return &LambdaClient{invoker: inv, function: function}
}

// Solve invokes the function synchronously with cs as its payload.
func (l *LambdaClient) Solve(ctx context.Context, cs board.ConstraintSet) (*board.Solution, error) {
	payload, err := json.Marshal(cs)
	if err != nil {
		return nil, err
	}

	out, err := l.invoker.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(l.function),
		InvocationType: types.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return nil, fmt.Errorf("invoking %s: %w", l.function, err)
	}
	if out.FunctionError != nil {
		return nil, fmt.Errorf("solver function failed (%s): %s", aws.ToString(out.FunctionError), out.Payload)
	}
	return decodeAnswer(out.Payload)
}
