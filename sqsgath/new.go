package sqsgath

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// sqsSender is the slice of the SQS client the gatherer needs.
type sqsSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// New creates a gatherer that publishes responses for one grading run
// to responseSqsUrl. The client is passed in rather than constructed
// here so a worker process holds a single configured client.
func New(sqsClient *sqs.Client, evalUuid string, responseSqsUrl string) *sqsResQueueGatherer {
	return &sqsResQueueGatherer{
		sqsClient: sqsClient,
		queueUrl:  responseSqsUrl,
		evalUuid:  evalUuid,
	}
}
