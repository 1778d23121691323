package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/programme-lv/prompteval/api"
	"github.com/programme-lv/prompteval/internal/environment"
	"github.com/programme-lv/prompteval/internal/eval"
	"github.com/programme-lv/prompteval/internal/pipeline"
	"github.com/programme-lv/prompteval/internal/protostore"
	"github.com/programme-lv/prompteval/internal/s3downl"
	"github.com/programme-lv/prompteval/sqsgath"
)

func workerCmd() *cli.Command {
	return &cli.Command{
		Name:  "worker",
		Usage: "consume grading requests from the SQS request queue",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runWorker(ctx)
		},
	}
}

func runWorker(ctx context.Context) error {
	cfg := environment.ReadEnvConfig()
	if cfg.ReqQueueUrl == "" {
		return fmt.Errorf("PROMPTEVAL_REQ_SQS_URL is not set")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AwsRegion))
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}
	sqsClient := sqs.NewFromConfig(awsCfg)

	store, err := protostore.New(cfg.CacheDir, s3downl.GetDownloadFunc(cfg.AwsRegion))
	if err != nil {
		return fmt.Errorf("failed to create prototype store: %w", err)
	}
	store.Start()

	evaluator := eval.NewEvaluator(store, eval.Options{
		Stages:          pipeline.DefaultStages(cfg.MvnBin),
		StageTimeout:    cfg.StageTimeout,
		RetainOnFailure: cfg.RetainSandboxOnFailure,
	})

	// SQS is at-least-once; remember handled eval uuids so a
	// redelivered request is not graded twice.
	seen := mapset.NewSet[string]()

	slog.Info("worker started", "queue", cfg.ReqQueueUrl, "region", cfg.AwsRegion)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		output, err := sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(cfg.ReqQueueUrl),
			MaxNumberOfMessages: 1,
			WaitTimeSeconds:     5,
		})
		if err != nil {
			slog.Error("failed to receive messages", "error", err)
			time.Sleep(1 * time.Second)
			continue
		}

		for _, message := range output.Messages {
			var req api.EvalReq
			if err := json.Unmarshal([]byte(*message.Body), &req); err != nil {
				slog.Error("failed to unmarshal request", "error", err)
				deleteMessage(ctx, sqsClient, cfg.ReqQueueUrl, message.ReceiptHandle)
				continue
			}
			if req.EvalUuid == "" {
				req.EvalUuid = uuid.NewString()
			}

			if !seen.Add(req.EvalUuid) {
				slog.Warn("skipping duplicate request", "eval_uuid", req.EvalUuid)
				deleteMessage(ctx, sqsClient, cfg.ReqQueueUrl, message.ReceiptHandle)
				continue
			}

			slog.Info("grading request received", "eval_uuid", req.EvalUuid)
			gath := sqsgath.New(sqsClient, req.EvalUuid, req.ResSqsUrl)
			result, err := evaluator.Evaluate(ctx, req, gath)
			if err != nil {
				slog.Error("evaluation failed", "eval_uuid", req.EvalUuid, "error", err)
			} else {
				slog.Info("evaluation finished",
					"eval_uuid", req.EvalUuid,
					"pass", result.Pass,
					"score", result.Score)
			}

			deleteMessage(ctx, sqsClient, cfg.ReqQueueUrl, message.ReceiptHandle)
		}
	}
}

func deleteMessage(ctx context.Context, client *sqs.Client, queueUrl string, receiptHandle *string) {
	_, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueUrl),
		ReceiptHandle: receiptHandle,
	})
	if err != nil {
		slog.Error("failed to delete message", "error", err)
	}
}
