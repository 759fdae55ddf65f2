package redpanda

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kmsg"
)

// createTopicIfNotExists creates a topic through the CreateTopics admin request.
// An already existing topic is not an error.
func createTopicIfNotExists(ctx context.Context, client kafkaClient, topic string, partitions int32, replicationFactor int16) error {
	if topic == "" {
		return fmt.Errorf("topic name cannot be empty")
	}
	if partitions <= 0 {
		return fmt.Errorf("partitions must be greater than 0")
	}
	if replicationFactor <= 0 {
		return fmt.Errorf("replication factor must be greater than 0")
	}

	req := kmsg.NewCreateTopicsRequest()
	req.TimeoutMillis = 30000
	topicReq := kmsg.NewCreateTopicsRequestTopic()
	topicReq.Topic = topic
	topicReq.NumPartitions = partitions
	topicReq.ReplicationFactor = replicationFactor
	req.Topics = append(req.Topics, topicReq)

	resp, err := client.Request(ctx, &req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	createTopicsResp, ok := resp.(*kmsg.CreateTopicsResponse)
	if !ok {
		return fmt.Errorf("unexpected response type: %T", resp)
	}

	for _, topicResp := range createTopicsResp.Topics {
		if topicResp.ErrorCode == 0 {
			slog.Info("topic created", slog.String("topic", topicResp.Topic), slog.Int("partitions", int(partitions)))
			continue
		}
		if topicResp.ErrorCode == kerr.TopicAlreadyExists.Code {
			slog.Info("topic already exists", slog.String("topic", topicResp.Topic))
			continue
		}
		msg := ""
		if topicResp.ErrorMessage != nil {
			msg = *topicResp.ErrorMessage
		}
		return fmt.Errorf("create topic error: %s (code %d)", msg, topicResp.ErrorCode)
	}
	return nil
}
