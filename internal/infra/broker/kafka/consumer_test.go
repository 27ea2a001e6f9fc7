package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
)

type fakeSession struct {
	marked []*sarama.ConsumerMessage
}

func (s *fakeSession) Claims() map[string][]int32                                               { return nil }
func (s *fakeSession) MemberID() string                                                         { return "member-1" }
func (s *fakeSession) GenerationID() int32                                                      { return 1 }
func (s *fakeSession) MarkOffset(topic string, partition int32, offset int64, metadata string)  {}
func (s *fakeSession) Commit()                                                                  {}
func (s *fakeSession) ResetOffset(topic string, partition int32, offset int64, metadata string) {}
func (s *fakeSession) Context() context.Context                                                 { return context.Background() }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, metadata string) {
	s.marked = append(s.marked, msg)
}

type fakeClaim struct {
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Topic() string                            { return "booking.events.v1" }
func (c *fakeClaim) Partition() int32                         { return 0 }
func (c *fakeClaim) InitialOffset() int64                     { return 0 }
func (c *fakeClaim) HighWaterMarkOffset() int64               { return 0 }
func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func TestConsumeClaimMarksHandledMessages(t *testing.T) {
	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 3)}
	claim.messages <- &sarama.ConsumerMessage{Topic: "booking.events.v1", Offset: 1}
	claim.messages <- &sarama.ConsumerMessage{Topic: "booking.events.v1", Offset: 2}
	claim.messages <- &sarama.ConsumerMessage{Topic: "booking.events.v1", Offset: 3}
	close(claim.messages)

	sess := &fakeSession{}
	handler := groupHandler{handler: func(ctx context.Context, msg *sarama.ConsumerMessage) error {
		// the second record fails and must stay unmarked for redelivery
		if msg.Offset == 2 {
			return errors.New("transient")
		}
		return nil
	}}

	if err := handler.ConsumeClaim(sess, claim); err != nil {
		t.Fatalf("ConsumeClaim() error = %v", err)
	}
	if len(sess.marked) != 2 {
		t.Fatalf("marked = %d messages, want 2", len(sess.marked))
	}
	for _, msg := range sess.marked {
		if msg.Offset == 2 {
			t.Errorf("offset 2 was marked despite the handler error")
		}
	}
}
