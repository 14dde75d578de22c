package jobqueue

import (
	"context"

	"github.com/shvarc/provider/internal/pkg/mail"
)

// MailSender queues messages for background delivery instead of sending
// them in the request.
type MailSender struct {
	queue *Queue
}

func NewMailSender(queue *Queue) *MailSender {
	return &MailSender{queue: queue}
}

func (s *MailSender) Send(ctx context.Context, msg mail.Message) error {
	_, err := s.queue.EnqueueJob(ctx, JobTypeSendMail, SendMailJobPayload{Message: msg})
	return err
}

// SendMailHandler delivers queued messages through sender.
func SendMailHandler(sender mail.Sender) Handler {
	return func(ctx context.Context, job *Job) error {
		var payload SendMailJobPayload
		if err := job.DecodePayload(&payload); err != nil {
			return err
		}
		return sender.Send(ctx, payload.Message)
	}
}
