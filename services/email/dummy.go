package emailsvc

import (
	"sync"

	"github.com/darasahq/darasa/core"
)

// dummyService records messages synchronously for tests.
type dummyService struct {
	mu   sync.Mutex
	sent []core.EmailMessage
}

var _ core.EmailService = (*dummyService)(nil)

func NewDummyService() *dummyService {
	return &dummyService{}
}

func (svc *dummyService) SendMessages(messages ...*core.EmailMessage) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	for _, msg := range messages {
		svc.sent = append(svc.sent, *msg)
	}
}

// SentMessages returns a snapshot of everything sent so far.
func (svc *dummyService) SentMessages() []core.EmailMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	out := make([]core.EmailMessage, len(svc.sent))
	copy(out, svc.sent)
	return out
}
