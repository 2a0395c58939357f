package usecase

import (
	"context"
	"sync"

	"github.com/mark47B/browser-data-service/app/domain/entity"
)

type PromptKind string

const (
	PromptChooseEmailAddress PromptKind = "chooseEmailAddress"
	PromptEmailSignUp        PromptKind = "emailSignUp"
)

// AutofillInbox stands in for the browser tab when the flows are driven
// remotely. It records the native prompts a flow asks for and keeps the
// messages sent to tracked page replies until a client takes them.
type AutofillInbox struct {
	mu      sync.Mutex
	replies map[string]*PageReply
	prompts map[string][]PromptKind
}

func NewAutofillInbox() *AutofillInbox {
	return &AutofillInbox{
		replies: make(map[string]*PageReply),
		prompts: make(map[string][]PromptKind),
	}
}

// PageReply buffers the messages posted to one page request.
type PageReply struct {
	mu       sync.Mutex
	messages []string
}

func (r *PageReply) PostMessage(message string) error {
	r.mu.Lock()
	r.messages = append(r.messages, message)
	r.mu.Unlock()
	return nil
}

func (r *PageReply) drain() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.messages
	r.messages = nil
	return out
}

func (b *AutofillInbox) NewReply() *PageReply {
	return &PageReply{}
}

// Track makes the messages of reply collectable under requestID.
func (b *AutofillInbox) Track(requestID string, reply *PageReply) {
	b.mu.Lock()
	b.replies[requestID] = reply
	b.mu.Unlock()
}

func (b *AutofillInbox) OnSelectedToSignUpForInContextEmailProtection(_ context.Context, req entity.AutofillURLRequest) {
	b.addPrompt(req.RequestID, PromptEmailSignUp)
}

func (b *AutofillInbox) ShowNativeChooseEmailAddressPrompt(_ context.Context, req entity.AutofillURLRequest) {
	b.addPrompt(req.RequestID, PromptChooseEmailAddress)
}

func (b *AutofillInbox) addPrompt(requestID string, kind PromptKind) {
	b.mu.Lock()
	b.prompts[requestID] = append(b.prompts[requestID], kind)
	b.mu.Unlock()
}

// Take returns and forgets what was produced for requestID so far. A reply
// is answered at most once, so it stops being tracked after its first
// message.
func (b *AutofillInbox) Take(requestID string) ([]string, []PromptKind) {
	b.mu.Lock()
	reply := b.replies[requestID]
	prompts := b.prompts[requestID]
	delete(b.prompts, requestID)
	b.mu.Unlock()

	if reply == nil {
		return nil, prompts
	}
	messages := reply.drain()
	if len(messages) > 0 {
		b.mu.Lock()
		delete(b.replies, requestID)
		b.mu.Unlock()
	}
	return messages, prompts
}
