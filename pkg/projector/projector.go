package projector

import (
	"sync"

	"go.uber.org/zap"
	"votehub.xyz/votecollector-service/pkg/common"
)

// Sink is the projector overlay: show or clear a keyed message. Both calls
// are fire-and-forget; the voting core never fails on projector problems.
type Sink interface {
	Show(key string, message string)
	Clear(key string)
}

// Notifier fans out "data changed" hints to dependent views.
type Notifier interface {
	Notify(entityRefs ...string)
}

// MessageKeyVoting is the overlay slot used for the vote prompt.
const MessageKeyVoting = "votecollector_message"

// Overlay keeps the current overlay messages in memory: key -> message.
type Overlay struct {
	messages map[string]string
	mu       sync.Mutex
}

func NewOverlay() *Overlay {
	return &Overlay{messages: make(map[string]string)}
}

func (o *Overlay) Show(key string, message string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages[key] = message

	common.GetLoggerWith(common.LoggerNameProjector).Info("Overlay message set",
		zap.String("key", key), zap.String("message", message))
}

func (o *Overlay) Clear(key string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.messages, key)

	common.GetLoggerWith(common.LoggerNameProjector).Info("Overlay message cleared",
		zap.String("key", key))
}

// Messages returns a copy of the current overlay state.
func (o *Overlay) Messages() map[string]string {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make(map[string]string, len(o.messages))
	for k, v := range o.messages {
		out[k] = v
	}
	return out
}

// LogNotifier is the default change-notification sink: it only records the
// change for consumers that tail the log stream.
type LogNotifier struct{}

func (LogNotifier) Notify(entityRefs ...string) {
	common.GetLoggerWith(common.LoggerNameProjector).Info("Entities changed",
		zap.Strings("refs", entityRefs))
}
