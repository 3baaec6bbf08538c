package runtime

// Observer receives routing counters. Implementations must be safe for concurrent use.
type Observer interface {
	MessageReceived(origin string)
	MessageRouted(destination string)
	SendFailed(destination string)
	QueueDepth(depth int)
}

// NopObserver discards everything.
type NopObserver struct{}

func (NopObserver) MessageReceived(string) {}
func (NopObserver) MessageRouted(string)   {}
func (NopObserver) SendFailed(string)      {}
func (NopObserver) QueueDepth(int)         {}
