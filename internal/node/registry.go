package node

// CommandHandler receives a structured command: the value of the
// payload's "command" field plus the full decoded document.
type CommandHandler func(command string, doc map[string]any)

// MessageHandler receives the raw topic string and the raw text payload
// of a message that carried no command for this topic.
type MessageHandler func(topic string, message string)

// Topic is one registered sub-topic. Name is relative — "temp", not
// "home/sensor1/temp" — and either handler may be nil. Which handler runs
// is selected per message by payload shape: a decoded "command" field
// prefers OnCommand, everything else falls back to OnMessage.
type Topic struct {
	Name      string
	OnCommand CommandHandler
	OnMessage MessageHandler
}

// Registry is the ordered list of registered topics. Registration order
// is dispatch priority: the first exact path match wins, and at most one
// topic acts on any message.
//
// The registry is intentionally unsynchronised. It is built at startup
// and afterwards touched only by the tick goroutine; registering or
// unregistering from inside a dispatch handler would mutate the sequence
// being scanned and must be deferred until dispatch returns.
type Registry struct {
	topics []Topic
	logger Logger
}

// NewRegistry creates an empty topic registry.
func NewRegistry() *Registry {
	return &Registry{logger: noopLogger{}}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Register appends a topic. Names are not deduplicated: a second
// registration under the same name is appended and, because dispatch
// stops at the first match, shadowed until the first is unregistered.
func (r *Registry) Register(t Topic) {
	r.topics = append(r.topics, t)
	r.logger.Debug("topic registered", "name", t.Name)
}

// Unregister removes the first topic with the given name. Removing a
// name that is not present changes nothing and reports no error.
func (r *Registry) Unregister(name string) {
	for i := range r.topics {
		if r.topics[i].Name == name {
			r.topics = append(r.topics[:i], r.topics[i+1:]...)
			r.logger.Debug("topic unregistered", "name", name)
			return
		}
	}
}

// Topics returns the registered topics in registration order.
// The returned slice is the registry's own backing store; callers must
// not mutate it.
func (r *Registry) Topics() []Topic {
	return r.topics
}

// Len returns the number of registered topics.
func (r *Registry) Len() int {
	return len(r.topics)
}
