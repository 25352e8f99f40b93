package session

// Notifier receives the one user-facing message a failed operation is
// allowed to produce. The CLI renders these to the terminal; tests use a
// recording implementation.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}
