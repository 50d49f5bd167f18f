package session

import (
	"github.com/sirupsen/logrus"
)

// Level grades a notice.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a user-facing message raised by the session, such as a failed
// load or save.
type Notice struct {
	Level   Level
	Message string
	Err     error
}

// Notifier receives notices. Editors surface them as toasts; the default
// notifier only logs.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (fn NotifierFunc) Notify(n Notice) { fn(n) }

type logNotifier struct {
	logger logrus.FieldLogger
}

func (l logNotifier) Notify(n Notice) {
	entry := l.logger.WithField("notice", n.Message)
	if n.Err != nil {
		entry = entry.WithError(n.Err)
	}
	if n.Level == LevelError {
		entry.Warn("session: notice")
		return
	}
	entry.Info("session: notice")
}
