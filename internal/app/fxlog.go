package app

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/fx/fxevent"
)

// fxLogger routes fx lifecycle events into logrus.
type fxLogger struct {
	log logrus.FieldLogger
}

func (l *fxLogger) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			l.log.WithError(e.Err).WithField("callee", e.FunctionName).Error("start hook failed")
			return
		}
		l.log.WithFields(logrus.Fields{"callee": e.FunctionName, "runtime": e.Runtime.String()}).Debug("start hook executed")
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			l.log.WithError(e.Err).WithField("callee", e.FunctionName).Error("stop hook failed")
		}
	case *fxevent.Provided:
		if e.Err != nil {
			l.log.WithError(e.Err).Error("provide failed")
		}
	case *fxevent.Invoked:
		if e.Err != nil {
			l.log.WithError(e.Err).WithField("function", e.FunctionName).Error("invoke failed")
		}
	case *fxevent.Started:
		if e.Err != nil {
			l.log.WithError(e.Err).Error("application start failed")
			return
		}
		l.log.Info("application started")
	case *fxevent.Stopped:
		if e.Err != nil {
			l.log.WithError(e.Err).Error("application stop failed")
			return
		}
		l.log.Info("application stopped")
	}
}
