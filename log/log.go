package log

import (
	"log"
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	logger Logger
)

type Logger interface {
	Infof(format string, v ...interface{})
	Debugf(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

func current() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Infof(format string, v ...interface{}) {
	if l := current(); l != nil {
		l.Infof(format, v...)
	} else {
		log.Printf("[INFO] "+format, v...)
	}
}

func Debugf(format string, v ...interface{}) {
	if l := current(); l != nil {
		l.Debugf(format, v...)
	} else {
		log.Printf("[DEBUG] "+format, v...)
	}
}

func Warnf(format string, v ...interface{}) {
	if l := current(); l != nil {
		l.Warnf(format, v...)
	} else {
		log.Printf("[WARN] "+format, v...)
	}
}

func Errorf(format string, v ...interface{}) {
	if l := current(); l != nil {
		l.Errorf(format, v...)
	} else {
		log.Printf("[ERROR] "+format, v...)
	}
}

// ZapLogger forwards to a sugared zap logger.
type ZapLogger struct {
	s *zap.SugaredLogger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{s: l.Sugar()}
}

// NewDefaultZapLogger builds a development logger when debug is set and a
// production logger otherwise.
func NewDefaultZapLogger(debug bool) (*ZapLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return NewZapLogger(l), nil
}

func (z *ZapLogger) Infof(format string, v ...interface{})  { z.s.Infof(format, v...) }
func (z *ZapLogger) Debugf(format string, v ...interface{}) { z.s.Debugf(format, v...) }
func (z *ZapLogger) Warnf(format string, v ...interface{})  { z.s.Warnf(format, v...) }
func (z *ZapLogger) Errorf(format string, v ...interface{}) { z.s.Errorf(format, v...) }

func (z *ZapLogger) Sync() error {
	return z.s.Sync()
}
