package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger пишет сообщения уровней info/warning/error в stdout и stderr
type Logger struct {
	infoLog    *log.Logger
	warningLog *log.Logger
	errorLog   *log.Logger
	mu         sync.Mutex
}

func New() *Logger {
	return NewWithWriters(os.Stdout, os.Stderr)
}

// NewWithWriters позволяет перенаправить вывод, например в тестах
func NewWithWriters(out, errOut io.Writer) *Logger {
	flags := log.Lmsgprefix | log.Lshortfile
	return &Logger{
		infoLog:    log.New(out, "INFO    ", flags),
		warningLog: log.New(out, "WARNING ", flags),
		errorLog:   log.New(errOut, "ERROR   ", flags),
	}
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infoLog.Output(2, fmt.Sprintf(format, v...))
}

func (l *Logger) Warning(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warningLog.Output(2, fmt.Sprintf(format, v...))
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorLog.Output(2, fmt.Sprintf(format, v...))
}
