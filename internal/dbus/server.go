package dbus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dooshek/typozap/internal/logger"
	"github.com/dooshek/typozap/internal/pipeline"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	dbusServiceName = "com.typozap.TypoZap"
	dbusObjectPath  = "/com/typozap/TypoZap/Corrector"
	dbusInterface   = "com.typozap.TypoZap.Corrector"

	errBusyName = "com.typozap.TypoZap.Error.Busy"
)

// Corrector is the pipeline as seen from the bus
type Corrector interface {
	Trigger(ctx context.Context)
	Busy() bool
	State() pipeline.State
	OnFinished(fn func(pipeline.Result))
}

// Server exposes the correction pipeline on the session bus so desktop
// environments can bind their own shortcut to it
type Server struct {
	conn      *dbus.Conn
	corrector Corrector
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
}

// NewServer creates a D-Bus server whose runs live as long as ctx
func NewServer(ctx context.Context, corrector Corrector) *Server {
	ctx, cancel := context.WithCancel(ctx)
	s := &Server{
		corrector: corrector,
		ctx:       ctx,
		cancel:    cancel,
	}
	corrector.OnFinished(s.handleResult)
	return s
}

// Start starts the D-Bus server
func (s *Server) Start() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	reply, err := conn.RequestName(dbusServiceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to request name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return fmt.Errorf("name already taken")
	}

	if err := conn.Export(s, dbusObjectPath, dbusInterface); err != nil {
		conn.Close()
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: dbusObjectPath,
		Interfaces: []introspect.Interface{{
			Name: dbusInterface,
			Methods: []introspect.Method{
				{Name: "Correct"},
				{
					Name: "GetStatus",
					Args: []introspect.Arg{
						{Name: "busy", Type: "b", Direction: "out"},
						{Name: "state", Type: "s", Direction: "out"},
					},
				},
			},
			Signals: []introspect.Signal{
				{
					Name: "CorrectionFinished",
					Args: []introspect.Arg{{Name: "text", Type: "s"}},
				},
				{
					Name: "CorrectionFailed",
					Args: []introspect.Arg{{Name: "error", Type: "s"}},
				},
			},
		}},
	}
	err = conn.Export(introspect.NewIntrospectable(node), dbusObjectPath, "org.freedesktop.DBus.Introspectable")
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	logger.Infof("🔌 D-Bus service started: %s", dbusServiceName)
	return nil
}

// Stop stops the D-Bus server
func (s *Server) Stop() {
	s.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	logger.Info("🔌 D-Bus service stopped")
}

// Correct starts a correction of the current selection (D-Bus method)
func (s *Server) Correct() *dbus.Error {
	logger.Debug("D-Bus: Correct called")
	if s.corrector.Busy() {
		return dbus.NewError(errBusyName, []interface{}{pipeline.ErrBusy.Error()})
	}
	// runs in the background so the D-Bus call returns immediately
	s.corrector.Trigger(s.ctx)
	return nil
}

// GetStatus returns whether a run is in flight and its state (D-Bus method)
func (s *Server) GetStatus() (bool, string, *dbus.Error) {
	return s.corrector.Busy(), s.corrector.State().String(), nil
}

func (s *Server) handleResult(r pipeline.Result) {
	switch {
	case r.Err == nil:
		s.emitSignal("CorrectionFinished", r.Text)
	case errors.Is(r.Err, context.Canceled):
	default:
		s.emitSignal("CorrectionFailed", r.Err.Error())
	}
}

// emitSignal emits a D-Bus signal
func (s *Server) emitSignal(name string, args ...interface{}) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		logger.Debugf("D-Bus: Not emitting %s - service not started", name)
		return
	}

	signalPath := dbus.ObjectPath(dbusObjectPath)
	signalName := dbusInterface + "." + name

	if err := conn.Emit(signalPath, signalName, args...); err != nil {
		logger.Errorf("D-Bus: Failed to emit signal %s", err, name)
	} else {
		logger.Debugf("D-Bus: Emitted signal: %s", name)
	}
}
