package httpstream

// Close aborts the connection: the socket is cut, not gracefully
// drained. Close is idempotent and a no-op when nothing is connected.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.ready && a.resp == nil {
		return nil
	}

	a.ready = false
	a.closedByUser = true
	a.connID = ""

	if a.idleTimer != nil {
		a.idleTimer.Stop()
		a.idleTimer = nil
	}
	if a.resp != nil {
		_ = a.resp.Body.Close()
		a.resp = nil
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}

	return nil
}

// IsReady reports whether the transport holds a live connection.
// Returns true after a successful Connect, false after Close.
func (a *Adapter) IsReady() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.ready
}
