package cterm

// DesktopNotification delivers a notification payload (OSC 99) to the
// configured NotificationProvider. Query payloads (PayloadType "?") write
// the provider's reply back through the response provider.
func (t *Screen) DesktopNotification(payload *NotificationPayload) {
	if t.middleware != nil && t.middleware.DesktopNotification != nil {
		t.middleware.DesktopNotification(payload, t.desktopNotificationInternal)
		return
	}
	t.desktopNotificationInternal(payload)
}

func (t *Screen) desktopNotificationInternal(payload *NotificationPayload) {
	if t.notificationProvider == nil {
		return
	}
	reply := t.notificationProvider.Notify(payload)
	if reply != "" {
		t.writeResponseString(reply)
	}
}

// SetNotificationProvider sets the desktop notification provider at runtime.
func (t *Screen) SetNotificationProvider(p NotificationProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notificationProvider = p
}

// NotificationProvider returns the current desktop notification provider.
func (t *Screen) NotificationProvider() NotificationProvider {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.notificationProvider
}

// SetUserVar assigns a user variable (OSC 1337 SetUserVar=) through the
// configured middleware, if any.
func (t *Screen) SetUserVar(name, value string) {
	if t.middleware != nil && t.middleware.SetUserVar != nil {
		t.middleware.SetUserVar(name, value, t.setUserVarInternal)
		return
	}
	t.setUserVarInternal(name, value)
}

func (t *Screen) setUserVarInternal(name, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.userVars[name] = value
}

// GetUserVar returns the value of a user variable, or "" if unset.
func (t *Screen) GetUserVar(name string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.userVars[name]
}

// GetUserVars returns a copy of all currently set user variables.
func (t *Screen) GetUserVars() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	vars := make(map[string]string, len(t.userVars))
	for k, v := range t.userVars {
		vars[k] = v
	}
	return vars
}

// ClearUserVars removes all user variables.
func (t *Screen) ClearUserVars() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.userVars = make(map[string]string)
}
