package flow

// NavigateMsg asks the app to show the screen for a route.
type NavigateMsg struct {
	Transition
}

// Navigate wraps a transition as a message.
func Navigate(t Transition) NavigateMsg {
	return NavigateMsg{Transition: t}
}

// DemoModeChangedMsg is broadcast to the active screen when demo mode is toggled.
type DemoModeChangedMsg struct {
	On bool
}
