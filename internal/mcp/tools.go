package mcp

import (
	"context"
)

// Tool names exposed by the browser-automation server.
const (
	ToolNavigate       = "browser_navigate"
	ToolWaitFor        = "browser_wait_for"
	ToolSnapshot       = "browser_snapshot"
	ToolClick          = "browser_click"
	ToolPressKey       = "browser_press_key"
	ToolTakeScreenshot = "browser_take_screenshot"
)

// Navigate loads the given URL in the remote browser.
func Navigate(ctx context.Context, inv Invoker, url string) error {
	_, err := inv.Invoke(ctx, ToolNavigate, map[string]any{"url": url})
	return err
}

// WaitSeconds blocks the remote page for n seconds, letting dynamic
// content settle before a capture.
func WaitSeconds(ctx context.Context, inv Invoker, n int) error {
	if n <= 0 {
		return nil
	}
	_, err := inv.Invoke(ctx, ToolWaitFor, map[string]any{"time": n})
	return err
}

// Snapshot captures the accessibility snapshot of the current page.
func Snapshot(ctx context.Context, inv Invoker) (*Response, error) {
	return inv.Invoke(ctx, ToolSnapshot, map[string]any{})
}

// Click activates the element identified by ref. element is the
// human-readable description the server echoes into its logs.
func Click(ctx context.Context, inv Invoker, element, ref string) error {
	_, err := inv.Invoke(ctx, ToolClick, map[string]any{"element": element, "ref": ref})
	return err
}

// PressKey sends a single key press to the focused element.
func PressKey(ctx context.Context, inv Invoker, key string) error {
	_, err := inv.Invoke(ctx, ToolPressKey, map[string]any{"key": key})
	return err
}

// TakeScreenshot captures the page and returns the decoded image bytes
// with their MIME type.
func TakeScreenshot(ctx context.Context, inv Invoker) ([]byte, string, error) {
	resp, err := inv.Invoke(ctx, ToolTakeScreenshot, map[string]any{})
	if err != nil {
		return nil, "", err
	}
	return resp.FirstImage()
}
