//go:build !linux

package notify

// send is a no-op on platforms without a supported notification service.
func send(title, body string, opts Options) error {
	return nil
}
