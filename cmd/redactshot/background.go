package main

import (
	"fmt"
	"log"

	"github.com/example/redactshot/internal/hotkey"
)

// runBackground waits for the global capture shortcut and runs a grab for
// each press. On platforms without global shortcut support it explains how
// to bind the command in the desktop environment instead.
func (r *root) runBackground() error {
	trigger := make(chan struct{}, 1)
	if !hotkey.Register(hotkey.DefaultCombo, func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}) {
		return fmt.Errorf("global shortcuts are not supported here; bind %q to %q in your desktop environment's shortcut settings",
			hotkey.DefaultCombo, r.program+" grab")
	}
	for range trigger {
		g, err := parseGrabCmd(nil, r)
		if err != nil {
			return err
		}
		if err := g.Run(); err != nil {
			log.Printf("capture: %v", err)
		}
	}
	return nil
}
