package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/armature"
	"github.com/phanxgames/armature/internal/preview"
)

var (
	scriptIn  string
	scriptOut string

	previewAddr   string
	previewFPS    int
	previewWatch  bool
	previewOrigin string
)

// runScript applies an editing script. Failed steps are printed; the command
// only fails when the script cannot be read or the result cannot be saved.
func runScript(cmd *cobra.Command, args []string) error {
	sc, err := armature.LoadScript(args[0])
	if err != nil {
		return err
	}

	var s *armature.Scene
	if scriptIn != "" {
		s, _, err = openScene(scriptIn)
	} else {
		s, err = newScene()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for !sc.Done() {
		if err := sc.Step(s); err != nil {
			failed++
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
	logger.Info("script finished", zap.String("script", args[0]),
		zap.Int("steps", sc.Len()), zap.Int("failed", failed))

	if scriptOut != "" {
		if err := s.SaveFile(scriptOut); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "%d steps, %d failed, %d joints\n", sc.Len(), failed, len(s.Joints()))
	return nil
}

// runPreview serves the scene until SIGINT or SIGTERM.
func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	srv, err := preview.New(preview.Options{
		Path:        args[0],
		Addr:        previewAddr,
		FPS:         previewFPS,
		Watch:       previewWatch,
		AllowOrigin: previewOrigin,
		Config:      cfg,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
