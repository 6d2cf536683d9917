package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Keep a document across editor navigations",
	Long: `Saves and restores documents in a local SQLite session store. Restoring
follows the editor's navigation policy: returning from the preview brings
the saved document back, a reload discards it.`,
}

var (
	sessionID         string
	sessionDB         string
	sessionNavigation string
)

var sessionSaveCmd = &cobra.Command{
	Use:   "save [path]",
	Short: "Save a document under a session id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := documentPath(args)
		st, err := loadDocument(path)
		if err != nil {
			return err
		}
		return withKeeper(func(k *session.Keeper) error {
			if err := k.Save(cmd.Context(), st); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s as session %q\n", path, k.SessionID())
			return nil
		})
	},
}

var sessionRestoreCmd = &cobra.Command{
	Use:   "restore [path]",
	Short: "Restore a session document into a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nav, err := session.ParseNavigation(sessionNavigation)
		if err != nil {
			return err
		}
		path := documentPath(args)
		return withKeeper(func(k *session.Keeper) error {
			st := store.New(store.WithLogger(logger))
			restored, err := k.Restore(cmd.Context(), nav, st)
			if err != nil {
				return err
			}
			if !restored {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing restored for session %q (%s)\n", k.SessionID(), nav)
				return nil
			}
			if err := writeDocument(path, st); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored session %q to %s\n", k.SessionID(), path)
			return nil
		})
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete a saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withKeeper(func(k *session.Keeper) error {
			_, err := k.Restore(cmd.Context(), session.NavigationReload, store.New())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared session %q\n", k.SessionID())
			return nil
		})
	},
}

func init() {
	sessionCmd.PersistentFlags().StringVar(&sessionID, "id", "default", "Session id")
	sessionCmd.PersistentFlags().StringVar(&sessionDB, "db", "", "Path to the session database (default from config)")
	sessionRestoreCmd.Flags().StringVar(&sessionNavigation, "navigation", "from-preview", "How the editor was reached: fresh, reload or from-preview")

	sessionCmd.AddCommand(sessionSaveCmd, sessionRestoreCmd, sessionClearCmd)
	rootCmd.AddCommand(sessionCmd)
}

// withKeeper opens the session database for the duration of fn
func withKeeper(fn func(*session.Keeper) error) error {
	path := sessionDB
	if path == "" {
		path = cfg.SessionDB
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	backend, err := session.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Warn("failed to close session database", zap.Error(err))
		}
	}()

	return fn(session.NewKeeper(backend, sessionID, logger))
}
