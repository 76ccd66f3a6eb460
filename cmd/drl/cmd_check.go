package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dhamidi/drl/rule/workspace"
)

func newCheckCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Parse every rule file under a directory and report problems",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rootDir := "."
			if len(args) == 1 {
				rootDir = args[0]
			}

			ws := workspace.New(rootDir)
			if err := ws.ScanAll(); err != nil {
				return fmt.Errorf("scan %s: %w", rootDir, err)
			}

			problems := reportProblems(ws)

			if watch {
				watcher := workspace.NewFileWatcher(ws)
				watcher.OnChange(func(path string) {
					if info := ws.GetFile(path); info != nil {
						for _, parseErr := range info.Errors {
							fmt.Fprintln(os.Stderr, parseErr)
						}
					}
				})
				watcher.Start()
				defer watcher.Stop()

				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
				<-sigCh
				return nil
			}

			if problems > 0 {
				return fmt.Errorf("%d problems in %d files", problems, len(ws.Files()))
			}
			fmt.Printf("checked %d files, no problems\n", len(ws.Files()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and re-check files as they change")

	return cmd
}

func reportProblems(ws *workspace.Workspace) int {
	problems := 0
	for _, info := range ws.Files() {
		for _, parseErr := range info.Errors {
			fmt.Fprintln(os.Stderr, parseErr)
			problems++
		}
	}
	return problems
}
