package cli

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
)

type WatchCmd struct {
	ReportCmd
}

// debounce absorbs the burst of write events editors and exporters emit
// for a single save.
const debounce = 250 * time.Millisecond

func (cmd *WatchCmd) Run(kctx *kong.Context, globals *Globals) error {
	// The first render fails fast on bad flags before entering the loop.
	cmd.Force = true
	if err := cmd.ReportCmd.Run(kctx, globals); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: exporters typically replace the file, which
	// drops a watch set on the file itself.
	statement, err := filepath.Abs(cmd.Statement)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(statement)); err != nil {
		return err
	}

	printInfof(kctx.Stdout, "watching %s", pathStyle.Render(cmd.Statement))

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var pending *time.Timer
	rerun := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path, err := filepath.Abs(event.Name)
			if err != nil || path != statement {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(debounce, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case <-rerun:
			printInfof(kctx.Stdout, "statement changed, regenerating")
			if err := cmd.ReportCmd.Run(kctx, globals); err != nil {
				printError(kctx.Stdout, err.Error())
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(kctx.Stdout, err.Error())

		case <-interrupt:
			printInfof(kctx.Stdout, "stopping watch")
			return nil
		}
	}
}
